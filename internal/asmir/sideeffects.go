package asmir

// FunctionEffects is the per-function effect summary the side-effects
// table exposes: whether a function, transitively through everything it
// calls, may read or write memory, storage, or "other" state (logs,
// external calls whose effects we cannot see into).
type FunctionEffects struct {
	Memory  EffectClass
	Storage EffectClass
	Other   EffectClass
}

// ControlFlowEffects is the per-function control-flow summary: whether
// calling the function can return control to its caller, and whether it
// can end execution observably (return/stop/selfdestruct).
type ControlFlowEffects struct {
	CanContinue  bool
	CanTerminate bool
}

// SideEffectsTable maps function name to FunctionEffects, built by fixed-
// point propagation over the call graph — a function's effects are the join
// of its own builtin calls and every function it calls, transitively.
type SideEffectsTable map[Symbol]FunctionEffects

// ControlFlowTable maps function name to ControlFlowEffects.
type ControlFlowTable map[Symbol]ControlFlowEffects

func joinClass(a, b EffectClass) EffectClass {
	if a == EffectNone {
		return b
	}
	if b == EffectNone {
		return a
	}
	if a == b {
		return a
	}
	return EffectReadWrite
}

// BuildSideEffectsTable computes the transitive effects of every function
// in the program by iterating to a fixed point over the call graph, the way
// a real interprocedural summary pass would (there is no acyclicity
// assumption: mutual recursion just needs one extra pass to converge).
func BuildSideEffectsTable(prog *Program, dialect Dialect) SideEffectsTable {
	table := make(SideEffectsTable, len(prog.Functions))
	for _, fn := range prog.Functions {
		table[fn.Name] = FunctionEffects{}
	}

	changed := true
	for changed {
		changed = false
		for _, fn := range prog.Functions {
			eff := table[fn.Name]
			before := eff
			collectCallEffects(fn.Body, dialect, table, &eff)
			if eff != before {
				table[fn.Name] = eff
				changed = true
			}
		}
	}
	return table
}

func collectCallEffects(b *Block, dialect Dialect, table SideEffectsTable, acc *FunctionEffects) {
	if b == nil {
		return
	}
	for _, stmt := range b.Statements {
		walkStatementCalls(stmt, func(call *FunctionCall) {
			joinCallEffects(call, dialect, table, acc)
		})
	}
}

func joinCallEffects(call *FunctionCall, dialect Dialect, table SideEffectsTable, acc *FunctionEffects) {
	if spec, ok := dialect.Lookup(call.Callee); ok {
		acc.Memory = joinClass(acc.Memory, spec.MemoryEff)
		acc.Storage = joinClass(acc.Storage, spec.Storage)
		acc.Other = joinClass(acc.Other, spec.OtherState)
		return
	}
	if callee, ok := table[call.Callee]; ok {
		acc.Memory = joinClass(acc.Memory, callee.Memory)
		acc.Storage = joinClass(acc.Storage, callee.Storage)
		acc.Other = joinClass(acc.Other, callee.Other)
	}
}

// walkStatementCalls invokes visit for every FunctionCall reachable from
// stmt, structurally, including calls nested in expressions.
func walkStatementCalls(stmt Statement, visit func(*FunctionCall)) {
	switch s := stmt.(type) {
	case *ExprStatement:
		walkExprCalls(s.Call, visit)
	case *VarDecl:
		if s.Value != nil {
			walkExprCalls(s.Value, visit)
		}
	case *Assignment:
		walkExprCalls(s.Value, visit)
	case *If:
		walkExprCalls(s.Condition, visit)
		for _, inner := range s.Body.Statements {
			walkStatementCalls(inner, visit)
		}
	case *Switch:
		walkExprCalls(s.Selector, visit)
		for _, c := range s.Cases {
			for _, inner := range c.Body.Statements {
				walkStatementCalls(inner, visit)
			}
		}
		if s.Default != nil {
			for _, inner := range s.Default.Statements {
				walkStatementCalls(inner, visit)
			}
		}
	case *ForLoop:
		for _, inner := range s.Pre.Statements {
			walkStatementCalls(inner, visit)
		}
		walkExprCalls(s.Cond, visit)
		for _, inner := range s.Body.Statements {
			walkStatementCalls(inner, visit)
		}
		for _, inner := range s.Post.Statements {
			walkStatementCalls(inner, visit)
		}
	case *Block:
		for _, inner := range s.Statements {
			walkStatementCalls(inner, visit)
		}
	}
}

func walkExprCalls(e Expr, visit func(*FunctionCall)) {
	call, ok := e.(*FunctionCall)
	if !ok {
		return
	}
	visit(call)
	for _, arg := range call.Args {
		walkExprCalls(arg, visit)
	}
}

// BuildControlFlowTable computes, for every function, whether it can
// continue (return normally to its caller) and whether it can terminate
// (end execution observably). Both default false in the fixed point's
// starting state and are set true the first time a reachable statement
// proves them so; recursion is handled by iterating to a fixed point.
func BuildControlFlowTable(prog *Program, dialect Dialect) ControlFlowTable {
	table := make(ControlFlowTable, len(prog.Functions))
	for _, fn := range prog.Functions {
		table[fn.Name] = ControlFlowEffects{}
	}

	changed := true
	for changed {
		changed = false
		for _, fn := range prog.Functions {
			cont, term := analyzeControlFlow(fn.Body, dialect, table)
			cur := table[fn.Name]
			if cont != cur.CanContinue || term != cur.CanTerminate {
				table[fn.Name] = ControlFlowEffects{CanContinue: cont, CanTerminate: term}
				changed = true
			}
		}
	}
	return table
}

// analyzeControlFlow returns (canContinue, canTerminate) for a function
// body. canContinue is true if some path through the body returns control
// normally to its caller — by falling off the end, or by an explicit
// Leave — without every path already having been consumed by a call that
// can neither continue nor terminate (a "pure revert"). canTerminate is
// true if any reachable path performs a call that ends execution
// observably (return/stop/selfdestruct).
//
// This walks the body's actual structure instead of flattening every
// nested call into one flat set: a call inside an if's body only affects
// the paths that take that branch, never the paths that skip it — an
// if has no else, so the point right after it is always reachable from
// the branch-not-taken path regardless of what the branch itself does.
func analyzeControlFlow(b *Block, dialect Dialect, table ControlFlowTable) (canContinue, canTerminate bool) {
	fs := &flowState{}
	reachableAtEnd, terminate := fs.block(b, dialect, table, true)
	return reachableAtEnd || fs.returnedViaLeave, terminate
}

// flowState carries the one thing that must survive across nested blocks
// rather than just threading through sibling statements: whether any path
// has already returned control to the caller via an explicit Leave.
type flowState struct {
	returnedViaLeave bool
}

// block reports whether, given reachable at entry, some path reaches the
// syntactic end of b, and whether any reachable path along the way
// performs a terminating call.
func (fs *flowState) block(b *Block, dialect Dialect, table ControlFlowTable, reachable bool) (reachableAtEnd, terminate bool) {
	if b == nil {
		return reachable, false
	}
	for _, stmt := range b.Statements {
		var stmtTerm bool
		reachable, stmtTerm = fs.statement(stmt, dialect, table, reachable)
		terminate = terminate || stmtTerm
	}
	return reachable, terminate
}

func (fs *flowState) statement(stmt Statement, dialect Dialect, table ControlFlowTable, reachable bool) (reachableAfter, terminate bool) {
	if !reachable {
		return false, false
	}
	switch s := stmt.(type) {
	case *ExprStatement:
		return fs.exprCalls(s.Call, dialect, table, true)
	case *VarDecl:
		if s.Value == nil {
			return true, false
		}
		return fs.exprCalls(s.Value, dialect, table, true)
	case *Assignment:
		return fs.exprCalls(s.Value, dialect, table, true)
	case *Leave:
		fs.returnedViaLeave = true
		return false, false
	case *Break, *Continue:
		return true, false
	case *If:
		condReachable, condTerm := fs.exprCalls(s.Condition, dialect, table, true)
		if !condReachable {
			return false, condTerm
		}
		_, bodyTerm := fs.block(s.Body, dialect, table, true)
		return true, condTerm || bodyTerm
	case *Switch:
		selReachable, selTerm := fs.exprCalls(s.Selector, dialect, table, true)
		if !selReachable {
			return false, selTerm
		}
		terminate = selTerm
		anyArmReachable := s.Default == nil // no default: "no case matched" is itself a continuing path
		for _, c := range s.Cases {
			armReachable, armTerm := fs.block(c.Body, dialect, table, true)
			terminate = terminate || armTerm
			anyArmReachable = anyArmReachable || armReachable
		}
		if s.Default != nil {
			armReachable, armTerm := fs.block(s.Default, dialect, table, true)
			terminate = terminate || armTerm
			anyArmReachable = anyArmReachable || armReachable
		}
		return anyArmReachable, terminate
	case *ForLoop:
		preReachable, preTerm := fs.block(s.Pre, dialect, table, true)
		if !preReachable {
			return false, preTerm
		}
		condReachable, condTerm := fs.exprCalls(s.Cond, dialect, table, true)
		terminate = preTerm || condTerm
		if !condReachable {
			return false, terminate
		}
		_, bodyTerm := fs.block(s.Body, dialect, table, true)
		_, postTerm := fs.block(s.Post, dialect, table, true)
		// The loop may run zero iterations (condition false immediately),
		// a path that always reaches past the loop regardless of what the
		// body or post block do.
		return true, terminate || bodyTerm || postTerm
	case *Block:
		return fs.block(s, dialect, table, true)
	default:
		return true, false
	}
}

// exprCalls walks every FunctionCall reachable from e in evaluation order
// (arguments before the call they belong to), threading reachability
// sequentially the same way a straight-line statement sequence would.
func (fs *flowState) exprCalls(e Expr, dialect Dialect, table ControlFlowTable, reachable bool) (reachableAfter, terminate bool) {
	call, ok := e.(*FunctionCall)
	if !ok || !reachable {
		return reachable, false
	}
	for _, arg := range call.Args {
		var argTerm bool
		reachable, argTerm = fs.exprCalls(arg, dialect, table, reachable)
		terminate = terminate || argTerm
		if !reachable {
			return false, terminate
		}
	}
	canContinue, canTerminate, known := lookupCallFlow(call.Callee, dialect, table)
	if !known {
		return reachable, terminate
	}
	return canContinue, terminate || canTerminate
}

func lookupCallFlow(callee Symbol, dialect Dialect, table ControlFlowTable) (canContinue, canTerminate, known bool) {
	if spec, ok := dialect.Lookup(callee); ok {
		return spec.CanContinue, spec.CanTerminate, true
	}
	if cf, ok := table[callee]; ok {
		return cf.CanContinue, cf.CanTerminate, true
	}
	return false, false, false
}

// HasMSize reports whether the program ever queries current memory size,
// the condition under which memory stores cannot be tracked at all: any
// use of msize makes memory layout observable, so no memory store can be
// proven dead.
func HasMSize(prog *Program) bool {
	found := false
	visit := func(call *FunctionCall) {
		if call.Callee == "msize" {
			found = true
		}
	}
	for _, stmt := range prog.Root.Statements {
		walkStatementCalls(stmt, visit)
	}
	for _, fn := range prog.Functions {
		for _, stmt := range fn.Body.Statements {
			walkStatementCalls(stmt, visit)
		}
	}
	return found
}
