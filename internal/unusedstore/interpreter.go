package unusedstore

import "kanso/internal/asmir"

// interpreter is the active-set interpreter: it threads an
// activeState through a structured IL body, maintaining the pass-global
// allStores/usedStores/storeOperations maps as it goes.
type interpreter struct {
	dialect      asmir.Dialect
	effects      asmir.SideEffectsTable
	cfEffects    asmir.ControlFlowTable
	values       asmir.ValueMap
	oracle       *asmir.Oracle
	ignoreMemory bool

	allStores       storeSet
	usedStores      storeSet
	storeOperations map[*asmir.ExprStatement]Operation

	active activeState
}

func newInterpreter(prog *asmir.Program, dialect asmir.Dialect, effects asmir.SideEffectsTable, cfEffects asmir.ControlFlowTable, ignoreMemory bool) *interpreter {
	return &interpreter{
		dialect:         dialect,
		effects:         effects,
		cfEffects:       cfEffects,
		values:          prog.Values,
		oracle:          asmir.NewOracle(prog.Values),
		ignoreMemory:    ignoreMemory,
		allStores:       storeSet{},
		usedStores:      storeSet{},
		storeOperations: map[*asmir.ExprStatement]Operation{},
		active:          newActiveState(),
	}
}

// runFunction analyzes one function body in its own fresh active-set scope
// and its own storeOperations scope,
// restoring the caller's scope on exit.
func (in *interpreter) runFunction(fn *asmir.FunctionDefinition) {
	savedOps := in.storeOperations
	savedActive := in.active
	in.storeOperations = map[*asmir.ExprStatement]Operation{}
	in.active = newActiveState()

	in.walkBlock(fn.Body)
	// Falling off the end of a body without an explicit Leave or
	// terminating call is itself an implicit return: anything still active
	// is observable to the caller, exactly as if a Leave had appeared.
	in.markAllUsed()

	in.storeOperations = savedOps
	in.active = savedActive
}

// runRoot analyzes the program's top-level block (the selector dispatcher)
// in the ambient (empty) scope.
func (in *interpreter) runRoot(root *asmir.Block) {
	if root == nil {
		return
	}
	in.walkBlock(root)
}

func (in *interpreter) walkBlock(b *asmir.Block) {
	if b == nil {
		return
	}
	for _, stmt := range b.Statements {
		in.visitStatement(stmt)
	}
}

// visitExprForCalls applies every FunctionCall reachable in e, in
// evaluation order (arguments before the call they belong to) — covers
// variable declarations, assignments, and expression statements, plus
// conditions on if/switch/for, which may themselves contain reads.
func (in *interpreter) visitExprForCalls(e asmir.Expr) {
	call, ok := e.(*asmir.FunctionCall)
	if !ok {
		return
	}
	for _, arg := range call.Args {
		in.visitExprForCalls(arg)
	}
	in.visitCall(call)
}

func (in *interpreter) visitStatement(stmt asmir.Statement) {
	switch s := stmt.(type) {
	case *asmir.ExprStatement:
		in.visitExprStatement(s)
	case *asmir.VarDecl:
		if s.Value != nil {
			in.visitExprForCalls(s.Value)
		}
	case *asmir.Assignment:
		in.visitExprForCalls(s.Value)
	case *asmir.Leave:
		in.markAllUsed()
	case *asmir.Break, *asmir.Continue:
		// No store-relevant effect; the enclosing loop's fixed-point
		// iteration accounts for the control transfer.
	case *asmir.If:
		in.visitIf(s)
	case *asmir.Switch:
		in.visitSwitch(s)
	case *asmir.ForLoop:
		in.visitForLoop(s)
	case *asmir.FunctionDefinition:
		// Nested function definitions aren't produced by this compiler's
		// lowering; top-level functions are walked directly by the driver.
		asmir.Defect("E-INTERP-001", "nested function definition is not supported")
	case *asmir.Block:
		in.walkBlock(s)
	default:
		asmir.Defect("E-INTERP-002", "unrecognized statement variant %T", stmt)
	}
}

// visitExprStatement classifies a call, and if it's a candidate store,
// records it and adds it to the active set before applying its own
// operations (a store never applies against itself).
func (in *interpreter) visitExprStatement(s *asmir.ExprStatement) {
	call := s.Call
	if call == nil {
		asmir.Defect("E-INTERP-003", "expression statement with no call")
	}
	if call.Callee == "" {
		asmir.Defect("E-CALLEE-001", "call expression with no resolvable callee name")
	}

	if classifyCandidate(call, in.dialect, in.ignoreMemory, in.values) {
		ops := resolveOperations(call, in.dialect, in.values, in.effects)
		if len(ops) != 1 {
			asmir.Defect("E-INTERP-004", "candidate store %q does not resolve to exactly one operation", call.Callee)
		}
		op := ops[0]
		in.allStores[s] = true
		in.storeOperations[s] = op
		*in.active.forLocation(op.Location) = withStore(*in.active.forLocation(op.Location), s)
	}

	for _, arg := range call.Args {
		in.visitExprForCalls(arg)
	}
	in.visitCallExcluding(call, s)
}

func withStore(set storeSet, stmt *asmir.ExprStatement) storeSet {
	if set == nil {
		set = storeSet{}
	}
	set[stmt] = true
	return set
}

// visitCall applies every operation the callee performs against the
// current active sets, then applies the callee's control-flow side
// effects. Operations first, then control flow, is mandatory.
func (in *interpreter) visitCall(call *asmir.FunctionCall) {
	in.visitCallExcluding(call, nil)
}

// visitCallExcluding is visitCall's implementation, with self excluded from
// matching against its own just-recorded operation — a candidate store
// statement is inserted into the active set before its own call is
// applied, and must never match itself: a store never counts as its own
// covering read or write.
func (in *interpreter) visitCallExcluding(call *asmir.FunctionCall, self *asmir.ExprStatement) {
	for _, op := range resolveOperations(call, in.dialect, in.values, in.effects) {
		if op.Effect != asmir.Read && op.Effect != asmir.Write {
			asmir.Defect("E-INTERP-005", "operation with effect=None")
		}
		in.applyOperation(op, self)
	}

	canContinue, canTerminate := in.controlFlowOf(call.Callee)

	if canTerminate {
		in.markUsedAndClear(asmir.Storage)
	}
	if !canContinue {
		in.clearActive(asmir.Memory)
		if !canTerminate {
			in.clearActive(asmir.Storage)
		}
	}
}

func (in *interpreter) controlFlowOf(callee asmir.Symbol) (canContinue, canTerminate bool) {
	if spec, ok := in.dialect.Lookup(callee); ok {
		return spec.CanContinue, spec.CanTerminate
	}
	if cf, ok := in.cfEffects[callee]; ok {
		return cf.CanContinue, cf.CanTerminate
	}
	// An unknown, unanalyzed callee is conservatively assumed to return
	// normally and never to terminate execution on its own.
	return true, false
}

// applyOperation is the per-operation active-set update. self, if
// non-nil, is excluded from matching (a store's own insertion into the
// active set must never be applied against itself).
func (in *interpreter) applyOperation(op Operation, self *asmir.ExprStatement) {
	set := *in.active.forLocation(op.Location)
	var toRemove []*asmir.ExprStatement
	for stmt := range set {
		if stmt == self {
			continue
		}
		storeOp, ok := in.storeOperations[stmt]
		if !ok {
			asmir.Defect("E-INTERP-006", "active store has no recorded operation")
		}
		switch {
		case op.Effect == asmir.Read && !knownUnrelated(storeOp, op, in.oracle):
			in.usedStores[stmt] = true
			toRemove = append(toRemove, stmt)
		case op.Effect == asmir.Write && knownCovered(storeOp, op, in.oracle):
			toRemove = append(toRemove, stmt)
		}
	}
	for _, stmt := range toRemove {
		delete(set, stmt)
	}
}

// markAllUsed implements the leave/early-exit rule: both active sets are
// marked used and cleared, since control transfers to the caller.
func (in *interpreter) markAllUsed() {
	in.markUsedAndClear(asmir.Memory)
	in.markUsedAndClear(asmir.Storage)
}

func (in *interpreter) markUsedAndClear(loc asmir.Location) {
	set := *in.active.forLocation(loc)
	for stmt := range set {
		in.usedStores[stmt] = true
	}
	in.clearActive(loc)
}

func (in *interpreter) clearActive(loc asmir.Location) {
	*in.active.forLocation(loc) = storeSet{}
}

// visitIf implements the conditional join: the state surviving the
// construct is the intersection of the pre-state and the state after the
// body, since the branch may or may not have executed.
func (in *interpreter) visitIf(s *asmir.If) {
	in.visitExprForCalls(s.Condition)
	before := in.active.snapshot()
	in.walkBlock(s.Body)
	in.active.meet(before)
}

// visitSwitch runs every arm from the pre-state and intersects all results
// (plus the pre-state itself when there's no default, since falling
// through without matching any case is possible).
func (in *interpreter) visitSwitch(s *asmir.Switch) {
	in.visitExprForCalls(s.Selector)
	before := in.active.snapshot()
	result := before.snapshot()
	first := true

	for _, c := range s.Cases {
		in.active = before.snapshot()
		in.walkBlock(c.Body)
		if first {
			result = in.active
			first = false
		} else {
			result.meet(in.active)
		}
	}

	if s.Default != nil {
		in.active = before.snapshot()
		in.walkBlock(s.Default)
		if first {
			result = in.active
			first = false
		} else {
			result.meet(in.active)
		}
	} else {
		result.meet(before)
	}

	in.active = result
}

// visitForLoop implements the fixed-point loop join: run pre
// once, then iterate body+post+cond starting from the intersection of the
// prior iteration's result and the state before that iteration, until the
// active set stops shrinking. Termination is guaranteed because each
// active set only ever loses elements across iterations.
func (in *interpreter) visitForLoop(s *asmir.ForLoop) {
	in.walkBlock(s.Pre)
	loopEntry := in.active.snapshot()

	for {
		iterStart := loopEntry.snapshot()
		in.active = iterStart.snapshot()
		in.visitExprForCalls(s.Cond)
		in.walkBlock(s.Body)
		in.walkBlock(s.Post)

		next := in.active.snapshot()
		next.meet(iterStart)
		if next.equal(loopEntry) {
			in.active = next
			in.visitExprForCalls(s.Cond) // the final, loop-exiting condition check
			return
		}
		loopEntry = next
	}
}
