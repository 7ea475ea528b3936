// Package unusedstore implements dead-store elimination over asmir
// programs: candidate memory/storage writes are tracked through the IL's
// structured control flow and removed when nothing ever observes them.
package unusedstore

import "kanso/internal/asmir"

// Operation is one (location, effect, start, length) tuple performed by a
// builtin call, resolved against a concrete call site. Start and Length are
// absent (nil) unless the corresponding argument is an Identifier bound in
// the value map — a bare Literal argument never resolves, and a builtin's
// implied constant length enters as one of the pseudo-symbols @1/@32.
type Operation struct {
	Location asmir.Location
	Effect   asmir.Effect
	Start    *asmir.Symbol
	Length   *asmir.Symbol
}

// resolveOperations returns the Operations a call site performs: the
// dialect's static table for builtins, resolved against this call's actual
// arguments, or at most one Read per location for a user-defined function
// (whose writes are never modelled as coverings — see resolveUserOperations).
func resolveOperations(call *asmir.FunctionCall, dialect asmir.Dialect, values asmir.ValueMap, effects asmir.SideEffectsTable) []Operation {
	if spec, ok := dialect.Lookup(call.Callee); ok {
		return resolveBuiltinOperations(call, spec, values)
	}
	return resolveUserOperations(call, effects)
}

func resolveBuiltinOperations(call *asmir.FunctionCall, spec asmir.OpSpec, values asmir.ValueMap) []Operation {
	ops := make([]Operation, 0, len(spec.Operations))
	for _, opDesc := range spec.Operations {
		ops = append(ops, resolveOneOperation(call, opDesc, values))
	}
	return ops
}

func resolveOneOperation(call *asmir.FunctionCall, opDesc asmir.OpOperation, values asmir.ValueMap) Operation {
	if opDesc.Length.Present && opDesc.LengthIsConst {
		asmir.Defect("E-OPDESC-001", "operation descriptor sets both length parameter and length constant")
	}
	if opDesc.Effect != asmir.Read && opDesc.Effect != asmir.Write {
		asmir.Defect("E-OPDESC-002", "operation with unrecognized effect")
	}

	op := Operation{Location: opDesc.Location, Effect: opDesc.Effect}
	op.Start = resolveParam(call, opDesc.Start, values)

	if opDesc.LengthIsConst {
		op.Length = lengthConstantSymbol(opDesc.LengthConstant)
	} else {
		op.Length = resolveParam(call, opDesc.Length, values)
	}
	return op
}

// lengthConstantSymbol maps a builtin's implied constant length onto the
// reserved pseudo-symbol carrying that value; any other constant is a
// defect.
func lengthConstantSymbol(n uint64) *asmir.Symbol {
	switch n {
	case 1:
		s := asmir.Pseudo1
		return &s
	case 32:
		s := asmir.Pseudo32
		return &s
	default:
		asmir.Defect("E-OPDESC-003", "length constant %d is neither 1 nor 32", n)
		return nil
	}
}

// resolveParam applies the resolution rule: only an Identifier argument
// that is bound in the value map resolves to a Symbol. A Literal, a nested
// call, an Identifier absent from the value map, or a missing/absent
// ParamRef all leave the field unresolved.
func resolveParam(call *asmir.FunctionCall, ref asmir.ParamRef, values asmir.ValueMap) *asmir.Symbol {
	if !ref.Present || ref.ArgIndex >= len(call.Args) {
		return nil
	}
	id, ok := call.Args[ref.ArgIndex].(*asmir.Identifier)
	if !ok {
		return nil
	}
	if _, known := values[id.Name]; !known {
		return nil
	}
	sym := id.Name
	return &sym
}

// resolveUserOperations models an unknown callee conservatively: at most
// one Read per location whose propagated effect is non-None, and never a
// Write — a user function's writes are treated as reads for dead-store
// purposes because this pass does not track what they write, and
// over-approximating an unknown write as a read is always sound.
func resolveUserOperations(call *asmir.FunctionCall, effects asmir.SideEffectsTable) []Operation {
	fx, ok := effects[call.Callee]
	if !ok {
		return nil
	}

	var ops []Operation
	if fx.Memory != asmir.EffectNone {
		ops = append(ops, Operation{Location: asmir.Memory, Effect: asmir.Read})
	}
	if fx.Storage != asmir.EffectNone {
		ops = append(ops, Operation{Location: asmir.Storage, Effect: asmir.Read})
	}
	return ops
}
