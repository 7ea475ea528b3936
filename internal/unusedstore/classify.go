package unusedstore

import "kanso/internal/asmir"

// candidateOpcodes is the hard-coded list this pass's consistency check
// requires to agree with the dialect's own semantic classification.
var candidateOpcodes = map[asmir.Symbol]bool{
	"sstore": true, "mstore": true, "mstore8": true,
	"extcodecopy": true, "codecopy": true, "calldatacopy": true, "returndatacopy": true,
}

// classifyCandidate decides whether stmt's call is a candidate store.
// ignoreMemory is true when msize is reachable anywhere in the program; memory
// writes are then never candidates.
func classifyCandidate(call *asmir.FunctionCall, dialect asmir.Dialect, ignoreMemory bool, values asmir.ValueMap) bool {
	spec, known := dialect.Lookup(call.Callee)

	isCandidate := known &&
		spec.OtherState != asmir.EffectWrite &&
		(spec.Storage == asmir.EffectWrite || (!ignoreMemory && spec.MemoryEff == asmir.EffectWrite)) &&
		argumentsArePure(call)

	inHardcodedList := candidateOpcodes[call.Callee]
	if known && inHardcodedList != (spec.Storage == asmir.EffectWrite || spec.MemoryEff == asmir.EffectWrite) {
		asmir.Defect("E-CLASSIFY-001", "opcode %q disagrees between semantic classification and hard-coded candidate list", call.Callee)
	}

	if !isCandidate {
		return false
	}

	if call.Callee == "returndatacopy" {
		return returndatacopyIsRemovable(call, values)
	}
	return true
}

// argumentsArePure requires every argument to be an identifier or a
// literal: anything else may have been evaluated for a side effect the
// call's arguments hide.
func argumentsArePure(call *asmir.FunctionCall) bool {
	for _, arg := range call.Args {
		switch arg.(type) {
		case *asmir.Identifier, *asmir.Literal:
		default:
			return false
		}
	}
	return true
}

// returndatacopyIsRemovable implements the one safe returndatacopy shape:
// returndatacopy(X, 0, returndatasize()) — start offset known-zero, length
// an identifier whose defining expression is a returndatasize() call.
func returndatacopyIsRemovable(call *asmir.FunctionCall, values asmir.ValueMap) bool {
	if len(call.Args) != 3 {
		return false
	}
	oracle := asmir.NewOracle(values)

	startOffsetID, ok := call.Args[1].(*asmir.Identifier)
	if !ok {
		return false
	}
	if !oracle.KnownToBeZero(startOffsetID.Name) {
		return false
	}

	lengthID, ok := call.Args[2].(*asmir.Identifier)
	if !ok {
		return false
	}
	defExpr, ok := values[lengthID.Name]
	if !ok {
		return false
	}
	defCall, ok := defExpr.(*asmir.FunctionCall)
	return ok && defCall.Callee == "returndatasize"
}
