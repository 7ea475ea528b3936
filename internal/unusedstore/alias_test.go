package unusedstore

import (
	"testing"

	"kanso/internal/asmir"
)

func sym(values asmir.ValueMap, name asmir.Symbol, value uint64) asmir.Symbol {
	values[name] = &asmir.Literal{Value: value}
	return name
}

func memOp(effect asmir.Effect, start asmir.Symbol, length asmir.Symbol) Operation {
	s, l := start, length
	return Operation{Location: asmir.Memory, Effect: effect, Start: &s, Length: &l}
}

func storageOp(effect asmir.Effect, start, length asmir.Symbol) Operation {
	s, l := start, length
	return Operation{Location: asmir.Storage, Effect: effect, Start: &s, Length: &l}
}

func TestKnownUnrelatedIsSymmetric(t *testing.T) {
	values := asmir.NewValueMap()
	a := sym(values, "a", 0)
	b := sym(values, "b", 64)
	l32 := sym(values, "l32", 32)
	oracle := asmir.NewOracle(values)

	op1 := memOp(asmir.Write, a, l32)
	op2 := memOp(asmir.Write, b, l32)

	if knownUnrelated(op1, op2, oracle) != knownUnrelated(op2, op1, oracle) {
		t.Error("knownUnrelated must be symmetric")
	}
	if !knownUnrelated(op1, op2, oracle) {
		t.Error("disjoint 32-byte ranges at 0 and 64 must be known-unrelated")
	}
}

func TestKnownUnrelatedOverlappingRangesFalse(t *testing.T) {
	values := asmir.NewValueMap()
	a := sym(values, "a", 0)
	b := sym(values, "b", 16)
	l32 := sym(values, "l32", 32)
	oracle := asmir.NewOracle(values)

	op1 := memOp(asmir.Write, a, l32)
	op2 := memOp(asmir.Write, b, l32)

	if knownUnrelated(op1, op2, oracle) {
		t.Error("overlapping ranges [0,32) and [16,48) must not be known-unrelated")
	}
}

func TestKnownUnrelatedZeroLengthIsAlwaysTrue(t *testing.T) {
	values := asmir.NewValueMap()
	a := sym(values, "a", 5)
	b := sym(values, "b", 5)
	zero := sym(values, "zero", 0)
	l32 := sym(values, "l32", 32)
	oracle := asmir.NewOracle(values)

	op1 := memOp(asmir.Write, a, zero)
	op2 := memOp(asmir.Write, b, l32)

	if !knownUnrelated(op1, op2, oracle) {
		t.Error("a zero-length operation touches no bytes and must be known-unrelated to anything")
	}
}

func TestKnownUnrelatedDifferentLocationsAlwaysTrue(t *testing.T) {
	values := asmir.NewValueMap()
	a := sym(values, "a", 0)
	l1 := sym(values, "one", 1)
	l32 := sym(values, "l32", 32)
	oracle := asmir.NewOracle(values)

	memOperation := memOp(asmir.Write, a, l32)
	storeOperation := storageOp(asmir.Write, a, l1)

	if !knownUnrelated(memOperation, storeOperation, oracle) {
		t.Error("operations on different locations must always be known-unrelated")
	}
}

func TestKnownCoveredIsReflexive(t *testing.T) {
	values := asmir.NewValueMap()
	a := sym(values, "a", 0)
	l32 := sym(values, "l32", 32)
	oracle := asmir.NewOracle(values)

	op := memOp(asmir.Write, a, l32)
	if !knownCovered(op, op, oracle) {
		t.Error("an operation must always be known-covered by an identical copy of itself")
	}
}

func TestKnownCoveredImpliesNotUnrelated(t *testing.T) {
	values := asmir.NewValueMap()
	a := sym(values, "a", 0)
	l32 := sym(values, "l32", 32)
	oracle := asmir.NewOracle(values)

	covered := memOp(asmir.Write, a, l32)
	covering := memOp(asmir.Write, a, l32)

	if !knownCovered(covered, covering, oracle) {
		t.Fatal("precondition failed: expected these to be known-covered")
	}
	if knownUnrelated(covered, covering, oracle) {
		t.Error("knownCovered(a, b) must imply !knownUnrelated(a, b)")
	}
}

func TestKnownCoveredWiderRangeCoversNarrower(t *testing.T) {
	values := asmir.NewValueMap()
	narrowStart := sym(values, "narrowStart", 8)
	narrowLen := sym(values, "narrowLen", 16)
	wideStart := sym(values, "wideStart", 0)
	wideLen := sym(values, "wideLen", 32)
	oracle := asmir.NewOracle(values)

	covered := memOp(asmir.Write, narrowStart, narrowLen)
	covering := memOp(asmir.Write, wideStart, wideLen)

	if !knownCovered(covered, covering, oracle) {
		t.Error("[8,24) must be known-covered by [0,32)")
	}
}

func TestKnownCoveredNarrowerNeverCoversWider(t *testing.T) {
	values := asmir.NewValueMap()
	narrowStart := sym(values, "narrowStart", 8)
	narrowLen := sym(values, "narrowLen", 16)
	wideStart := sym(values, "wideStart", 0)
	wideLen := sym(values, "wideLen", 32)
	oracle := asmir.NewOracle(values)

	covered := memOp(asmir.Write, wideStart, wideLen)
	covering := memOp(asmir.Write, narrowStart, narrowLen)

	if knownCovered(covered, covering, oracle) {
		t.Error("[0,32) must not be known-covered by the narrower [8,24)")
	}
}

func TestKnownCoveredStorageRequiresExactSymbolicEquality(t *testing.T) {
	values := asmir.NewValueMap()
	k := sym(values, "k", 5)
	one := sym(values, "one", 1)
	oracle := asmir.NewOracle(values)

	covered := storageOp(asmir.Write, k, one)
	covering := storageOp(asmir.Write, k, one)
	if !knownCovered(covered, covering, oracle) {
		t.Error("identical storage slot writes must be known-covered")
	}

	other := sym(values, "other", 6)
	coveringOther := storageOp(asmir.Write, other, one)
	if knownCovered(covered, coveringOther, oracle) {
		t.Error("storage coverage must never hold across syntactically distinct slots, even if numerically distinguishable")
	}
}

func TestKnownCoveredAbsentSymbolsNeverEqual(t *testing.T) {
	op1 := Operation{Location: asmir.Memory, Effect: asmir.Write}
	op2 := Operation{Location: asmir.Memory, Effect: asmir.Write}
	oracle := asmir.NewOracle(asmir.NewValueMap())

	if knownCovered(op1, op2, oracle) {
		t.Error("two operations with no resolved start/length must never be known-covered by syntactic equality")
	}
}
