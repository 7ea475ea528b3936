package unusedstore

import "kanso/internal/asmir"

// knownUnrelated reports whether no byte touched by op1 is touched by op2.
// A false answer is always safe; true must be provable.
func knownUnrelated(op1, op2 Operation, oracle *asmir.Oracle) bool {
	if op1.Location != op2.Location {
		return true
	}
	if op1.Location == asmir.Storage {
		return storageUnrelated(op1, op2, oracle)
	}
	return memoryUnrelated(op1, op2, oracle)
}

// storageUnrelated requires both lengths to be the reserved single-word
// constant — storage is word-indexed, so any other length in a storage
// operation is an internal-consistency defect, not a soundness question.
func storageUnrelated(op1, op2 Operation, oracle *asmir.Oracle) bool {
	if op1.Start == nil || op2.Start == nil {
		return false
	}
	requireStorageWordLength(op1, oracle)
	requireStorageWordLength(op2, oracle)
	return oracle.KnownToBeDifferent(*op1.Start, *op2.Start)
}

func requireStorageWordLength(op Operation, oracle *asmir.Oracle) {
	if op.Length == nil || !oracle.KnownToBeEqual(*op.Length, asmir.Pseudo1) {
		asmir.Defect("E-ALIAS-001", "storage operation length is not known-equal to 1")
	}
}

func memoryUnrelated(op1, op2 Operation, oracle *asmir.Oracle) bool {
	if lengthKnownZero(op1.Length, oracle) || lengthKnownZero(op2.Length, oracle) {
		return true
	}
	if rangeBefore(op1, op2, oracle) || rangeBefore(op2, op1, oracle) {
		return true
	}
	if bothLengthsAtMost32(op1, op2, oracle) && oracle.KnownToBeDifferentByAtLeast32(*op1.Start, *op2.Start) {
		return true
	}
	return false
}

// rangeBefore checks a.start + a.length <= b.start with no overflow, i.e.
// a's byte range ends at or before b's starts.
func rangeBefore(a, b Operation, oracle *asmir.Oracle) bool {
	if a.Start == nil || a.Length == nil || b.Start == nil {
		return false
	}
	aStart, aOK := oracle.ValueIfKnownConstant(*a.Start)
	aLen, aLenOK := oracle.ValueIfKnownConstant(*a.Length)
	bStart, bOK := oracle.ValueIfKnownConstant(*b.Start)
	if !aOK || !aLenOK || !bOK {
		return false
	}
	end := aStart + aLen
	if end < aStart {
		return false // overflow
	}
	return end <= bStart
}

func bothLengthsAtMost32(op1, op2 Operation, oracle *asmir.Oracle) bool {
	l1, ok1 := constLength(op1, oracle)
	l2, ok2 := constLength(op2, oracle)
	return ok1 && ok2 && l1 <= 32 && l2 <= 32
}

func constLength(op Operation, oracle *asmir.Oracle) (uint64, bool) {
	if op.Length == nil {
		return 0, false
	}
	return oracle.ValueIfKnownConstant(*op.Length)
}

func lengthKnownZero(length *asmir.Symbol, oracle *asmir.Oracle) bool {
	return length != nil && oracle.KnownToBeZero(*length)
}

// knownCovered reports whether every byte of covered is also written by
// covering.
func knownCovered(covered, covering Operation, oracle *asmir.Oracle) bool {
	if covered.Location != covering.Location {
		return false
	}
	if syntacticallyEqual(covered.Start, covering.Start) && syntacticallyEqual(covered.Length, covering.Length) {
		return true
	}
	if covered.Location == asmir.Storage {
		// Storage coverage requires exact symbolic equality of both start
		// and length; no arithmetic reasoning applies (one word per write).
		return false
	}
	return memoryCovered(covered, covering, oracle)
}

func memoryCovered(covered, covering Operation, oracle *asmir.Oracle) bool {
	if lengthKnownZero(covered.Length, oracle) {
		return true
	}
	if covered.Start != nil && covering.Start != nil && oracle.KnownToBeEqual(*covered.Start, *covering.Start) {
		cLen, cOK := constLength(covered, oracle)
		gLen, gOK := constLength(covering, oracle)
		if cOK && gOK && cLen <= gLen {
			return true
		}
	}
	return rangeWithin(covered, covering, oracle)
}

// rangeWithin checks covering.start <= covered.start and
// covered.start+covered.length <= covering.start+covering.length, with all
// four values known constants and no overflow.
func rangeWithin(covered, covering Operation, oracle *asmir.Oracle) bool {
	if covered.Start == nil || covering.Start == nil {
		return false
	}
	cStart, cOK := oracle.ValueIfKnownConstant(*covered.Start)
	gStart, gOK := oracle.ValueIfKnownConstant(*covering.Start)
	cLen, cLenOK := constLength(covered, oracle)
	gLen, gLenOK := constLength(covering, oracle)
	if !cOK || !gOK || !cLenOK || !gLenOK {
		return false
	}
	coveredEnd := cStart + cLen
	coveringEnd := gStart + gLen
	if coveredEnd < cStart || coveringEnd < gStart {
		return false // overflow
	}
	return gStart <= cStart && coveredEnd <= coveringEnd
}

func syntacticallyEqual(a, b *asmir.Symbol) bool {
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}
