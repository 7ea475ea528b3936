package unusedstore

import "kanso/internal/asmir"

// storeSet is a set of candidate-store statement identities, keyed by the
// ExprStatement's own pointer identity ("statement
// identities").
type storeSet map[*asmir.ExprStatement]bool

func (s storeSet) clone() storeSet {
	out := make(storeSet, len(s))
	for k := range s {
		out[k] = true
	}
	return out
}

// intersect returns the set of statements present in both s and other —
// the join rule shared by if/switch/for.
func (s storeSet) intersect(other storeSet) storeSet {
	out := make(storeSet, len(s))
	for k := range s {
		if other[k] {
			out[k] = true
		}
	}
	return out
}

func (s storeSet) equal(other storeSet) bool {
	if len(s) != len(other) {
		return false
	}
	for k := range s {
		if !other[k] {
			return false
		}
	}
	return true
}

// activeState is the interpreter's state at one program point: the two
// disjoint active sets a store may occupy.
type activeState struct {
	memory  storeSet
	storage storeSet
}

func newActiveState() activeState {
	return activeState{memory: storeSet{}, storage: storeSet{}}
}

// snapshot returns an independent copy so the caller can run a branch or
// loop body against it without mutating the state visible to sibling arms.
func (a activeState) snapshot() activeState {
	return activeState{memory: a.memory.clone(), storage: a.storage.clone()}
}

// meet intersects a with other in place — "only stores live on both paths
// remain candidates".
func (a *activeState) meet(other activeState) {
	a.memory = a.memory.intersect(other.memory)
	a.storage = a.storage.intersect(other.storage)
}

func (a activeState) equal(other activeState) bool {
	return a.memory.equal(other.memory) && a.storage.equal(other.storage)
}

func (a *activeState) forLocation(loc asmir.Location) *storeSet {
	if loc == asmir.Storage {
		return &a.storage
	}
	return &a.memory
}
