package asmir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOracleConstantFolding(t *testing.T) {
	values := NewValueMap()
	values["a"] = &Literal{Value: 10}
	values["b"] = &FunctionCall{Callee: "add", Args: []Expr{&Identifier{Name: "a"}, &Literal{Value: 5}}}
	values["c"] = &FunctionCall{Callee: "sub", Args: []Expr{&Identifier{Name: "b"}, &Literal{Value: 15}}}
	o := NewOracle(values)

	cases := []struct {
		name string
		v    Symbol
		want uint64
		ok   bool
	}{
		{"literal", "a", 10, true},
		{"add chain", "b", 15, true},
		{"sub to zero", "c", 0, true},
		{"unbound", "missing", 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := o.ValueIfKnownConstant(tc.v)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestOracleKnownToBeZero(t *testing.T) {
	values := NewValueMap()
	values["z"] = &Literal{Value: 0}
	values["nz"] = &Literal{Value: 1}
	o := NewOracle(values)

	assert.True(t, o.KnownToBeZero(Pseudo0))
	assert.True(t, o.KnownToBeZero("z"))
	assert.False(t, o.KnownToBeZero("nz"))
	assert.False(t, o.KnownToBeZero("unknown"))
}

func TestOracleKnownToBeEqualSymmetry(t *testing.T) {
	values := NewValueMap()
	values["x"] = &Literal{Value: 7}
	values["y"] = &Literal{Value: 7}
	values["z"] = &Literal{Value: 8}
	o := NewOracle(values)

	assert.True(t, o.KnownToBeEqual("x", "y"))
	assert.True(t, o.KnownToBeEqual("y", "x"), "knownToBeEqual must be symmetric")
	assert.True(t, o.KnownToBeEqual("x", "x"), "syntactic identity is always sufficient")
	assert.False(t, o.KnownToBeEqual("x", "z"))
}

func TestOracleKnownToBeDifferentIsSymmetricAndConservative(t *testing.T) {
	values := NewValueMap()
	values["x"] = &Literal{Value: 7}
	values["y"] = &Literal{Value: 8}
	o := NewOracle(values)

	assert.True(t, o.KnownToBeDifferent("x", "y"))
	assert.True(t, o.KnownToBeDifferent("y", "x"))
	assert.False(t, o.KnownToBeDifferent("x", "x"), "a symbol is never known-different from itself")
	// A false answer is always safe: unresolved symbols must not be
	// reported as known-different.
	assert.False(t, o.KnownToBeDifferent("x", "unresolved"))
}

func TestOracleKnownToBeDifferentByAtLeast32(t *testing.T) {
	values := NewValueMap()
	values["a"] = &Literal{Value: 0}
	values["b"] = &Literal{Value: 32}
	values["c"] = &Literal{Value: 31}
	o := NewOracle(values)

	assert.True(t, o.KnownToBeDifferentByAtLeast32("a", "b"))
	assert.True(t, o.KnownToBeDifferentByAtLeast32("b", "a"), "must hold in either direction")
	assert.False(t, o.KnownToBeDifferentByAtLeast32("a", "c"))
}
