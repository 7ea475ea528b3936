package unusedstore

import (
	"testing"

	"kanso/internal/asmir"
)

func TestClassifyCandidateMemoryStores(t *testing.T) {
	values := asmir.NewValueMap()
	dest := constExpr(values, "d", 0).(*asmir.Identifier)
	val := constExpr(values, "v", 1).(*asmir.Identifier)
	dialect := &asmir.EVMDialect{}

	for _, callee := range []asmir.Symbol{"mstore", "mstore8", "sstore"} {
		call := &asmir.FunctionCall{Callee: callee, Args: []asmir.Expr{dest, val}}
		if !classifyCandidate(call, dialect, false, values) {
			t.Errorf("%s with pure identifier arguments must classify as a candidate", callee)
		}
	}
}

func TestClassifyCandidateReadOnlyOpcodesAreNeverCandidates(t *testing.T) {
	values := asmir.NewValueMap()
	dest := constExpr(values, "d", 0).(*asmir.Identifier)
	dialect := &asmir.EVMDialect{}

	for _, callee := range []asmir.Symbol{"mload", "sload", "returndatasize", "msize"} {
		call := &asmir.FunctionCall{Callee: callee, Args: []asmir.Expr{dest}}
		if classifyCandidate(call, dialect, false, values) {
			t.Errorf("%s must never classify as a candidate store", callee)
		}
	}
}

func TestClassifyCandidateIgnoreMemorySuppressesMemoryOpcodesOnly(t *testing.T) {
	values := asmir.NewValueMap()
	dest := constExpr(values, "d", 0).(*asmir.Identifier)
	val := constExpr(values, "v", 1).(*asmir.Identifier)
	dialect := &asmir.EVMDialect{}

	mstoreCall := &asmir.FunctionCall{Callee: "mstore", Args: []asmir.Expr{dest, val}}
	if classifyCandidate(mstoreCall, dialect, true, values) {
		t.Error("mstore must not classify as a candidate when memory tracking is disabled")
	}

	sstoreCall := &asmir.FunctionCall{Callee: "sstore", Args: []asmir.Expr{dest, val}}
	if !classifyCandidate(sstoreCall, dialect, true, values) {
		t.Error("ignoreMemory must not suppress storage candidates")
	}
}

func TestClassifyCandidateImpureArgumentIsNeverCandidate(t *testing.T) {
	values := asmir.NewValueMap()
	dest := constExpr(values, "d", 0)
	dialect := &asmir.EVMDialect{}

	nestedCall := &asmir.FunctionCall{Callee: "sload", Args: []asmir.Expr{dest}}
	call := &asmir.FunctionCall{Callee: "mstore", Args: []asmir.Expr{dest, nestedCall}}
	if classifyCandidate(call, dialect, false, values) {
		t.Error("a store whose argument is itself a call must not classify as a candidate: the call's own effect must run first")
	}
}

func TestArgumentsArePure(t *testing.T) {
	id := &asmir.Identifier{Name: "x"}
	lit := &asmir.Literal{Value: 5}
	nested := &asmir.FunctionCall{Callee: "add"}

	if !argumentsArePure(&asmir.FunctionCall{Args: []asmir.Expr{id, lit}}) {
		t.Error("identifier and literal arguments are pure")
	}
	if argumentsArePure(&asmir.FunctionCall{Args: []asmir.Expr{id, nested}}) {
		t.Error("a nested call argument is not pure")
	}
}
