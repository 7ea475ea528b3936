package asmir

import "fmt"

// AsmDefect is a fatal internal-consistency error: never user-facing, and
// never recovered from inside the pass itself. Panic/recover is the Go
// stand-in for a hard assertion that should terminate analysis outright,
// caught only at the one boundary that needs a recoverable error instead
// of a crash.
type AsmDefect struct {
	Code    string
	Message string
}

func (d *AsmDefect) Error() string { return fmt.Sprintf("%s: %s", d.Code, d.Message) }

func defect(code, format string, args ...interface{}) {
	panic(&AsmDefect{Code: code, Message: fmt.Sprintf(format, args...)})
}

// Defect raises the same fatal internal-consistency panic as this package's
// own passes, for use by collaborators (internal/unusedstore) that must
// report defects through the identical AsmDefect type so a single recover
// at the driver boundary catches both.
func Defect(code, format string, args ...interface{}) {
	defect(code, format, args...)
}

// ParamRef describes where an Operation's start or length comes from in a
// call's argument list.
type ParamRef struct {
	ArgIndex int
	Present  bool
}

// OpOperation is one (location, effect, start-arg, length-arg-or-constant)
// tuple performed by a builtin, as read from the dialect's static table.
type OpOperation struct {
	Location       Location
	Effect         Effect
	Start          ParamRef
	Length         ParamRef
	LengthConstant uint64 // used when LengthIsConstant is true
	LengthIsConst  bool
}

// OpSpec is the dialect's static description of one builtin opcode.
type OpSpec struct {
	Name        string
	Storage     EffectClass
	MemoryEff   EffectClass
	OtherState  EffectClass
	Operations  []OpOperation
	CanContinue bool // opcode never prevents the calling block from continuing
	CanTerminate bool // opcode unconditionally ends execution observably
}

// Dialect is the analysis's view of opcode semantics: what a builtin
// touches, and whether it can hand execution back to its caller.
type Dialect interface {
	Lookup(name Symbol) (OpSpec, bool)
	ProvidesObjectAccess() bool
}

// EVMDialect is the concrete dialect for kanso's EVM backend. It models
// sstore/mstore/mstore8 as candidate stores, extcodecopy/codecopy/
// calldatacopy/returndatacopy as bulk memory copies, msize/returndatasize
// as size queries, plus stop/return/revert/selfdestruct as the opcodes
// that terminate execution.
type EVMDialect struct {
	// ObjectAccess reports whether the dialect provides object access. When
	// true, finalization treats memory still pending at program exit as
	// dead and clears it; when false, it marks those memory stores used.
	ObjectAccess bool
}

func (d *EVMDialect) ProvidesObjectAccess() bool { return d.ObjectAccess }

func at(i int) ParamRef { return ParamRef{ArgIndex: i, Present: true} }

func (d *EVMDialect) Lookup(name Symbol) (OpSpec, bool) {
	spec, ok := evmOpTable[string(name)]
	return spec, ok
}

// evmOpTable is the fixed opcode table backing EVMDialect. It is the single
// source of truth candidate-store classification validates itself against.
var evmOpTable = map[string]OpSpec{
	"mstore": {
		Name: "mstore", Storage: EffectNone, MemoryEff: EffectWrite, OtherState: EffectNone,
		Operations:  []OpOperation{{Location: Memory, Effect: Write, Start: at(0), LengthIsConst: true, LengthConstant: 32}},
		CanContinue: true,
	},
	"mstore8": {
		Name: "mstore8", Storage: EffectNone, MemoryEff: EffectWrite, OtherState: EffectNone,
		Operations:  []OpOperation{{Location: Memory, Effect: Write, Start: at(0), LengthIsConst: true, LengthConstant: 1}},
		CanContinue: true,
	},
	"mload": {
		Name: "mload", Storage: EffectNone, MemoryEff: EffectRead, OtherState: EffectNone,
		Operations:  []OpOperation{{Location: Memory, Effect: Read, Start: at(0), LengthIsConst: true, LengthConstant: 32}},
		CanContinue: true,
	},
	"sstore": {
		Name: "sstore", Storage: EffectWrite, MemoryEff: EffectNone, OtherState: EffectNone,
		Operations:  []OpOperation{{Location: Storage, Effect: Write, Start: at(0), LengthIsConst: true, LengthConstant: 1}},
		CanContinue: true,
	},
	"sload": {
		Name: "sload", Storage: EffectRead, MemoryEff: EffectNone, OtherState: EffectNone,
		Operations:  []OpOperation{{Location: Storage, Effect: Read, Start: at(0), LengthIsConst: true, LengthConstant: 1}},
		CanContinue: true,
	},
	"codecopy": {
		Name: "codecopy", Storage: EffectNone, MemoryEff: EffectWrite, OtherState: EffectNone,
		Operations:  []OpOperation{{Location: Memory, Effect: Write, Start: at(0), Length: at(2)}},
		CanContinue: true,
	},
	"calldatacopy": {
		Name: "calldatacopy", Storage: EffectNone, MemoryEff: EffectWrite, OtherState: EffectNone,
		Operations:  []OpOperation{{Location: Memory, Effect: Write, Start: at(0), Length: at(2)}},
		CanContinue: true,
	},
	"extcodecopy": {
		Name: "extcodecopy", Storage: EffectNone, MemoryEff: EffectWrite, OtherState: EffectNone,
		Operations:  []OpOperation{{Location: Memory, Effect: Write, Start: at(1), Length: at(3)}},
		CanContinue: true,
	},
	"returndatacopy": {
		Name: "returndatacopy", Storage: EffectNone, MemoryEff: EffectWrite, OtherState: EffectNone,
		Operations:  []OpOperation{{Location: Memory, Effect: Write, Start: at(0), Length: at(2)}},
		CanContinue: true,
	},
	"msize": {
		Name: "msize", Storage: EffectNone, MemoryEff: EffectNone, OtherState: EffectRead,
		CanContinue: true,
	},
	"returndatasize": {
		Name: "returndatasize", Storage: EffectNone, MemoryEff: EffectNone, OtherState: EffectRead,
		CanContinue: true,
	},
	"sender": {
		Name: "sender", Storage: EffectNone, MemoryEff: EffectNone, OtherState: EffectNone,
		CanContinue: true,
	},
	"iszero": {
		Name: "iszero", Storage: EffectNone, MemoryEff: EffectNone, OtherState: EffectNone,
		CanContinue: true,
	},
	"stop": {
		Name: "stop", Storage: EffectNone, MemoryEff: EffectNone, OtherState: EffectNone,
		CanContinue: false, CanTerminate: true,
	},
	"return": {
		Name: "return", Storage: EffectNone, MemoryEff: EffectRead, OtherState: EffectNone,
		Operations:   []OpOperation{{Location: Memory, Effect: Read, Start: at(0), Length: at(1)}},
		CanContinue:  false,
		CanTerminate: true,
	},
	"revert": {
		Name: "revert", Storage: EffectNone, MemoryEff: EffectRead, OtherState: EffectNone,
		Operations:   []OpOperation{{Location: Memory, Effect: Read, Start: at(0), Length: at(1)}},
		CanContinue:  false,
		CanTerminate: false,
	},
	"selfdestruct": {
		Name: "selfdestruct", Storage: EffectNone, MemoryEff: EffectNone, OtherState: EffectNone,
		CanContinue: false, CanTerminate: true,
	},
	// call/staticcall/delegatecall are conservative: they may read or write
	// anything and are otherwise modeled by the caller/callee side-effect
	// table, not this static table.
	"call": {
		Name: "call", Storage: EffectReadWrite, MemoryEff: EffectReadWrite, OtherState: EffectReadWrite,
		CanContinue: true,
	},
	"staticcall": {
		Name: "staticcall", Storage: EffectRead, MemoryEff: EffectReadWrite, OtherState: EffectReadWrite,
		CanContinue: true,
	},
}
