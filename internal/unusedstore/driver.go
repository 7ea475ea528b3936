package unusedstore

import (
	"fmt"
	"io"

	"kanso/internal/asmir"
)

// Result is the pass's output: the set of statements the external
// statement-remover should delete. This pass reports removal identities
// only — it never rewrites the AST itself.
type Result struct {
	Remove map[*asmir.ExprStatement]bool
}

// Removed reports whether stmt is in the removal set.
func (r *Result) Removed(stmt *asmir.ExprStatement) bool {
	return r.Remove[stmt]
}

// Run builds the side-effect and control-flow tables, runs the
// interpreter over the program's root and every function, finalizes the
// active sets at program exit, and computes the removal set.
//
// Internal-consistency defects (asmir.AsmDefect) are raised as panics
// inside the interpreter and recovered here into a returned error, the way
// an already-type-checked program's assertion failures are reported by its
// driver rather than treated as user-facing diagnostics.
func Run(prog *asmir.Program, dialect asmir.Dialect, trace io.Writer) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			if d, ok := r.(*asmir.AsmDefect); ok {
				err = d
				return
			}
			panic(r)
		}
	}()

	effects := asmir.BuildSideEffectsTable(prog, dialect)
	cfEffects := asmir.BuildControlFlowTable(prog, dialect)
	ignoreMemory := asmir.HasMSize(prog)

	in := newInterpreter(prog, dialect, effects, cfEffects, ignoreMemory)
	in.runRoot(prog.Root)
	for _, fn := range prog.Functions {
		in.runFunction(fn)
	}

	finalize(in, dialect)

	removal := make(map[*asmir.ExprStatement]bool)
	for stmt := range in.allStores {
		if !in.usedStores[stmt] {
			removal[stmt] = true
		}
	}

	if trace != nil {
		fmt.Fprintf(trace, "unusedstore: %d of %d candidate stores removed\n", len(removal), len(in.allStores))
	}

	return &Result{Remove: removal}, nil
}

// finalize handles the root block's trailing active state: memory at
// program exit is cleared (its pending stores stay dead) when the dialect
// provides object access, and marked used otherwise; storage is always
// marked used, since it survives to the end of the transaction.
//
// Each function's own trailing active state is already fully drained by
// the time runFunction restores the caller's scope — every function body
// ends in an explicit Leave, a terminating call, or (falling off the end)
// runFunction's own markAllUsed fallback — so only the root's final exit
// point needs finalizing here.
func finalize(in *interpreter, dialect asmir.Dialect) {
	if dialect.ProvidesObjectAccess() {
		in.clearActive(asmir.Memory)
	} else {
		in.markUsedAndClear(asmir.Memory)
	}
	in.markUsedAndClear(asmir.Storage)
}
