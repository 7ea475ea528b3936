// SPDX-License-Identifier: Apache-2.0
package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"kanso/internal/asmir"
	"kanso/internal/ast"
	"kanso/internal/errors"
	"kanso/internal/ir"
	"kanso/internal/parser"
	"kanso/internal/semantic"
	"kanso/internal/unusedstore"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: kanso <file.ka> [-emit-asm] [-verbose]")
		os.Exit(1)
	}

	var path string
	var emitAsm, verbose bool
	for _, arg := range os.Args[1:] {
		switch arg {
		case "-emit-asm":
			emitAsm = true
		case "-verbose":
			verbose = true
		default:
			path = arg
		}
	}
	if path == "" {
		fmt.Println("Usage: kanso <file.ka> [-emit-asm] [-verbose]")
		os.Exit(1)
	}

	startTime := time.Now()

	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read file: %v\n", err)
		os.Exit(1)
	}

	contract, parseErrors, scannerErrors := parser.ParseSource(path, string(source))

	// Create error reporter
	errorReporter := errors.NewErrorReporter(path, string(source))

	// Report scanner errors
	for _, err := range scannerErrors {
		fmt.Print(FormatScanError(path, err, string(source)))
	}

	// Report parser errors
	for _, err := range parseErrors {
		fmt.Print(FormatParseError(path, err, string(source)))
	}

	// Run semantic analysis if parsing succeeded
	hasErrors := len(scannerErrors) > 0 || len(parseErrors) > 0
	var analyzer *semantic.Analyzer
	if contract != nil {
		analyzer = semantic.NewAnalyzer()
		analyzer.Analyze(contract)

		// Report semantic errors
		semanticErrors := analyzer.GetErrors()
		for _, err := range semanticErrors {
			fmt.Print(errorReporter.FormatError(err))
			hasErrors = true
		}
	}

	// Calculate processing time
	duration := time.Since(startTime)
	formattedDuration := formatDuration(duration)

	// Only print AST and success message if no errors
	if !hasErrors {
		fmt.Println(contract.String())
		color.Green("Successfully processed %s in %s", path, formattedDuration)

		if emitAsm {
			if err := runEmitAsm(contract, analyzer.Context(), verbose); err != nil {
				color.Red("asm lowering failed: %v", err)
				os.Exit(1)
			}
		}
	} else {
		color.Red("Compilation failed after %s", formattedDuration)
		os.Exit(1)
	}
}

// runEmitAsm lowers an already-analyzed contract through the SSA IR and
// into the structured EVM assembly IL, runs unused-store elimination over
// it, and prints the surviving program to stdout. Removed statements are
// left out of the printed text rather than deleted from the AST, since
// printing (not rewriting) is this command's job — statement removal itself belongs to the driver that owns
// the AST, per this pass's own "no AST rewriting beyond that set" contract.
func runEmitAsm(contract *ast.Contract, context *semantic.ContextRegistry, verbose bool) error {
	program := ir.BuildProgram(contract, context)

	dialect := &asmir.EVMDialect{ObjectAccess: false}
	lowered := asmir.Lower(program, dialect)

	var trace io.Writer
	if verbose {
		trace = os.Stdout
	}

	result, err := unusedstore.Run(lowered, dialect, trace)
	if err != nil {
		return err
	}

	fmt.Println(printLoweredProgram(lowered, result))
	return nil
}

// printLoweredProgram renders lowered with removed statements elided from
// the root block and from each function body's top-level statements, the
// way a printer downstream of the statement remover would see it.
// Statements nested inside if/switch/for bodies are printed as they are.
func printLoweredProgram(prog *asmir.Program, result *unusedstore.Result) string {
	var out strings.Builder
	for _, stmt := range prog.Root.Statements {
		printStatement(&out, stmt, result, 0)
	}
	for _, fn := range prog.Functions {
		out.WriteString(fmt.Sprintf("function %s(...) {\n", fn.Name))
		for _, stmt := range fn.Body.Statements {
			printStatement(&out, stmt, result, 1)
		}
		out.WriteString("}\n")
	}
	return out.String()
}

func printStatement(out *strings.Builder, stmt asmir.Statement, result *unusedstore.Result, indent int) {
	if es, ok := stmt.(*asmir.ExprStatement); ok && result.Removed(es) {
		return
	}
	out.WriteString(strings.Repeat("  ", indent))
	out.WriteString(stmt.String())
	out.WriteString("\n")
}

func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Minute:
		return fmt.Sprintf("%.2fmin", d.Minutes())
	case d >= time.Second:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d >= time.Millisecond:
		return fmt.Sprintf("%.1fms", float64(d.Nanoseconds())/1000000.0)
	case d >= time.Microsecond:
		return fmt.Sprintf("%.1fμs", float64(d.Nanoseconds())/1000.0)
	default:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	}
}

func FormatScanError(path string, err parser.ScanError, source string) string {
	return formatError(path, err.Message, err.Position, err.Length, source)
}

func FormatParseError(path string, err parser.ParseError, source string) string {
	return formatError(path, err.Message, err.Position, 1, source)
}

func formatError(path, message string, pos parser.Position, length int, source string) string {
	lines := strings.Split(source, "\n")

	var lineContent string
	if pos.Line-1 < len(lines) && pos.Line-1 >= 0 {
		lineContent = lines[pos.Line-1]
	} else {
		lineContent = ""
	}

	// Prepare the underline
	marker := strings.Repeat(" ", max(0, pos.Column-1)) +
		strings.Repeat("^", max(1, length))

	// Color setup
	red := color.New(color.FgRed).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	// Compute width for line number column
	lineNumberWidth := len(fmt.Sprintf("%d", pos.Line))
	if lineNumberWidth < 3 {
		lineNumberWidth = 3 // minimum width for visual alignment
	}
	indent := strings.Repeat(" ", lineNumberWidth)

	return fmt.Sprintf(
		"%s: %s\n%s┌─ %s:%d:%d\n%s│\n%3d│%s\n%s│%s\n\n",
		red("error"),
		message,
		indent,
		path, pos.Line, pos.Column,
		indent,
		pos.Line, lineContent,
		indent,
		bold(marker),
	)
}
