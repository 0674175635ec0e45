package build

import (
	"io/ioutil"

	"mano/logging"
	"mano/syntax"
	"mano/walk"
)

// Compiler wires the three front-end stages over a single source text.  Each
// instance owns its diagnostic collector, so independent sources can be
// compiled in parallel by constructing independent compilers.
type Compiler struct {
	log *logging.Log

	// SrcPath is the path of the file being compiled; empty when compiling
	// from a string
	SrcPath string

	// Tokens and Program hold the intermediate results of the last Compile
	// for the debug dumps
	Tokens  []syntax.Token
	Program *syntax.Program
}

// NewCompiler creates a compiler with a fresh diagnostic collector
func NewCompiler() *Compiler {
	return &Compiler{log: logging.NewLog()}
}

// Log exposes the compiler's diagnostic collector
func (c *Compiler) Log() *logging.Log {
	return c.log
}

// CompileFile reads a source file and runs the pipeline over it.  The error
// return covers I/O only; compile problems land in the collector.
func (c *Compiler) CompileFile(path string) (bool, error) {
	buff, err := ioutil.ReadFile(path)
	if err != nil {
		return false, err
	}

	c.SrcPath = path
	return c.CompileSource(string(buff)), nil
}

// CompileSource runs lexing, parsing, and semantic analysis over a source
// text.  Later stages still run when an earlier stage reported errors so one
// run can surface diagnostics from several phases; the result is true only
// for a clean compile.
func (c *Compiler) CompileSource(source string) bool {
	c.Tokens = syntax.Lex(source, c.log)
	c.Program = syntax.Parse(c.Tokens, c.log)
	walk.Analyze(c.Program, c.log)

	return c.log.ShouldProceed()
}
