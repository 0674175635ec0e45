package build

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mano/logging"
	"mano/syntax"
)

const goodProgram = `
// geometry.mano
enum Shape { Circle, Square }

class Point {
	var x: float = 0.0;
	var y: float = 0.0;

	fun scaled(factor: const float): float {
		return x * factor;
	}
}

fun total(values: [int]): int {
	var sum: int = 0;
	for (var i: int = 0; i < 3; i = i + 1) {
		sum = sum + values[i];
	}
	return sum;
}

fun main() {
	var p: Point = Point();
	var s: Shape = Shape.Circle;
	var t: int = total([1, 2, 3]);
	while (t > 0) {
		t = t - 1;
		if (t == 1) { break; }
	}
}
`

func TestCompileSourceAccepts(t *testing.T) {
	c := NewCompiler()

	ok := c.CompileSource(goodProgram)

	assert.True(t, ok, "diagnostics: %v", c.Log().Diagnostics())
	assert.Empty(t, c.Log().Diagnostics())
	require.NotNil(t, c.Program)
	assert.Len(t, c.Program.Declarations, 4)

	// the token vector ends with an EndOfFile token
	require.NotEmpty(t, c.Tokens)
	assert.Equal(t, syntax.EndOfFile, c.Tokens[len(c.Tokens)-1].Kind)
}

func TestCompileSourceEmpty(t *testing.T) {
	c := NewCompiler()

	ok := c.CompileSource("")

	assert.True(t, ok)
	assert.Len(t, c.Tokens, 1)
	assert.Empty(t, c.Program.Declarations)
}

func TestCompileSourceCollectsAcrossPhases(t *testing.T) {
	// an unknown character (lexer), a malformed declaration (parser), and an
	// undefined identifier (analyzer) are all reported in one run
	c := NewCompiler()

	ok := c.CompileSource(`
var a: int = 1 @ 2;
var b int = 2;
var c: int = missing;
`)

	assert.False(t, ok)

	phases := map[logging.Phase]bool{}
	for _, d := range c.Log().Diagnostics() {
		phases[d.Phase] = true
	}

	assert.True(t, phases[logging.PhaseLexer])
	assert.True(t, phases[logging.PhaseParser])
	assert.True(t, phases[logging.PhaseSemantic])
}

func TestCompileSourceRejectedHasDiagnostics(t *testing.T) {
	c := NewCompiler()

	ok := c.CompileSource("fun f(): int { }")

	assert.False(t, ok)
	assert.NotEmpty(t, c.Log().Diagnostics())
}

func TestCompileFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.mano")
	require.NoError(t, ioutil.WriteFile(path, []byte("let pi: float = 3.14;"), 0644))

	c := NewCompiler()
	ok, err := c.CompileFile(path)

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, path, c.SrcPath)
}

func TestCompileFileMissing(t *testing.T) {
	c := NewCompiler()

	_, err := c.CompileFile(filepath.Join(t.TempDir(), "nope.mano"))

	assert.Error(t, err)
}

func TestCompilersAreIndependent(t *testing.T) {
	bad := NewCompiler()
	bad.CompileSource("fun f() { break; }")

	good := NewCompiler()
	ok := good.CompileSource("let pi: float = 3.14;")

	assert.True(t, ok)
	assert.Empty(t, good.Log().Diagnostics())
	assert.NotEmpty(t, bad.Log().Diagnostics())
}
