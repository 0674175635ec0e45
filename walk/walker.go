package walk

import (
	"fmt"
	"strings"

	"mano/logging"
	"mano/sem"
	"mano/syntax"
	"mano/typing"
)

// Walker performs semantic analysis on a parsed program.  It walks the tree
// three times: the declaration pass builds the scope tree and registers every
// declared name, the resolution pass attaches a type to every typeable node,
// and the validation pass enforces the control-flow rules.  All results are
// written as annotations on the existing tree; structural children are never
// mutated.
type Walker struct {
	log *logging.Log

	// scopeStack is the stack of scopes currently entered.  Every push is
	// paired with a deferred pop so the stack is well-formed at each pass
	// boundary even on early exits.
	scopeStack []*sem.Scope

	// currentFunction is the function whose body is being validated; nil at
	// the top level
	currentFunction *syntax.FunDecl

	// loopDepth counts the loop bodies enclosing the current node during the
	// resolution pass
	loopDepth int
}

// NewWalker creates a walker reporting into the given diagnostic sink
func NewWalker(log *logging.Log) *Walker {
	return &Walker{log: log}
}

// Analyze runs all three passes over a program.  It returns true iff the
// walker added no error diagnostics.  Running it again on an already
// annotated tree rebuilds the scope tree from scratch and produces the
// identical diagnostic set.
func Analyze(program *syntax.Program, log *logging.Log) bool {
	w := NewWalker(log)
	before := log.ErrorCount()

	w.declarationPass(program)
	w.resolutionPass(program)
	w.validationPass(program)

	return log.ErrorCount() == before
}

// -----------------------------------------------------------------------------
// Scope stack operations

// currentScope returns the innermost entered scope
func (w *Walker) currentScope() *sem.Scope {
	if len(w.scopeStack) == 0 {
		return nil
	}

	return w.scopeStack[len(w.scopeStack)-1]
}

// pushScope creates a fresh scope nested in the current one and enters it
func (w *Walker) pushScope() *sem.Scope {
	scope := sem.NewScope(w.currentScope())
	w.scopeStack = append(w.scopeStack, scope)
	return scope
}

// enterScope re-enters a scope created by the declaration pass
func (w *Walker) enterScope(scope *sem.Scope) {
	w.scopeStack = append(w.scopeStack, scope)
}

// popScope leaves the innermost scope.  Callers pair it with pushScope or
// enterScope via defer so every exit path restores the stack.
func (w *Walker) popScope() {
	w.scopeStack = w.scopeStack[:len(w.scopeStack)-1]
}

// define registers a symbol in the current scope.  On a name collision it
// reports the duplicate against the offending node and leaves the first
// definition in place.
func (w *Walker) define(sym *sem.Symbol, node syntax.Node) bool {
	if !w.currentScope().Define(sym) {
		w.errorAt(node, "Duplicate %s declaration: %s", sym.Kind, sym.Name)
		return false
	}

	return true
}

// lookup resolves a name through the lexical scope chain
func (w *Walker) lookup(name string) (*sem.Symbol, bool) {
	if scope := w.currentScope(); scope != nil {
		return scope.Lookup(name)
	}

	return nil, false
}

// errorAt reports a semantic error diagnostic at a node's position
func (w *Walker) errorAt(node syntax.Node, format string, args ...interface{}) {
	line, col := node.Pos()
	w.log.ReportError(logging.PhaseSemantic, line, col, fmt.Sprintf(format, args...))
}

// -----------------------------------------------------------------------------

// typeOf returns the type of an already-resolved expression by reading the
// annotations written by the resolution pass.  Literal types are inferred
// directly.  A nil result means the expression's type is unknown; the
// diagnostic for that was reported where resolution failed, so callers skip
// their checks instead of cascading.
func (w *Walker) typeOf(expression syntax.Node) *typing.Type {
	switch e := expression.(type) {
	case *syntax.Ident:
		return e.EvaluatedType.Clone()
	case *syntax.Literal:
		return literalType(e)
	case *syntax.BinaryExpr:
		return e.EvaluatedType.Clone()
	case *syntax.UnaryExpr:
		return e.EvaluatedType.Clone()
	case *syntax.ArrayLit:
		return e.EvaluatedType.Clone()
	case *syntax.CallExpr:
		return e.EvaluatedType.Clone()
	case *syntax.MemberAccess:
		return e.EvaluatedType.Clone()
	case *syntax.IndexAccess:
		return e.EvaluatedType.Clone()
	default:
		w.errorAt(expression, "Unsupported expression type")
		return nil
	}
}

// literalType infers a literal's type: a Number containing `.` is a float,
// the boolean keywords are bool, a String token is a string, and anything
// else is an int.  The token kind stands in for the stripped quotes of
// string lexemes.
func literalType(literal *syntax.Literal) *typing.Type {
	switch {
	case literal.TokKind == syntax.String:
		return typing.Primitive(typing.StringName)
	case literal.Value == "true" || literal.Value == "false":
		return typing.Primitive(typing.BoolName)
	case strings.Contains(literal.Value, "."):
		return typing.Primitive(typing.FloatName)
	default:
		return typing.Primitive(typing.IntName)
	}
}
