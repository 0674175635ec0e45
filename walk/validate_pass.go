package walk

import (
	"mano/syntax"
	"mano/typing"
)

// validationPass is pass 3: it enforces the control-flow rules using the
// annotations written by the earlier passes.  No scopes are entered; every
// type it needs is already on the tree.
func (w *Walker) validationPass(program *syntax.Program) {
	for _, decl := range program.Declarations {
		w.validate(decl)
	}
}

func (w *Walker) validate(node syntax.Node) {
	switch n := node.(type) {
	case *syntax.FunDecl:
		w.validateFunction(n)
	case *syntax.ClassDecl:
		for _, decl := range n.Body.Declarations {
			w.validate(decl)
		}
	case *syntax.Block:
		for _, stmt := range n.Statements {
			w.validate(stmt)
		}
	case *syntax.ExprStmt:
		// expressions were fully checked by the resolution pass
	case *syntax.ReturnStmt:
		w.validateReturn(n)
	case *syntax.IfStmt:
		w.validate(n.Then)
		if n.Else != nil {
			w.validate(n.Else)
		}
	case *syntax.WhileStmt:
		w.validate(n.Body)
	case *syntax.ForStmt:
		w.validate(n.Body)
	case *syntax.SwitchStmt:
		for _, sc := range n.Cases {
			w.validate(sc.Body)
		}

		if n.Default != nil {
			w.validate(n.Default)
		}
	case *syntax.BreakStmt:
		if !n.InsideLoop {
			w.errorAt(n, "Break statement outside loop")
		}
	case *syntax.ContinueStmt:
		if !n.InsideLoop {
			w.errorAt(n, "Continue statement outside loop")
		}
	}
}

// validateFunction checks the body statements with this function as the
// return context, then applies the return-path rule: a non-void function must
// contain at least one return statement on some path.  The check is
// existential, not exhaustive per-branch.
func (w *Walker) validateFunction(function *syntax.FunDecl) {
	enclosing := w.currentFunction
	w.currentFunction = function
	defer func() { w.currentFunction = enclosing }()

	w.validate(function.Body)

	returnType := function.ReturnType
	if returnType == nil || returnType.Name == typing.VoidName {
		return
	}

	if !hasReturn(function.Body) {
		w.errorAt(function, "Function '%s' with return type '%s' lacks return statement",
			function.Name, returnType.Name)
	}
}

// validateReturn checks that a return appears inside a function and that its
// value's type is compatible with the declared return type.  A return without
// an expression carries the void sentinel.
func (w *Walker) validateReturn(stmt *syntax.ReturnStmt) {
	if w.currentFunction == nil {
		w.errorAt(stmt, "Return statement outside function")
		return
	}

	returnType := typing.Void()
	if stmt.Expression != nil {
		returnType = w.typeOf(stmt.Expression)
		if returnType == nil {
			return
		}
	}

	expected := w.currentFunction.ReturnType
	if expected == nil {
		expected = typing.Void()
	}

	if !typing.Compatible(expected, returnType) {
		w.errorAt(stmt, "Return type mismatch in function %s", w.currentFunction.Name)
	}
}

// hasReturn searches a subtree for any return statement, stopping at the
// first one found.  Nested function declarations are opaque: their returns
// belong to them.
func hasReturn(node syntax.Node) bool {
	switch n := node.(type) {
	case *syntax.ReturnStmt:
		return true
	case *syntax.Block:
		for _, stmt := range n.Statements {
			if hasReturn(stmt) {
				return true
			}
		}
	case *syntax.IfStmt:
		if hasReturn(n.Then) {
			return true
		}

		if n.Else != nil {
			return hasReturn(n.Else)
		}
	case *syntax.WhileStmt:
		return hasReturn(n.Body)
	case *syntax.ForStmt:
		return hasReturn(n.Body)
	case *syntax.SwitchStmt:
		for _, sc := range n.Cases {
			if hasReturn(sc.Body) {
				return true
			}
		}

		if n.Default != nil {
			return hasReturn(n.Default)
		}
	}

	return false
}
