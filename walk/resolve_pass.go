package walk

import (
	"mano/sem"
	"mano/syntax"
	"mano/typing"
)

// resolutionPass is pass 2: it attaches a type to every typeable node,
// resolving identifiers through the scope tree built by pass 1.  It also
// tracks loop depth and writes the InsideLoop flag consumed by pass 3.
func (w *Walker) resolutionPass(program *syntax.Program) {
	w.enterScope(program.Scope)
	defer w.popScope()

	for _, decl := range program.Declarations {
		w.resolve(decl)
	}
}

// resolve walks one statement or declaration
func (w *Walker) resolve(node syntax.Node) {
	switch n := node.(type) {
	case *syntax.VarDecl:
		w.resolveVariable(n)
	case *syntax.FunDecl:
		w.resolveFunction(n)
	case *syntax.ClassDecl:
		w.enterScope(n.OwnScope)
		defer w.popScope()

		for _, decl := range n.Body.Declarations {
			w.resolve(decl)
		}
	case *syntax.EnumDecl:
		// nothing to resolve: values carry the enum type from pass 1
	case *syntax.Block:
		w.resolveBlock(n)
	case *syntax.ExprStmt:
		w.resolveExpr(n.Expression)
	case *syntax.ReturnStmt:
		if n.Expression != nil {
			w.resolveExpr(n.Expression)
		}
	case *syntax.IfStmt:
		w.resolveExpr(n.Cond)
		w.resolveBlock(n.Then)
		if n.Else != nil {
			w.resolveBlock(n.Else)
		}
	case *syntax.WhileStmt:
		w.resolveWhile(n)
	case *syntax.ForStmt:
		w.resolveFor(n)
	case *syntax.SwitchStmt:
		w.resolveSwitch(n)
	case *syntax.BreakStmt:
		n.InsideLoop = w.loopDepth > 0
	case *syntax.ContinueStmt:
		n.InsideLoop = w.loopDepth > 0
	default:
		// an expression in statement position was already rejected by the
		// parser; resolve it anyway for best-effort annotation
		w.resolveExpr(node)
	}
}

func (w *Walker) resolveBlock(block *syntax.Block) {
	w.enterScope(block.Scope)
	defer w.popScope()

	for _, stmt := range block.Statements {
		w.resolve(stmt)
	}
}

// resolveVariable checks the initializer against the declared type and
// finalizes the resolved type.  A missing annotation was already reported by
// pass 1.
func (w *Walker) resolveVariable(variable *syntax.VarDecl) {
	if variable.DeclaredType == nil {
		return
	}

	if variable.Initializer != nil {
		// an empty array literal cannot name its element type itself; the
		// declared type is its context
		if lit, ok := variable.Initializer.(*syntax.ArrayLit); ok && len(lit.Elements) == 0 {
			w.resolveEmptyArrayLit(lit, variable.DeclaredType)
		} else {
			w.resolveExpr(variable.Initializer)
		}

		if initType := w.typeOf(variable.Initializer); initType != nil {
			if !typing.Compatible(variable.DeclaredType, initType) {
				w.errorAt(variable, "Type mismatch in variable '%s'. Declared: %s, Inferred: %s",
					variable.Name, variable.DeclaredType.Name, initType.Name)
			}
		}
	}

	variable.ResolvedType = variable.DeclaredType.Clone()
}

func (w *Walker) resolveFunction(function *syntax.FunDecl) {
	w.enterScope(function.ParamScope)
	defer w.popScope()

	w.resolveBlock(function.Body)
}

func (w *Walker) resolveWhile(loop *syntax.WhileStmt) {
	w.resolveExpr(loop.Cond)
	if condType := w.typeOf(loop.Cond); condType != nil && condType.Name != typing.BoolName {
		w.errorAt(loop, "While condition must be boolean")
	}

	w.loopDepth++
	defer func() { w.loopDepth-- }()

	w.resolveBlock(loop.Body)
}

func (w *Walker) resolveFor(loop *syntax.ForStmt) {
	w.enterScope(loop.Scope)
	defer w.popScope()

	if loop.Init != nil {
		w.resolveVariable(loop.Init)
	}

	w.resolveExpr(loop.Cond)
	if condType := w.typeOf(loop.Cond); condType != nil && condType.Name != typing.BoolName {
		w.errorAt(loop, "For loop condition must be boolean")
	}

	w.resolveExpr(loop.Update)

	w.loopDepth++
	defer func() { w.loopDepth-- }()

	w.resolveBlock(loop.Body)
}

func (w *Walker) resolveSwitch(stmt *syntax.SwitchStmt) {
	w.resolveExpr(stmt.Discriminant)
	discType := w.typeOf(stmt.Discriminant)

	for _, sc := range stmt.Cases {
		w.resolveExpr(sc.Value)
		if caseType := w.typeOf(sc.Value); discType != nil && caseType != nil {
			if !typing.Compatible(discType, caseType) {
				w.errorAt(sc.Value, "Switch case type mismatch")
			}
		}

		w.resolveBlock(sc.Body)
	}

	if stmt.Default != nil {
		w.resolveBlock(stmt.Default)
	}
}

// -----------------------------------------------------------------------------
// Expressions

// resolveExpr walks an expression bottom-up, writing evaluated types
func (w *Walker) resolveExpr(expression syntax.Node) {
	switch e := expression.(type) {
	case *syntax.Ident:
		w.resolveIdent(e)
	case *syntax.Literal:
		// literal types are inferred on demand by typeOf
	case *syntax.BinaryExpr:
		w.resolveBinary(e)
	case *syntax.UnaryExpr:
		w.resolveUnary(e)
	case *syntax.ArrayLit:
		w.resolveArrayLit(e)
	case *syntax.CallExpr:
		w.resolveCall(e)
	case *syntax.MemberAccess:
		w.resolveMemberAccess(e)
	case *syntax.IndexAccess:
		w.resolveIndexAccess(e)
	}
}

func (w *Walker) resolveIdent(identifier *syntax.Ident) {
	if sym, ok := w.lookup(identifier.Name); ok {
		identifier.ResolvedSym = sym
		identifier.EvaluatedType = sym.Type.Clone()
	} else {
		w.errorAt(identifier, "Undefined identifier: %s", identifier.Name)
	}
}

func (w *Walker) resolveBinary(expression *syntax.BinaryExpr) {
	w.resolveExpr(expression.Left)
	w.resolveExpr(expression.Right)

	leftType := w.typeOf(expression.Left)
	rightType := w.typeOf(expression.Right)
	if leftType == nil || rightType == nil {
		return
	}

	if expression.Op == syntax.OpAssign {
		if !typing.Compatible(leftType, rightType) {
			w.errorAt(expression, "Assignment type mismatch")
		}

		expression.EvaluatedType = leftType.Clone()
		return
	}

	if !typing.Compatible(leftType, rightType) {
		w.errorAt(expression, "Operand type mismatch in binary expression")
	}

	if expression.Op.IsComparison() {
		expression.EvaluatedType = typing.Primitive(typing.BoolName)
	} else {
		expression.EvaluatedType = leftType.Clone()
	}
}

func (w *Walker) resolveUnary(expression *syntax.UnaryExpr) {
	w.resolveExpr(expression.Operand)

	operandType := w.typeOf(expression.Operand)
	if operandType == nil {
		return
	}

	switch expression.Op {
	case "-":
		if !typing.IsNumericName(operandType.Name) {
			w.errorAt(expression, "Unary '-' requires a numeric operand")
			return
		}

		expression.EvaluatedType = operandType.Clone()
	case "!":
		if operandType.Name != typing.BoolName {
			w.errorAt(expression, "Unary '!' requires a boolean operand")
			return
		}

		expression.EvaluatedType = typing.Primitive(typing.BoolName)
	}
}

// resolveArrayLit types a non-empty array literal as [E] where E is the first
// element's type; every later element must be compatible with E.  Empty
// literals are typed from context by resolveEmptyArrayLit.
func (w *Walker) resolveArrayLit(literal *syntax.ArrayLit) {
	if len(literal.Elements) == 0 {
		if literal.EvaluatedType == nil {
			w.errorAt(literal, "Cannot infer element type of empty array literal")
		}

		return
	}

	for _, elem := range literal.Elements {
		w.resolveExpr(elem)
	}

	elemType := w.typeOf(literal.Elements[0])
	if elemType == nil {
		return
	}

	for _, elem := range literal.Elements[1:] {
		if t := w.typeOf(elem); t != nil && !typing.Compatible(elemType, t) {
			w.errorAt(elem, "Array element type mismatch")
		}
	}

	literal.EvaluatedType = typing.Array(elemType.Name)
}

// resolveEmptyArrayLit types an empty array literal from its declared-type
// context
func (w *Walker) resolveEmptyArrayLit(literal *syntax.ArrayLit, context *typing.Type) {
	if context.IsArray() {
		literal.EvaluatedType = context.Clone()
		literal.EvaluatedType.IsConst = false
		return
	}

	w.errorAt(literal, "Cannot infer element type of empty array literal")
}

// resolveCall resolves `Name(args)` and `expr.method(args)`.  A name that
// resolves to a class symbol makes the node an object instantiation; a
// function symbol makes it a call typed by the function's return type.
func (w *Walker) resolveCall(call *syntax.CallExpr) {
	for _, arg := range call.Args {
		w.resolveExpr(arg)
	}

	if call.Callee == nil {
		sym, ok := w.lookup(call.Name)
		if !ok {
			w.errorAt(call, "Undefined identifier: %s", call.Name)
			return
		}

		switch sym.Kind {
		case sem.SymClass, sem.SymFunction:
			// a class name makes this an object instantiation typed by the
			// class itself; a function is typed by its return type
			call.ResolvedSym = sym
			call.EvaluatedType = sym.Type.Clone()
		default:
			w.errorAt(call, "Cannot call non-function: %s", call.Name)
		}

		return
	}

	// method call: the callee chain carries the resolved member
	w.resolveExpr(call.Callee)
	member, ok := call.Callee.(*syntax.MemberAccess)
	if !ok {
		w.errorAt(call, "Cannot call non-function expression")
		return
	}

	if member.MemberSym == nil {
		return
	}

	if member.MemberSym.Kind != sem.SymFunction {
		w.errorAt(call, "Cannot call non-function: %s", member.Member)
		return
	}

	call.ResolvedSym = member.MemberSym
	call.EvaluatedType = member.MemberSym.Type.Clone()
}

// resolveMemberAccess types `object.member` by looking the member up in the
// member scope of the object's class or enum type
func (w *Walker) resolveMemberAccess(access *syntax.MemberAccess) {
	w.resolveExpr(access.Object)

	objectType := w.typeOf(access.Object)
	if objectType == nil {
		return
	}

	typeSym, ok := w.lookup(objectType.Name)
	if !ok || typeSym.Members == nil {
		w.errorAt(access, "Member access on non-class type '%s'", objectType.Name)
		return
	}

	member, ok := typeSym.Members.LookupLocal(access.Member)
	if !ok {
		w.errorAt(access, "Undefined identifier: %s", access.Member)
		return
	}

	access.MemberSym = member
	access.EvaluatedType = member.Type.Clone()
}

func (w *Walker) resolveIndexAccess(access *syntax.IndexAccess) {
	w.resolveExpr(access.Object)
	w.resolveExpr(access.Index)

	if indexType := w.typeOf(access.Index); indexType != nil && indexType.Name != typing.IntName {
		w.errorAt(access, "Array index must be of type int")
	}

	objectType := w.typeOf(access.Object)
	if objectType == nil {
		return
	}

	if !objectType.IsArray() {
		w.errorAt(access, "Index access on non-array type '%s'", objectType.Name)
		return
	}

	access.EvaluatedType = &typing.Type{Name: objectType.ElemName()}
}
