package walk

import (
	"mano/sem"
	"mano/syntax"
	"mano/typing"
)

// declarationPass is pass 1: it builds the scope tree and registers every
// declared name.  Scope-introducing nodes store their scope as an annotation
// so the resolution pass re-enters the same scopes instead of rebuilding them.
func (w *Walker) declarationPass(program *syntax.Program) {
	program.Scope = w.pushScope()
	defer w.popScope()

	for _, decl := range program.Declarations {
		w.declare(decl)
	}
}

// declare registers one declaration in the current scope and descends into
// any scopes it introduces
func (w *Walker) declare(node syntax.Node) {
	switch n := node.(type) {
	case *syntax.VarDecl:
		w.declareVariable(n)
	case *syntax.FunDecl:
		w.declareFunction(n)
	case *syntax.ClassDecl:
		w.declareClass(n)
	case *syntax.EnumDecl:
		w.declareEnum(n)
	default:
		w.declareInStatement(node)
	}
}

// declareInStatement descends into the blocks of a statement so nested
// declarations are collected and every block statement gets its scope
func (w *Walker) declareInStatement(node syntax.Node) {
	switch n := node.(type) {
	case *syntax.Block:
		w.declareBlock(n)
	case *syntax.IfStmt:
		w.declareBlock(n.Then)
		if n.Else != nil {
			w.declareBlock(n.Else)
		}
	case *syntax.WhileStmt:
		w.declareBlock(n.Body)
	case *syntax.ForStmt:
		// the header scope holds the loop variable; the body scope nests
		// inside it
		n.Scope = w.pushScope()
		defer w.popScope()

		if n.Init != nil {
			w.declareVariable(n.Init)
		}

		w.declareBlock(n.Body)
	case *syntax.SwitchStmt:
		for _, sc := range n.Cases {
			w.declareBlock(sc.Body)
		}

		if n.Default != nil {
			w.declareBlock(n.Default)
		}
	}
}

func (w *Walker) declareBlock(block *syntax.Block) {
	block.Scope = w.pushScope()
	defer w.popScope()

	for _, stmt := range block.Statements {
		w.declare(stmt)
	}
}

func (w *Walker) declareVariable(variable *syntax.VarDecl) {
	if _, taken := w.currentScope().LookupLocal(variable.Name); taken {
		w.errorAt(variable, "Duplicate variable declaration: %s", variable.Name)
		return
	}

	if variable.DeclaredType == nil {
		w.errorAt(variable, "Missing type annotation for variable: %s", variable.Name)
		return
	}

	sym := &sem.Symbol{
		Kind:            sem.SymVariable,
		Name:            variable.Name,
		Type:            variable.DeclaredType.Clone(),
		DeclarationSite: variable,
		IsInitialized:   variable.Initializer != nil,
	}

	variable.Sym = sym
	w.currentScope().Define(sym)
}

func (w *Walker) declareFunction(function *syntax.FunDecl) {
	returnType := typing.Void()
	if function.ReturnType != nil {
		returnType = function.ReturnType.Clone()
	}

	sym := &sem.Symbol{
		Kind:            sem.SymFunction,
		Name:            function.Name,
		Type:            returnType,
		DeclarationSite: function,
	}

	if w.define(sym, function) {
		function.Sym = sym
	}

	// parameter scope, with the body scope nested inside it so locals can
	// shadow parameters
	function.ParamScope = w.pushScope()
	defer w.popScope()

	for _, param := range function.Parameters {
		w.define(&sem.Symbol{
			Kind:          sem.SymVariable,
			Name:          param.Name,
			Type:          param.Type.Clone(),
			IsInitialized: true,
		}, function)
	}

	w.declareBlock(function.Body)
}

func (w *Walker) declareClass(class *syntax.ClassDecl) {
	sym := &sem.Symbol{
		Kind:            sem.SymClass,
		Name:            class.Name,
		Type:            &typing.Type{Name: class.Name},
		DeclarationSite: class,
	}

	if w.define(sym, class) {
		class.Sym = sym
	}

	class.OwnScope = w.pushScope()
	defer w.popScope()

	sym.Members = class.OwnScope
	for _, decl := range class.Body.Declarations {
		w.declare(decl)
	}
}

func (w *Walker) declareEnum(enum *syntax.EnumDecl) {
	sym := &sem.Symbol{
		Kind:            sem.SymEnum,
		Name:            enum.Name,
		Type:            &typing.Type{Name: enum.Name},
		DeclarationSite: enum,
	}

	if w.define(sym, enum) {
		enum.Sym = sym
	}

	// the parser leaves duplicate value checking to this pass
	enum.OwnScope = w.pushScope()
	defer w.popScope()

	sym.Members = enum.OwnScope
	for _, value := range enum.Values {
		member := &sem.Symbol{
			Kind:          sem.SymVariable,
			Name:          value,
			Type:          &typing.Type{Name: enum.Name},
			IsInitialized: true,
		}

		if !w.currentScope().Define(member) {
			w.errorAt(enum, "Duplicate enum value declaration: %s", value)
		}
	}
}
