package syntax

import (
	"fmt"
	"io"
	"strings"

	"mano/typing"
)

// DumpTokens writes a readable listing of a token vector, one token per line
func DumpTokens(w io.Writer, tokens []Token) {
	for _, tok := range tokens {
		fmt.Fprintf(w, "%3d:%-3d %-11s %q\n", tok.Line, tok.Col, tok.Kind, tok.Lexeme)
	}
}

// DumpAST writes an indented listing of a tree.  Semantic annotations are
// shown where present so the dump doubles as an analyzer inspection tool.
func DumpAST(w io.Writer, node Node) {
	dumpNode(w, node, 0)
}

func dumpNode(w io.Writer, node Node, depth int) {
	if node == nil {
		return
	}

	indent := strings.Repeat("  ", depth)

	switch n := node.(type) {
	case *Program:
		fmt.Fprintf(w, "%sProgram\n", indent)
		for _, decl := range n.Declarations {
			dumpNode(w, decl, depth+1)
		}
	case *VarDecl:
		mut := "var"
		if n.IsConst {
			mut = "let"
		}
		fmt.Fprintf(w, "%sVarDecl %s %s: %s\n", indent, mut, n.Name, n.DeclaredType.Repr())
		dumpNode(w, n.Initializer, depth+1)
	case *FunDecl:
		var params []string
		for _, param := range n.Parameters {
			params = append(params, param.Name+": "+param.Type.Repr())
		}
		ret := "void"
		if n.ReturnType != nil {
			ret = n.ReturnType.Repr()
		}
		fmt.Fprintf(w, "%sFunDecl %s(%s): %s\n", indent, n.Name, strings.Join(params, ", "), ret)
		dumpNode(w, n.Body, depth+1)
	case *ClassDecl:
		fmt.Fprintf(w, "%sClassDecl %s\n", indent, n.Name)
		dumpNode(w, n.Body, depth+1)
	case *EnumDecl:
		fmt.Fprintf(w, "%sEnumDecl %s {%s}\n", indent, n.Name, strings.Join(n.Values, ", "))
	case *Block:
		fmt.Fprintf(w, "%sBlock\n", indent)
		for _, stmt := range n.Statements {
			dumpNode(w, stmt, depth+1)
		}
	case *ClassBlock:
		fmt.Fprintf(w, "%sClassBlock\n", indent)
		for _, decl := range n.Declarations {
			dumpNode(w, decl, depth+1)
		}
	case *ExprStmt:
		fmt.Fprintf(w, "%sExprStmt\n", indent)
		dumpNode(w, n.Expression, depth+1)
	case *ReturnStmt:
		fmt.Fprintf(w, "%sReturnStmt\n", indent)
		dumpNode(w, n.Expression, depth+1)
	case *IfStmt:
		fmt.Fprintf(w, "%sIfStmt\n", indent)
		dumpNode(w, n.Cond, depth+1)
		dumpNode(w, n.Then, depth+1)
		dumpNode(w, n.Else, depth+1)
	case *ForStmt:
		fmt.Fprintf(w, "%sForStmt\n", indent)
		if n.Init != nil {
			dumpNode(w, n.Init, depth+1)
		}
		dumpNode(w, n.Cond, depth+1)
		dumpNode(w, n.Update, depth+1)
		dumpNode(w, n.Body, depth+1)
	case *WhileStmt:
		fmt.Fprintf(w, "%sWhileStmt\n", indent)
		dumpNode(w, n.Cond, depth+1)
		dumpNode(w, n.Body, depth+1)
	case *SwitchStmt:
		fmt.Fprintf(w, "%sSwitchStmt\n", indent)
		dumpNode(w, n.Discriminant, depth+1)
		for _, sc := range n.Cases {
			fmt.Fprintf(w, "%s  Case\n", indent)
			dumpNode(w, sc.Value, depth+2)
			dumpNode(w, sc.Body, depth+2)
		}
		if n.Default != nil {
			fmt.Fprintf(w, "%s  Default\n", indent)
			dumpNode(w, n.Default, depth+2)
		}
	case *BreakStmt:
		fmt.Fprintf(w, "%sBreakStmt\n", indent)
	case *ContinueStmt:
		fmt.Fprintf(w, "%sContinueStmt\n", indent)
	case *BinaryExpr:
		fmt.Fprintf(w, "%sBinaryExpr %s%s\n", indent, n.Op, typeSuffix(n.EvaluatedType))
		dumpNode(w, n.Left, depth+1)
		dumpNode(w, n.Right, depth+1)
	case *UnaryExpr:
		fmt.Fprintf(w, "%sUnaryExpr %s%s\n", indent, n.Op, typeSuffix(n.EvaluatedType))
		dumpNode(w, n.Operand, depth+1)
	case *Literal:
		fmt.Fprintf(w, "%sLiteral %q\n", indent, n.Value)
	case *Ident:
		fmt.Fprintf(w, "%sIdent %s%s\n", indent, n.Name, typeSuffix(n.EvaluatedType))
	case *ArrayLit:
		fmt.Fprintf(w, "%sArrayLit%s\n", indent, typeSuffix(n.EvaluatedType))
		for _, elem := range n.Elements {
			dumpNode(w, elem, depth+1)
		}
	case *CallExpr:
		label := "CallExpr"
		if n.IsInstantiation() {
			label = "ObjectInstantiation"
		}
		fmt.Fprintf(w, "%s%s %s%s\n", indent, label, n.Name, typeSuffix(n.EvaluatedType))
		dumpNode(w, n.Callee, depth+1)
		for _, arg := range n.Args {
			dumpNode(w, arg, depth+1)
		}
	case *MemberAccess:
		fmt.Fprintf(w, "%sMemberAccess .%s%s\n", indent, n.Member, typeSuffix(n.EvaluatedType))
		dumpNode(w, n.Object, depth+1)
	case *IndexAccess:
		fmt.Fprintf(w, "%sIndexAccess%s\n", indent, typeSuffix(n.EvaluatedType))
		dumpNode(w, n.Object, depth+1)
		dumpNode(w, n.Index, depth+1)
	}
}

func typeSuffix(t *typing.Type) string {
	if t == nil {
		return ""
	}

	return " <" + t.Repr() + ">"
}
