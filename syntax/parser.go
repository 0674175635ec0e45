package syntax

import (
	"fmt"

	"mano/logging"
	"mano/typing"
)

// Parser transforms the token stream into an AST following the fixed
// precedence grammar.  It accumulates diagnostics rather than failing fast:
// on an unexpected token it reports, then synchronizes at the next statement
// or declaration boundary and keeps going, so one run can surface several
// syntax errors.
type Parser struct {
	log     *logging.Log
	tokens  []Token
	current int
}

// NewParser creates a parser over a token vector reporting into the given
// diagnostic sink.  The vector must be terminated by an EndOfFile token.
func NewParser(tokens []Token, log *logging.Log) *Parser {
	return &Parser{log: log, tokens: tokens}
}

// Parse runs the parser over a token vector and returns the Program root.
// The result may be partially built when diagnostics were reported; it is
// never nil.
func Parse(tokens []Token, log *logging.Log) *Program {
	return NewParser(tokens, log).ParseProgram()
}

// parseError is the sentinel raised by errorAtCurrent to unwind to the
// nearest recovery point
type parseError struct{}

// -----------------------------------------------------------------------------
// Primitive cursor operations

func (p *Parser) isAtEnd() bool {
	return p.tokens[p.current].Kind == EndOfFile
}

func (p *Parser) peek() Token {
	return p.tokens[p.current]
}

func (p *Parser) previous() Token {
	return p.tokens[p.current-1]
}

func (p *Parser) advance() Token {
	if !p.isAtEnd() {
		p.current++
	}

	return p.previous()
}

func (p *Parser) checkKind(kind TokenKind) bool {
	if p.isAtEnd() {
		return false
	}

	return p.peek().Kind == kind
}

func (p *Parser) match(kinds ...TokenKind) bool {
	for _, kind := range kinds {
		if p.checkKind(kind) {
			p.advance()
			return true
		}
	}

	return false
}

func (p *Parser) checkKeyword(expected string) bool {
	return p.checkKind(Keyword) && p.peek().Lexeme == expected
}

func (p *Parser) matchKeyword(expected string) bool {
	if p.checkKeyword(expected) {
		p.advance()
		return true
	}

	return false
}

func (p *Parser) checkPunctuation(expected string) bool {
	return p.checkKind(Punctuation) && p.peek().Lexeme == expected
}

func (p *Parser) matchPunctuation(expected string) bool {
	if p.checkPunctuation(expected) {
		p.advance()
		return true
	}

	return false
}

func (p *Parser) checkOperator(expected string) bool {
	return p.checkKind(Operator) && p.peek().Lexeme == expected
}

func (p *Parser) consume(kind TokenKind, message string) Token {
	if p.checkKind(kind) {
		return p.advance()
	}

	p.errorAtCurrent(message)
	return p.peek() // unreachable
}

func (p *Parser) consumePunctuation(expected, message string) Token {
	if p.checkPunctuation(expected) {
		return p.advance()
	}

	p.errorAtCurrent(message)
	return p.peek() // unreachable
}

// errorAtCurrent reports a syntax diagnostic at the current token and unwinds
// to the nearest recovery point
func (p *Parser) errorAtCurrent(message string) {
	tok := p.peek()
	p.log.ReportError(logging.PhaseParser, tok.Line, tok.Col, message)
	panic(parseError{})
}

// synchronize discards tokens until a likely statement or declaration
// boundary so parsing can resume.  It consumes at least one token unless the
// cursor is already at EndOfFile, where the callers' loops stop.
func (p *Parser) synchronize() {
	p.advance()

	for !p.isAtEnd() {
		if p.previous().Kind == Punctuation {
			switch p.previous().Lexeme {
			case ";", "}":
				return
			}
		}

		if p.checkPunctuation("}") {
			return
		}

		if p.checkKind(Keyword) {
			switch p.peek().Lexeme {
			case "let", "var", "fun", "class", "enum", "if", "for", "while",
				"return", "break", "continue", "switch":
				return
			}
		}

		p.advance()
	}
}

func (p *Parser) at() Position {
	tok := p.peek()
	return Position{Line: tok.Line, Col: tok.Col}
}

func (p *Parser) atPrevious() Position {
	tok := p.previous()
	return Position{Line: tok.Line, Col: tok.Col}
}

// -----------------------------------------------------------------------------
// Declarations

// ParseProgram parses the whole token vector into a Program node
func (p *Parser) ParseProgram() *Program {
	program := &Program{Position: p.at()}
	for !p.isAtEnd() {
		if decl := p.recovered(p.parseDeclaration); decl != nil {
			program.Declarations = append(program.Declarations, decl)
		}
	}

	return program
}

// recovered runs a parse function, converting a parse error unwind into a nil
// node after synchronizing.  Recovery points are exactly the statement and
// declaration boundaries.
func (p *Parser) recovered(parse func() Node) (node Node) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(parseError); !ok {
				panic(r)
			}

			p.synchronize()
			node = nil
		}
	}()

	return parse()
}

func (p *Parser) parseDeclaration() Node {
	if p.matchKeyword("let") {
		return p.parseVariableDeclaration(true)
	}
	if p.matchKeyword("var") {
		return p.parseVariableDeclaration(false)
	}
	if p.matchKeyword("fun") {
		return p.parseFunctionDeclaration()
	}
	if p.matchKeyword("class") {
		return p.parseClassDeclaration()
	}
	if p.matchKeyword("enum") {
		return p.parseEnumDeclaration()
	}

	p.errorAtCurrent("Expected declaration.")
	return nil
}

// parseType parses a primitive keyword, a user identifier, or `[T]` where T
// is a non-array type.  One level of arrays only.
func (p *Parser) parseType(isConst bool, allowArrayType bool) *typing.Type {
	if p.checkKind(Keyword) && typing.IsPrimitiveName(p.peek().Lexeme) {
		p.advance()
		return &typing.Type{Name: p.previous().Lexeme, IsConst: isConst}
	}

	if p.match(Identifier) {
		return &typing.Type{Name: p.previous().Lexeme, IsConst: isConst}
	}

	if p.matchPunctuation("[") {
		if !allowArrayType {
			p.errorAtCurrent("Nested arrays not supported.")
		}

		elem := p.parseType(false, false)
		p.consumePunctuation("]", "Expected ']' after array element type.")
		return &typing.Type{Name: "[" + elem.Name + "]", IsConst: isConst}
	}

	p.errorAtCurrent("Expected type name.")
	return nil
}

func (p *Parser) parseVariableDeclaration(isConst bool) Node {
	varDecl := &VarDecl{Position: p.atPrevious(), IsConst: isConst}
	varDecl.Name = p.consume(Identifier, "Expected variable name.").Lexeme
	p.consumePunctuation(":", "Expected ':' after variable name.")
	varDecl.DeclaredType = p.parseType(isConst, true)

	if p.checkOperator("=") {
		p.advance()
		varDecl.Initializer = p.parseExpression()
	} else {
		kind := "variable"
		if isConst {
			kind = "constant"
		}

		p.errorAtCurrent(fmt.Sprintf("Expected '=' after type for %s declaration.", kind))
	}

	p.consumePunctuation(";", "Expected ';' after variable declaration.")
	return varDecl
}

func (p *Parser) parseFunctionDeclaration() Node {
	funDecl := &FunDecl{Position: p.atPrevious()}
	funDecl.Name = p.consume(Identifier, "Expected function name.").Lexeme
	p.consumePunctuation("(", "Expected '(' after function name.")
	if p.checkKind(Identifier) {
		funDecl.Parameters = p.parseParameterList()
	}
	p.consumePunctuation(")", "Expected ')' after parameters.")

	// optional return type
	if p.matchPunctuation(":") {
		funDecl.ReturnType = p.parseType(false, true)
	}

	funDecl.Body = p.parseBlock()
	return funDecl
}

func (p *Parser) parseParameterList() []Param {
	var parameters []Param
	for {
		name := p.consume(Identifier, "Expected parameter name.").Lexeme
		p.consumePunctuation(":", "Expected ':' after parameter name.")
		isConst := p.matchKeyword("const")
		parameters = append(parameters, Param{Name: name, Type: p.parseType(isConst, true)})

		if !p.matchPunctuation(",") {
			return parameters
		}
	}
}

func (p *Parser) parseClassDeclaration() Node {
	classDecl := &ClassDecl{Position: p.atPrevious()}
	classDecl.Name = p.consume(Identifier, "Expected class name.").Lexeme
	classDecl.Body = p.parseClassBlock()
	return classDecl
}

func (p *Parser) parseEnumDeclaration() Node {
	enumDecl := &EnumDecl{Position: p.atPrevious()}
	enumDecl.Name = p.consume(Identifier, "Expected enum name.").Lexeme
	enumDecl.Values = p.parseEnumBlock()
	return enumDecl
}

// parseEnumBlock parses `{` zero or more comma-separated identifiers with an
// optional trailing comma `}`.  Duplicate values are left to the semantic
// analyzer.
func (p *Parser) parseEnumBlock() []string {
	var values []string
	p.consumePunctuation("{", "Expected '{' to start enum body.")

	if p.matchPunctuation("}") {
		return values
	}

	for {
		values = append(values, p.consume(Identifier, "Expected enum value name.").Lexeme)

		if p.matchPunctuation(",") {
			if p.checkPunctuation("}") {
				break
			}
		} else {
			break
		}
	}

	p.consumePunctuation("}", "Expected '}' to close enum body.")
	return values
}

func (p *Parser) parseBlock() *Block {
	block := &Block{Position: p.at()}
	p.consumePunctuation("{", "Expected '{' to start a block.")
	for !p.checkPunctuation("}") && !p.isAtEnd() {
		var stmt Node
		if p.checkDeclarationKeyword() {
			stmt = p.recovered(p.parseDeclaration)
		} else {
			stmt = p.recovered(p.parseStatement)
		}

		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
	}

	p.consumePunctuation("}", "Expected '}' to close block.")
	return block
}

func (p *Parser) checkDeclarationKeyword() bool {
	if !p.checkKind(Keyword) {
		return false
	}

	switch p.peek().Lexeme {
	case "let", "var", "fun", "class", "enum":
		return true
	}

	return false
}

func (p *Parser) parseClassBlock() *ClassBlock {
	block := &ClassBlock{Position: p.at()}
	p.consumePunctuation("{", "Expected '{' to start a class block.")
	for !p.checkPunctuation("}") && !p.isAtEnd() {
		if !p.checkDeclarationKeyword() {
			p.errorAtCurrent("Expected declaration.")
		}

		if decl := p.recovered(p.parseDeclaration); decl != nil {
			block.Declarations = append(block.Declarations, decl)
		}
	}

	p.consumePunctuation("}", "Expected '}' to close class block.")
	return block
}

// -----------------------------------------------------------------------------
// Statements

func (p *Parser) parseStatement() Node {
	if p.matchKeyword("if") {
		return p.parseIfStatement()
	}
	if p.matchKeyword("for") {
		return p.parseForStatement()
	}
	if p.matchKeyword("while") {
		return p.parseWhileStatement()
	}
	if p.matchKeyword("return") {
		return p.parseReturnStatement()
	}
	if p.matchKeyword("break") {
		stmt := &BreakStmt{Position: p.atPrevious()}
		p.consumePunctuation(";", "Expected ';' after 'break'.")
		return stmt
	}
	if p.matchKeyword("continue") {
		stmt := &ContinueStmt{Position: p.atPrevious()}
		p.consumePunctuation(";", "Expected ';' after 'continue'.")
		return stmt
	}
	if p.matchKeyword("switch") {
		return p.parseSwitchStatement()
	}

	// anything else must be an expression statement, and only assignments and
	// calls may stand as statements
	pos := p.at()
	expression := p.parseExpression()

	isAssignment := false
	if binary, ok := expression.(*BinaryExpr); ok {
		isAssignment = binary.Op == OpAssign
	}
	_, isCall := expression.(*CallExpr)

	if !isAssignment && !isCall {
		p.errorAtCurrent("Expected statement.")
	}

	p.consumePunctuation(";", "Expected ';' after expression statement.")
	return &ExprStmt{Position: pos, Expression: expression}
}

func (p *Parser) parseIfStatement() Node {
	ifStmt := &IfStmt{Position: p.atPrevious()}
	p.consumePunctuation("(", "Expected '(' after 'if'.")
	ifStmt.Cond = p.parseExpression()
	p.consumePunctuation(")", "Expected ')' after if condition.")
	ifStmt.Then = p.parseBlock()
	if p.matchKeyword("else") {
		ifStmt.Else = p.parseBlock()
	}

	return ifStmt
}

func (p *Parser) parseForStatement() Node {
	forStmt := &ForStmt{Position: p.atPrevious()}
	p.consumePunctuation("(", "Expected '(' after 'for'.")

	// the initializer is optional; when present it is a `var` declaration
	// whose production consumes the separating ';'
	if p.matchKeyword("var") {
		forStmt.Init = p.parseVariableDeclaration(false).(*VarDecl)
	}

	forStmt.Cond = p.parseExpression()
	p.consumePunctuation(";", "Expected ';' after for condition.")
	forStmt.Update = p.parseExpression()
	p.consumePunctuation(")", "Expected ')' after for clauses.")
	forStmt.Body = p.parseBlock()
	return forStmt
}

func (p *Parser) parseWhileStatement() Node {
	whileStmt := &WhileStmt{Position: p.atPrevious()}
	p.consumePunctuation("(", "Expected '(' after 'while'.")
	whileStmt.Cond = p.parseExpression()
	p.consumePunctuation(")", "Expected ')' after while condition.")
	whileStmt.Body = p.parseBlock()
	return whileStmt
}

func (p *Parser) parseReturnStatement() Node {
	retStmt := &ReturnStmt{Position: p.atPrevious()}
	if !p.checkPunctuation(";") {
		retStmt.Expression = p.parseExpression()
	}

	p.consumePunctuation(";", "Expected ';' after return statement.")
	return retStmt
}

func (p *Parser) parseSwitchStatement() Node {
	switchStmt := &SwitchStmt{Position: p.atPrevious()}
	p.consumePunctuation("(", "Expected '(' after 'switch'.")
	switchStmt.Discriminant = p.parseExpression()
	p.consumePunctuation(")", "Expected ')' after switch expression.")
	p.consumePunctuation("{", "Expected '{' to start switch body.")

	for !p.checkPunctuation("}") && !p.isAtEnd() {
		if p.matchKeyword("case") {
			caseExpr := p.parseExpression()
			p.consumePunctuation(":", "Expected ':' after case expression.")
			switchStmt.Cases = append(switchStmt.Cases, SwitchCase{Value: caseExpr, Body: p.parseBlock()})
		} else if p.matchKeyword("default") {
			p.consumePunctuation(":", "Expected ':' after 'default'.")
			defaultBlock := p.parseBlock()
			if switchStmt.Default != nil {
				p.errorAtCurrent("Multiple default clauses in switch statement.")
			}

			switchStmt.Default = defaultBlock
		} else {
			p.errorAtCurrent("Expected 'case' or 'default' in switch statement.")
		}
	}

	p.consumePunctuation("}", "Expected '}' to close switch body.")
	return switchStmt
}

// -----------------------------------------------------------------------------
// Expressions
//
// One method per precedence level, lowest first.  All levels are
// left-associative except assignment (right) and relational (single step,
// non-chaining).

func (p *Parser) parseExpression() Node {
	return p.parseAssignmentExpression()
}

func (p *Parser) parseAssignmentExpression() Node {
	left := p.parseLogicalOrExpression()
	if p.checkOperator("=") {
		pos := p.at()
		p.advance()
		return &BinaryExpr{
			Position: pos,
			Left:     left,
			Op:       OpAssign,
			Right:    p.parseAssignmentExpression(),
		}
	}

	return left
}

func (p *Parser) parseLogicalOrExpression() Node {
	expr := p.parseLogicalAndExpression()
	for p.checkOperator("||") {
		pos := p.at()
		p.advance()
		expr = &BinaryExpr{Position: pos, Left: expr, Op: OpLogicalOr, Right: p.parseLogicalAndExpression()}
	}

	return expr
}

func (p *Parser) parseLogicalAndExpression() Node {
	expr := p.parseBitwiseOrExpression()
	for p.checkOperator("&&") {
		pos := p.at()
		p.advance()
		expr = &BinaryExpr{Position: pos, Left: expr, Op: OpLogicalAnd, Right: p.parseBitwiseOrExpression()}
	}

	return expr
}

func (p *Parser) parseBitwiseOrExpression() Node {
	expr := p.parseBitwiseXorExpression()
	for p.checkOperator("|") {
		pos := p.at()
		p.advance()
		expr = &BinaryExpr{Position: pos, Left: expr, Op: OpBitwiseOr, Right: p.parseBitwiseXorExpression()}
	}

	return expr
}

func (p *Parser) parseBitwiseXorExpression() Node {
	expr := p.parseBitwiseAndExpression()
	for p.checkOperator("^") {
		pos := p.at()
		p.advance()
		expr = &BinaryExpr{Position: pos, Left: expr, Op: OpBitwiseXor, Right: p.parseBitwiseAndExpression()}
	}

	return expr
}

func (p *Parser) parseBitwiseAndExpression() Node {
	expr := p.parseEqualityExpression()
	for p.checkOperator("&") {
		pos := p.at()
		p.advance()
		expr = &BinaryExpr{Position: pos, Left: expr, Op: OpBitwiseAnd, Right: p.parseEqualityExpression()}
	}

	return expr
}

func (p *Parser) parseEqualityExpression() Node {
	expr := p.parseRelationalExpression()
	for p.checkOperator("==") || p.checkOperator("!=") {
		pos := p.at()
		op := binaryOpLexemes[p.advance().Lexeme]
		expr = &BinaryExpr{Position: pos, Left: expr, Op: op, Right: p.parseRelationalExpression()}
	}

	return expr
}

// parseRelationalExpression applies at most one relational operator: the
// level is non-chaining, so `a < b < c` is not representable without
// parentheses
func (p *Parser) parseRelationalExpression() Node {
	expr := p.parseShiftExpression()
	if p.checkOperator("<") || p.checkOperator(">") || p.checkOperator("<=") || p.checkOperator(">=") {
		pos := p.at()
		op := binaryOpLexemes[p.advance().Lexeme]
		expr = &BinaryExpr{Position: pos, Left: expr, Op: op, Right: p.parseShiftExpression()}
	}

	return expr
}

func (p *Parser) parseShiftExpression() Node {
	expr := p.parseAdditiveExpression()
	for p.checkOperator("<<") || p.checkOperator(">>") {
		pos := p.at()
		op := binaryOpLexemes[p.advance().Lexeme]
		expr = &BinaryExpr{Position: pos, Left: expr, Op: op, Right: p.parseAdditiveExpression()}
	}

	return expr
}

func (p *Parser) parseAdditiveExpression() Node {
	expr := p.parseMultiplicativeExpression()
	for p.checkOperator("+") || p.checkOperator("-") {
		pos := p.at()
		op := binaryOpLexemes[p.advance().Lexeme]
		expr = &BinaryExpr{Position: pos, Left: expr, Op: op, Right: p.parseMultiplicativeExpression()}
	}

	return expr
}

func (p *Parser) parseMultiplicativeExpression() Node {
	expr := p.parseUnaryExpression()
	for p.checkOperator("*") || p.checkOperator("/") || p.checkOperator("%") {
		pos := p.at()
		op := binaryOpLexemes[p.advance().Lexeme]
		expr = &BinaryExpr{Position: pos, Left: expr, Op: op, Right: p.parseUnaryExpression()}
	}

	return expr
}

func (p *Parser) parseUnaryExpression() Node {
	if p.checkOperator("-") || p.checkOperator("!") {
		pos := p.at()
		op := p.advance().Lexeme
		return &UnaryExpr{Position: pos, Op: op, Operand: p.parseUnaryExpression()}
	}

	return p.parsePrimaryExpression()
}

func (p *Parser) parseArgumentList() []Node {
	var arguments []Node
	if !p.checkPunctuation(")") {
		arguments = append(arguments, p.parseExpression())
		for p.matchPunctuation(",") {
			arguments = append(arguments, p.parseExpression())
		}
	}

	return arguments
}

func (p *Parser) parsePrimaryExpression() Node {
	if p.match(Identifier) {
		pos := p.atPrevious()
		name := p.previous().Lexeme

		// an identifier directly followed by `(` is a call by name; whether
		// it constructs an object is decided by the analyzer
		if p.matchPunctuation("(") {
			args := p.parseArgumentList()
			p.consumePunctuation(")", "Expected ')' after arguments.")
			return p.parsePostfixChain(&CallExpr{Position: pos, Name: name, Args: args})
		}

		return p.parsePostfixChain(&Ident{Position: pos, Name: name})
	}

	if p.checkKind(Number) || p.checkKind(String) {
		tok := p.advance()
		return &Literal{
			Position: Position{Line: tok.Line, Col: tok.Col},
			Value:    tok.Lexeme,
			TokKind:  tok.Kind,
		}
	}

	// of the keywords, only the boolean literals may stand as expressions
	if p.checkKind(Keyword) {
		if p.peek().Lexeme == "true" || p.peek().Lexeme == "false" {
			tok := p.advance()
			return &Literal{
				Position: Position{Line: tok.Line, Col: tok.Col},
				Value:    tok.Lexeme,
				TokKind:  tok.Kind,
			}
		}

		p.errorAtCurrent("Expected expression.")
	}

	if p.matchPunctuation("(") {
		expr := p.parseExpression()
		p.consumePunctuation(")", "Expected ')' after expression.")
		return expr
	}

	if p.matchPunctuation("[") {
		arrayLit := &ArrayLit{Position: p.atPrevious()}
		if p.matchPunctuation("]") {
			return arrayLit
		}

		arrayLit.Elements = append(arrayLit.Elements, p.parseExpression())
		for p.matchPunctuation(",") {
			arrayLit.Elements = append(arrayLit.Elements, p.parseExpression())
		}

		p.consumePunctuation("]", "Expected ']' after array elements.")
		return arrayLit
	}

	p.errorAtCurrent("Expected expression.")
	return nil
}

// parsePostfixChain extends a primary with any sequence of member accesses
// `.name`, index accesses `[expr]`, and calls `(args)` on the preceding
// value
func (p *Parser) parsePostfixChain(expr Node) Node {
	for {
		if p.matchPunctuation(".") {
			member := &MemberAccess{Position: p.atPrevious(), Object: expr}
			member.Member = p.consume(Identifier, "Expected member name after '.'.").Lexeme
			expr = member
		} else if p.matchPunctuation("[") {
			index := &IndexAccess{Position: p.atPrevious(), Object: expr}
			index.Index = p.parseExpression()
			p.consumePunctuation("]", "Expected ']' after index expression.")
			expr = index
		} else if p.matchPunctuation("(") {
			call := &CallExpr{Position: p.atPrevious(), Callee: expr}
			call.Args = p.parseArgumentList()
			p.consumePunctuation(")", "Expected ')' after arguments.")
			expr = call
		} else {
			return expr
		}
	}
}
