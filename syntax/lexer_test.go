package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mano/logging"
)

func TestLexer(t *testing.T) {
	cases := []struct {
		name   string
		src    string
		expect []Token
	}{
		{
			"empty source",
			"",
			[]Token{
				{EndOfFile, "", 1, 1},
			},
		},
		{
			"comment only",
			"// nothing here\n",
			[]Token{
				{EndOfFile, "", 2, 1},
			},
		},
		{
			"keywords and identifiers",
			"let pi integer",
			[]Token{
				{Keyword, "let", 1, 1},
				{Identifier, "pi", 1, 5},
				{Identifier, "integer", 1, 8},
				{EndOfFile, "", 1, 15},
			},
		},
		{
			"numbers",
			"42 3.14 0.",
			[]Token{
				{Number, "42", 1, 1},
				{Number, "3.14", 1, 4},
				{Number, "0.", 1, 9},
				{EndOfFile, "", 1, 11},
			},
		},
		{
			"leading dot is not a number",
			".0",
			[]Token{
				{Punctuation, ".", 1, 1},
				{Number, "0", 1, 2},
				{EndOfFile, "", 1, 3},
			},
		},
		{
			"string literal excludes quotes",
			`"hi there"`,
			[]Token{
				{String, "hi there", 1, 1},
				{EndOfFile, "", 1, 11},
			},
		},
		{
			"string escapes pass through",
			`"a\"b"`,
			[]Token{
				{String, `a\"b`, 1, 1},
				{EndOfFile, "", 1, 7},
			},
		},
		{
			"double character operators",
			"== != <= >= && || << >>",
			[]Token{
				{Operator, "==", 1, 1},
				{Operator, "!=", 1, 4},
				{Operator, "<=", 1, 7},
				{Operator, ">=", 1, 10},
				{Operator, "&&", 1, 13},
				{Operator, "||", 1, 16},
				{Operator, "<<", 1, 19},
				{Operator, ">>", 1, 22},
				{EndOfFile, "", 1, 24},
			},
		},
		{
			"adjacent operators split greedily",
			"a=-b",
			[]Token{
				{Identifier, "a", 1, 1},
				{Operator, "=", 1, 2},
				{Operator, "-", 1, 3},
				{Identifier, "b", 1, 4},
				{EndOfFile, "", 1, 5},
			},
		},
		{
			"punctuation",
			"(){}[],:;.",
			[]Token{
				{Punctuation, "(", 1, 1},
				{Punctuation, ")", 1, 2},
				{Punctuation, "{", 1, 3},
				{Punctuation, "}", 1, 4},
				{Punctuation, "[", 1, 5},
				{Punctuation, "]", 1, 6},
				{Punctuation, ",", 1, 7},
				{Punctuation, ":", 1, 8},
				{Punctuation, ";", 1, 9},
				{Punctuation, ".", 1, 10},
				{EndOfFile, "", 1, 11},
			},
		},
		{
			"newlines reset the column",
			"var x\nlet y",
			[]Token{
				{Keyword, "var", 1, 1},
				{Identifier, "x", 1, 5},
				{Keyword, "let", 2, 1},
				{Identifier, "y", 2, 5},
				{EndOfFile, "", 2, 6},
			},
		},
		{
			"booleans are keywords",
			"true false",
			[]Token{
				{Keyword, "true", 1, 1},
				{Keyword, "false", 1, 6},
				{EndOfFile, "", 1, 11},
			},
		},
		{
			"comment does not consume the newline",
			"x // trailing\ny",
			[]Token{
				{Identifier, "x", 1, 1},
				{Identifier, "y", 2, 1},
				{EndOfFile, "", 2, 2},
			},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			log := logging.NewLog()
			got := Lex(c.src, log)

			assert.Equal(t, c.expect, got)
			assert.Zero(t, log.ErrorCount())
		})
	}
}

func TestLexerTerminatesWithSingleEOF(t *testing.T) {
	log := logging.NewLog()
	tokens := Lex("let pi: float = 3.14;", log)

	require.NotEmpty(t, tokens)
	assert.Equal(t, EndOfFile, tokens[len(tokens)-1].Kind)
	for _, tok := range tokens[:len(tokens)-1] {
		assert.NotEqual(t, EndOfFile, tok.Kind)
	}
}

func TestLexerUnterminatedString(t *testing.T) {
	log := logging.NewLog()
	tokens := Lex(`var s: string = "hi`, log)

	require.Equal(t, 1, log.ErrorCount())
	d := log.Diagnostics()[0]
	assert.Equal(t, "Unterminated string literal", d.Message)
	assert.Equal(t, logging.PhaseLexer, d.Phase)
	assert.Equal(t, 1, d.Line)
	assert.Equal(t, 17, d.Column)

	// the partial lexeme is reported on an Unknown token
	require.GreaterOrEqual(t, len(tokens), 2)
	unknown := tokens[len(tokens)-2]
	assert.Equal(t, Unknown, unknown.Kind)
	assert.Equal(t, "hi", unknown.Lexeme)
}

func TestLexerUnrecognizedCharacter(t *testing.T) {
	log := logging.NewLog()
	tokens := Lex("var x @ 1", log)

	require.Equal(t, 1, log.ErrorCount())
	assert.Equal(t, "Unrecognized character: '@'", log.Diagnostics()[0].Message)

	var kinds []TokenKind
	for _, tok := range tokens {
		kinds = append(kinds, tok.Kind)
	}

	assert.Equal(t, []TokenKind{Keyword, Identifier, Unknown, Number, EndOfFile}, kinds)
}
