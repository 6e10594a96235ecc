// Package token defines the lexical token kinds produced by the lexer and
// consumed by the compiler's Pratt tables.
package token

// Kind identifies the lexical category of a Token.
type Kind int

const (
	Eof Kind = iota

	// single-character tokens
	LeftParen
	RightParen
	LeftBrace
	RightBrace
	LeftBracket
	RightBracket
	Comma
	Dot
	Minus
	Plus
	Semicolon
	Slash
	Star
	Percent
	Colon
	Question

	// one or two character tokens
	Bang
	BangEqual
	Equal
	EqualEqual
	Greater
	GreaterEqual
	Less
	LessEqual
	PlusPlus

	// literals
	Identifier
	String
	Number

	// keywords
	And
	Break
	Class
	Else
	Extends
	False
	For
	Func
	If
	Nil
	Or
	Return
	Static
	Super
	This
	True
	Var
	While

	// type-name keywords
	BoolType
	IntType
	FloatType
	StringType
)

var keywords = map[string]Kind{
	"and":     And,
	"break":   Break,
	"class":   Class,
	"else":    Else,
	"extends": Extends,
	"false":   False,
	"for":     For,
	"func":    Func,
	"if":      If,
	"nil":     Nil,
	"or":      Or,
	"return":  Return,
	"static":  Static,
	"super":   Super,
	"this":    This,
	"true":    True,
	"var":     Var,
	"while":   While,
	"bool":    BoolType,
	"int":     IntType,
	"float":   FloatType,
	"string":  StringType,
}

// LookupIdentifier returns the keyword Kind for ident, or Identifier if it
// is not a reserved word.
func LookupIdentifier(ident string) Kind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return Identifier
}

// Token is a single lexical unit: a kind, its source text and the line the
// lexer was on when the token was completed (for a string literal spanning
// several lines, the line of its closing quote). No column tracking: the spec
// keeps source locations at line granularity only.
type Token struct {
	Kind   Kind
	Lexeme string
	Line   int
}

func (t Token) String() string {
	return t.Lexeme
}
