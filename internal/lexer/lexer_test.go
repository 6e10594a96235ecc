package lexer

import (
	"testing"

	"github.com/funvibe/squat/internal/token"
)

func collectKinds(t *testing.T, src string) []token.Kind {
	t.Helper()
	l := New(src)
	var kinds []token.Kind
	for {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("unexpected lex error: %v", err)
		}
		kinds = append(kinds, tok.Kind)
		if tok.Kind == token.Eof {
			return kinds
		}
	}
}

func TestSingleAndDoubleCharTokens(t *testing.T) {
	kinds := collectKinds(t, "() {} == != <= >= < > = + - * / % ?: ++")
	want := []token.Kind{
		token.LeftParen, token.RightParen, token.LeftBrace, token.RightBrace,
		token.EqualEqual, token.BangEqual, token.LessEqual, token.GreaterEqual,
		token.Less, token.Greater, token.Equal, token.Plus, token.Minus,
		token.Star, token.Slash, token.Percent, token.Question, token.Colon,
		token.PlusPlus, token.Eof,
	}
	if len(kinds) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(kinds), len(want), kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("token %d: got %v want %v", i, kinds[i], want[i])
		}
	}
}

func TestKeywordsAndTypeNames(t *testing.T) {
	kinds := collectKinds(t, "func class var if else while for return and or true false nil int float bool string break extends super this static foo")
	want := []token.Kind{
		token.Func, token.Class, token.Var, token.If, token.Else, token.While,
		token.For, token.Return, token.And, token.Or, token.True, token.False,
		token.Nil, token.IntType, token.FloatType, token.BoolType, token.StringType,
		token.Break, token.Extends, token.Super, token.This, token.Static,
		token.Identifier, token.Eof,
	}
	if len(kinds) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(kinds), len(want))
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("token %d: got %v want %v", i, kinds[i], want[i])
		}
	}
}

func TestNumberLiterals(t *testing.T) {
	l := New("42 3.14 0")
	tok, _ := l.NextToken()
	if tok.Kind != token.Number || tok.Lexeme != "42" {
		t.Errorf("got %+v", tok)
	}
	tok, _ = l.NextToken()
	if tok.Kind != token.Number || tok.Lexeme != "3.14" {
		t.Errorf("got %+v", tok)
	}
}

func TestStringLiteralExcludesQuotes(t *testing.T) {
	l := New(`"hello world"`)
	tok, err := l.NextToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.Kind != token.String || tok.Lexeme != "hello world" {
		t.Errorf("got %+v", tok)
	}
}

func TestUnterminatedStringIsALexError(t *testing.T) {
	l := New(`"hello`)
	_, err := l.NextToken()
	if err == nil {
		t.Fatal("expected an unterminated-string error")
	}
	lexErr, ok := err.(*Error)
	if !ok || lexErr.Kind != IncompleteString {
		t.Errorf("got %v, want IncompleteString", err)
	}
}

func TestUnterminatedBlockCommentIsALexError(t *testing.T) {
	l := New("/* never closed")
	_, err := l.NextToken()
	if err == nil {
		t.Fatal("expected an unterminated-comment error")
	}
	lexErr, ok := err.(*Error)
	if !ok || lexErr.Kind != IncompleteComment {
		t.Errorf("got %v, want IncompleteComment", err)
	}
}

func TestLineCommentsAreSkipped(t *testing.T) {
	l := New("1 // a comment\n2")
	first, _ := l.NextToken()
	second, _ := l.NextToken()
	if first.Lexeme != "1" || second.Lexeme != "2" {
		t.Errorf("got %q, %q", first.Lexeme, second.Lexeme)
	}
	if second.Line != 2 {
		t.Errorf("expected line comment's newline to be counted, got line %d", second.Line)
	}
}

func TestUndefinedTokenIsALexError(t *testing.T) {
	l := New("@")
	_, err := l.NextToken()
	if err == nil {
		t.Fatal("expected an undefined-token error")
	}
	lexErr, ok := err.(*Error)
	if !ok || lexErr.Kind != UndefinedToken {
		t.Errorf("got %v, want UndefinedToken", err)
	}
}

func TestEofRepeatsIndefinitely(t *testing.T) {
	l := New("")
	for i := 0; i < 3; i++ {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tok.Kind != token.Eof {
			t.Errorf("call %d: got %v, want Eof", i, tok.Kind)
		}
	}
}
