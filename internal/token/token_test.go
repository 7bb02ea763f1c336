package token

import "testing"

func TestIsKeyword(t *testing.T) {
	for _, w := range []string{"const", "let", "function", "if", "typeof", "this"} {
		if !IsKeyword(w) {
			t.Errorf("%q must be a keyword", w)
		}
	}
	for _, w := range []string{"of", "as", "type", "Const", "status", ""} {
		if IsKeyword(w) {
			t.Errorf("%q must not be a keyword", w)
		}
	}
}

func TestKindString(t *testing.T) {
	if got := TemplateMiddle.String(); got != "TemplateMiddle" {
		t.Fatalf("TemplateMiddle.String() = %q", got)
	}
	if got := Kind(250).String(); got != "Kind(?)" {
		t.Fatalf("unknown kind String() = %q", got)
	}
}

func TestTemplatePredicates(t *testing.T) {
	tests := []struct {
		kind         Kind
		opens, close bool
	}{
		{NoSubstTemplate, false, false},
		{TemplateHead, true, false},
		{TemplateMiddle, true, true},
		{TemplateTail, false, true},
		{StringLit, false, false},
	}
	for _, tt := range tests {
		tok := Token{Kind: tt.kind}
		if tok.OpensHole() != tt.opens || tok.ClosesHole() != tt.close {
			t.Errorf("%s: opens=%v closes=%v, want %v %v", tt.kind, tok.OpensHole(), tok.ClosesHole(), tt.opens, tt.close)
		}
		if !tok.IsLiteral() {
			t.Errorf("%s must be a literal", tt.kind)
		}
	}
}

func TestTriviaIsComment(t *testing.T) {
	if (Trivia{Kind: TriviaSpace}).IsComment() {
		t.Error("space is not a comment")
	}
	if !(Trivia{Kind: TriviaDocLine}).IsComment() {
		t.Error("doc line is a comment")
	}
}
