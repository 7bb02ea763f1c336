package lexer

import (
	"testing"

	"remap/internal/diag"
	"remap/internal/source"
	"remap/internal/token"
)

func lexAll(t *testing.T, src string) []token.Token {
	t.Helper()
	f := source.NewFile("test.ts", []byte(src), source.FileVirtual)
	return New(f, Options{}).All()
}

type want struct {
	kind token.Kind
	text string
}

func check(t *testing.T, src string, exp []want) {
	t.Helper()
	got := lexAll(t, src)
	if len(got) != len(exp) {
		t.Fatalf("%q: got %d tokens, want %d: %v", src, len(got), len(exp), got)
	}
	for i, w := range exp {
		if got[i].Kind != w.kind || got[i].Text != w.text {
			t.Errorf("%q: token %d = %v %q, want %v %q", src, i, got[i].Kind, got[i].Text, w.kind, w.text)
		}
	}
}

func TestIdentsAndKeywords(t *testing.T) {
	check(t, "let $x = foo_1", []want{
		{token.Keyword, "let"},
		{token.Ident, "$x"},
		{token.Punct, "="},
		{token.Ident, "foo_1"},
	})
}

func TestOperatorsGreedy(t *testing.T) {
	check(t, "a !== b && c ?? d", []want{
		{token.Ident, "a"},
		{token.Punct, "!=="},
		{token.Ident, "b"},
		{token.Punct, "&&"},
		{token.Ident, "c"},
		{token.Punct, "??"},
		{token.Ident, "d"},
	})
	check(t, "a?.5:b", []want{
		{token.Ident, "a"},
		{token.Punct, "?"},
		{token.NumberLit, ".5"},
		{token.Punct, ":"},
		{token.Ident, "b"},
	})
}

func TestNumbers(t *testing.T) {
	for _, src := range []string{"0x1F", "0b101", "0o17", "1.5e-3", "10n", "42"} {
		got := lexAll(t, src)
		if len(got) != 1 || got[0].Kind != token.NumberLit || got[0].Text != src {
			t.Errorf("%q: got %v", src, got)
		}
	}
}

func TestStrings(t *testing.T) {
	check(t, `"a\"b" + 'c'`, []want{
		{token.StringLit, `"a\"b"`},
		{token.Punct, "+"},
		{token.StringLit, `'c'`},
	})
}

func TestTemplateHoles(t *testing.T) {
	check(t, "`a${x}b${ {y}.y }c`", []want{
		{token.TemplateHead, "`a${"},
		{token.Ident, "x"},
		{token.TemplateMiddle, "}b${"},
		{token.Punct, "{"},
		{token.Ident, "y"},
		{token.Punct, "}"},
		{token.Punct, "."},
		{token.Ident, "y"},
		{token.TemplateTail, "}c`"},
	})
	check(t, "`plain`", []want{{token.NoSubstTemplate, "`plain`"}})
}

func TestNestedTemplate(t *testing.T) {
	check(t, "`${`${a}`}`", []want{
		{token.TemplateHead, "`${"},
		{token.TemplateHead, "`${"},
		{token.Ident, "a"},
		{token.TemplateTail, "}`"},
		{token.TemplateTail, "}`"},
	})
}

func TestRegexVersusDivision(t *testing.T) {
	check(t, "x = /a[/]b/g", []want{
		{token.Ident, "x"},
		{token.Punct, "="},
		{token.RegexLit, "/a[/]b/g"},
	})
	check(t, "a / b / c", []want{
		{token.Ident, "a"},
		{token.Punct, "/"},
		{token.Ident, "b"},
		{token.Punct, "/"},
		{token.Ident, "c"},
	})
}

func TestCommentsAreTrivia(t *testing.T) {
	toks := lexAll(t, "// hi\na /* b */ c")
	if len(toks) != 2 {
		t.Fatalf("got %v", toks)
	}
	if len(toks[0].Leading) != 2 || toks[0].Leading[0].Kind != token.TriviaLineComment {
		t.Errorf("leading of a: %v", toks[0].Leading)
	}
	found := false
	for _, tr := range toks[1].Leading {
		if tr.Kind == token.TriviaBlockComment && tr.Text == "/* b */" {
			found = true
		}
	}
	if !found {
		t.Errorf("leading of c: %v", toks[1].Leading)
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	f := source.NewFile("p.ts", []byte("a b"), source.FileVirtual)
	lx := New(f, Options{})
	if p := lx.Peek(); p.Text != "a" {
		t.Fatalf("peek = %q", p.Text)
	}
	if n := lx.Next(); n.Text != "a" {
		t.Fatalf("next = %q", n.Text)
	}
	if n := lx.Next(); n.Text != "b" {
		t.Fatalf("next = %q", n.Text)
	}
	if n := lx.Next(); n.Kind != token.EOF {
		t.Fatalf("want EOF, got %v", n.Kind)
	}
}

func TestSpans(t *testing.T) {
	toks := lexAll(t, "ab  cd")
	if toks[1].Span.Start != 4 || toks[1].Span.End != 6 {
		t.Errorf("span = %v", toks[1].Span)
	}
}

func TestReporterAdapter(t *testing.T) {
	bag := diag.NewBag(10)
	f := source.NewFile("bad.ts", []byte("'open\n`tmpl"), source.FileVirtual)
	New(f, Options{Reporter: &ReporterAdapter{Bag: bag}}).All()
	if bag.Len() != 2 {
		t.Fatalf("want 2 diagnostics, got %d", bag.Len())
	}
	items := bag.Items()
	if items[0].Code != diag.LexUnterminatedString {
		t.Errorf("first code = %v", items[0].Code)
	}
	if items[1].Code != diag.LexUnterminatedTemplate {
		t.Errorf("second code = %v", items[1].Code)
	}
	if bag.HasErrors() {
		t.Errorf("lexer diagnostics must be warnings")
	}
}
