package host

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"remap/internal/diag"
	"remap/internal/source"
	"remap/internal/srcmap"
)

const page = `<script context="module" lang="civet">
  export x := 1
</script>

<script lang="civet">

    count .= 0
    inc := => count++
</script>

<script>plain()</script>
<p>{count}</p>
`

func TestScan(t *testing.T) {
	all, err := Scan(page)
	require.NoError(t, err)
	require.Len(t, all, 3)

	mod, inst, plain := all[0], all[1], all[2]
	assert.Equal(t, RoleModule, mod.Role)
	assert.Equal(t, RoleInstance, inst.Role)
	assert.Equal(t, "civet", mod.Lang)
	assert.Equal(t, "civet", page[inst.LangStart:inst.LangEnd])
	assert.Equal(t, -1, plain.LangStart)
	assert.Equal(t, "plain()", plain.Content(page))
	assert.True(t, strings.HasPrefix(page[inst.TagStart:], "<script lang"))
	assert.True(t, strings.HasPrefix(page[inst.End:], "</script>"))

	civet, err := Extract(page, "civet")
	require.NoError(t, err)
	assert.Len(t, civet, 2)
}

func TestScanUnterminated(t *testing.T) {
	_, err := Scan("<script lang=\"civet\">x := 1")
	assert.ErrorIs(t, err, ErrUnterminated)
}

func TestAttrValue(t *testing.T) {
	raw := []byte(`<script data-lang="x" LANG = 'civet' module>`)
	from, to, ok := attrValue(raw, "lang")
	require.True(t, ok)
	assert.Equal(t, "civet", string(raw[from:to]))

	raw = []byte(`<script lang=civet>`)
	from, to, ok = attrValue(raw, "lang")
	require.True(t, ok)
	assert.Equal(t, "civet", string(raw[from:to]))

	_, _, ok = attrValue([]byte(`<script>`), "lang")
	assert.False(t, ok)
}

func TestDedent(t *testing.T) {
	cases := []struct {
		in, want, indent string
	}{
		{"  a\n    b\n  c", "a\n  b\nc", "  "},
		{"  a\n\n  b", "a\n\nb", "  "},
		{"a\n  b", "a\n  b", ""},
		{"\t\tx\n\t\ty", "x\ny", "\t\t"},
		{"", "", ""},
	}
	for _, tc := range cases {
		got, indent := Dedent(tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
		assert.Equal(t, tc.indent, indent, "input %q", tc.in)
	}
}

func TestPrepare(t *testing.T) {
	civet, err := Extract(page, "civet")
	require.NoError(t, err)

	sn := Prepare(page, civet[1])
	assert.Equal(t, "count .= 0\ninc := => count++", sn.Code)
	assert.Equal(t, "    ", sn.Indent)
	assert.Equal(t, 6, sn.Line)
	assert.Equal(t, 5, sn.Lines)
}

func TestMerge(t *testing.T) {
	civet, err := Extract(page, "civet")
	require.NoError(t, err)
	mod, inst := Prepare(page, civet[0]), Prepare(page, civet[1])

	m := Merge(page, []Part{
		// no map: stays civet
		{Snippet: mod, Code: "export const x = 1"},
		{
			Snippet: inst,
			Code:    "let count = 0\nconst inc = () => count++\n",
			Map:     srcmap.Lines{{srcmap.Mapped(4, 0, 0)}, {srcmap.Mapped(6, 1, 0)}},
			Names:   []string{"count"},
		},
	}, "ts")

	assert.Equal(t, []int{0}, m.Kept)
	require.Len(t, m.Blocks, 1)
	assert.Contains(t, m.Text, `<script context="module" lang="civet">`)
	assert.Contains(t, m.Text, "<script lang=\"ts\">\n    let count = 0\n    const inc = () => count++\n</script>")

	b := m.Blocks[0]
	assert.True(t, strings.HasPrefix(m.Text[b.Start:], "let count"))
	assert.True(t, strings.HasPrefix(m.Text[b.End:], "</script>"))
	assert.Equal(t, 5, b.StartLine)
	assert.Equal(t, 5, b.SourceLines)
	assert.Equal(t, 4, b.CompiledLines)
	assert.Equal(t, -1, b.Delta())
	assert.Equal(t, 4, b.Indent.Common)
	assert.Equal(t, 6, b.Origin.Line)
	assert.Equal(t, 4, b.Origin.Col)

	// lang="civet" -> lang="ts" on the opening tag line
	assert.Equal(t, 3, b.Rewrite.Shift)
	assert.Equal(t, b.StartLine-1, b.Rewrite.Line)
	lines := strings.Split(m.Text, "\n")
	assert.True(t, strings.HasPrefix(lines[b.Rewrite.Line][b.Rewrite.Col:], `">`))
	assert.Equal(t, []Role{RoleInstance}, m.Roles)
}

func TestLocateCompileError(t *testing.T) {
	civet, err := Extract(page, "civet")
	require.NoError(t, err)
	sn := Prepare(page, civet[1])

	// `=>` on the second snippet line
	off := strings.Index(sn.Code, "=>")
	pos := Locate(page, sn, off)
	assert.Equal(t, 7, pos.Line)
	assert.Equal(t, 4+7, pos.Col)
	assert.Equal(t, 4+7+4, pos.EndCol)

	// whitespace walks back to the code before it
	pos = Locate(page, sn, strings.Index(sn.Code, "\n"))
	assert.Equal(t, 6, pos.Line)

	// near the end of the line the highlight grows to the left
	pos = Locate(page, sn, len(sn.Code)-1)
	assert.Equal(t, 4, pos.EndCol-pos.Col)
}

func TestDiagnose(t *testing.T) {
	f := source.NewFile("page.svelte", []byte(page), 0)
	civet, err := Extract(page, "civet")
	require.NoError(t, err)
	sn := Prepare(page, civet[1])

	d := Diagnose(f, sn, &CompileError{Offset: 0, Message: "page.civet:1:1 unexpected token ts(-1)"})
	assert.Equal(t, diag.HostCompileError, d.Code)
	assert.Equal(t, diag.SevError, d.Severity)
	assert.Equal(t, "coun", page[d.Primary.Start:d.Primary.End])
	assert.Equal(t, "page.civet:7:1\n\nunexpected token", d.Message)
}

func TestTidyMessage(t *testing.T) {
	msg := "f.civet:2:5 Expected:\n\ta\n\tb\n\tc\n\td\n\te\nFound: \"x\""
	got := TidyMessage(msg, 0)
	assert.Equal(t, "f.civet:2:5\n\nExpected:\n\ta\n\tb\n\tc\n\td\n\t…\nFound: \"x\"", got)
}
