package render

import (
	"html"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderLegacyFenceWithLang(t *testing.T) {
	input := "~~~~{go}\nfmt.Println(\"hi\")\n~~~~"

	out, err := Render(input)
	require.NoError(t, err)

	assert.Contains(t, out, `<code class="language-go">`)

	// The escaped body must unescape back to the code exactly
	start := strings.Index(out, `<code class="language-go">`) + len(`<code class="language-go">`)
	end := strings.Index(out, "</code>")
	require.Greater(t, end, start)
	assert.Equal(t, "fmt.Println(\"hi\")\n", html.UnescapeString(out[start:end]))
}

func TestRenderLegacyFenceWithoutLang(t *testing.T) {
	input := "~~~~\na < b && c > d\n~~~~"

	out, err := Render(input)
	require.NoError(t, err)

	assert.Contains(t, out, "<pre><code>")
	assert.Contains(t, out, "a &lt; b &amp;&amp; c &gt; d")
	// The raw operators never leak through unescaped
	assert.NotContains(t, out, "a < b && c > d")
}

func TestRenderLegacyFenceBodyNotReinterpreted(t *testing.T) {
	// Markdown-significant text inside a legacy fence stays literal
	input := "~~~~\n# not a heading\n*not emphasis*\n~~~~"

	out, err := Render(input)
	require.NoError(t, err)

	assert.NotContains(t, out, "<h1>")
	assert.NotContains(t, out, "<em>")
	assert.Contains(t, out, "# not a heading")
}

func TestRenderDeterministic(t *testing.T) {
	input := "# Title\n\nSome *emphasis*, a [link](https://example.com), and `code`.\n"

	first, err := Render(input)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Render(input)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestRenderTables(t *testing.T) {
	input := "| a | b |\n|---|---|\n| 1 | 2 |\n"

	out, err := Render(input)
	require.NoError(t, err)
	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "<td>1</td>")
}

func TestRenderTaskListAndStrikethrough(t *testing.T) {
	out, err := Render("- [x] done\n- [ ] todo\n\n~~gone~~\n")
	require.NoError(t, err)
	assert.Contains(t, out, `type="checkbox"`)
	assert.Contains(t, out, "<del>gone</del>")
}

func TestRenderStandardFencedCode(t *testing.T) {
	out, err := Render("```python\nprint('hi')\n```\n")
	require.NoError(t, err)
	assert.Contains(t, out, `<code class="language-python">`)
}

func TestEscapeHTMLRoundTrip(t *testing.T) {
	inputs := []string{
		`&<>"'`,
		`if a < b && b > c { fmt.Println("done", 'x') }`,
		"plain text without specials",
		`&amp; already escaped`,
	}
	for _, in := range inputs {
		assert.Equal(t, in, html.UnescapeString(EscapeHTML(in)), "input %q", in)
	}
}

func TestEscapeHTML(t *testing.T) {
	assert.Equal(t, "&amp;&lt;&gt;&quot;&#39;", EscapeHTML(`&<>"'`))
}
