// Package render converts post Markdown into sanitized HTML fragments.
package render

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// legacyFence matches the historical four-tilde code fences, with or
// without a {lang} tag:
//
//	~~~~{go}
//	...
//	~~~~
var legacyFence = regexp.MustCompile("(?s)~~~~(?:\\{([^}\n]*)\\})?\n(.*?)~~~~")

// converter is configured once; goldmark.Markdown is safe for concurrent
// use and holds no per-call state.
var converter = goldmark.New(
	goldmark.WithExtensions(
		extension.Table,
		extension.TaskList,
		extension.Strikethrough,
	),
	goldmark.WithRendererOptions(
		// The fence pre-pass emits raw HTML that must survive conversion.
		html.WithUnsafe(),
	),
)

// Render converts Markdown text into an HTML fragment. It is a pure
// function of its input: no network, no shared state, same input gives
// identical output.
func Render(markdown string) (string, error) {
	pre := rewriteLegacyFences(markdown)

	var buf bytes.Buffer
	if err := converter.Convert([]byte(pre), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown: %w", err)
	}
	return buf.String(), nil
}

// rewriteLegacyFences rewrites four-tilde fences into explicit code
// blocks. The body is HTML-escaped here, before conversion, so the
// converter cannot re-interpret code as Markdown.
func rewriteLegacyFences(markdown string) string {
	return legacyFence.ReplaceAllStringFunc(markdown, func(match string) string {
		groups := legacyFence.FindStringSubmatch(match)
		lang, body := groups[1], groups[2]

		if lang != "" {
			return fmt.Sprintf("<pre><code class=\"language-%s\">%s</code></pre>", lang, EscapeHTML(body))
		}
		return fmt.Sprintf("<pre><code>%s</code></pre>", EscapeHTML(body))
	})
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// EscapeHTML escapes the five HTML-significant characters. Standard HTML
// unescaping restores the original text exactly.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}
