// Package markdown renders post and page content to HTML. Rendering is
// goldmark with GitHub-flavored extensions and chroma-backed syntax
// highlighting for fenced code blocks.
package markdown

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Typographer,
		highlighting.NewHighlighting(
			highlighting.WithStyle("github"),
		),
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
	goldmark.WithRendererOptions(
		// Content comes from the admin editor, not anonymous input.
		html.WithUnsafe(),
	),
)

// Render converts markdown content to HTML.
func Render(content string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(content), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Markdown returns a templ.Component that renders content as HTML.
func Markdown(content string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		out, err := Render(content)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	})
}

// Summary returns the content above the truncate tag, or the whole content
// when the tag is absent. The tag itself is not included.
func Summary(content, truncateTag string) string {
	if truncateTag == "" {
		return content
	}
	if idx := strings.Index(content, truncateTag); idx >= 0 {
		return strings.TrimRight(content[:idx], "\n ")
	}
	return content
}

// Truncated reports whether content carries the truncate tag, i.e. whether a
// "read more" link is worth showing.
func Truncated(content, truncateTag string) bool {
	return truncateTag != "" && strings.Contains(content, truncateTag)
}
