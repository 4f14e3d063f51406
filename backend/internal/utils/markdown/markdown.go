package markdown

import (
	"bytes"
	stdhtml "html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// TextProcessor renders post bodies to safe HTML and strips markup from comments.
// It is safe for concurrent use.
type TextProcessor struct {
	md     goldmark.Markdown
	post   *bluemonday.Policy
	strict *bluemonday.Policy
}

func New() *TextProcessor {
	md := goldmark.New(
		// Raw HTML is kept here and removed by the sanitizer afterwards.
		goldmark.WithRendererOptions(html.WithUnsafe()),
		goldmark.WithExtensions(extension.GFM),
	)

	post := bluemonday.UGCPolicy()
	post.RequireNoFollowOnLinks(true)
	post.AddTargetBlankToFullyQualifiedLinks(true)

	return &TextProcessor{md: md, post: post, strict: bluemonday.StrictPolicy()}
}

// RenderPost converts markdown to sanitized HTML. On a render failure the
// escaped source text is returned.
func (tp *TextProcessor) RenderPost(text string) string {
	var buf bytes.Buffer
	if err := tp.md.Convert([]byte(text), &buf); err != nil {
		return tp.strict.Sanitize(text)
	}
	return strings.TrimSpace(tp.post.Sanitize(buf.String()))
}

func (tp *TextProcessor) SanitizeComment(text string) string {
	// Comments are stored as plain text, so entities the sanitizer emits are decoded.
	return strings.TrimSpace(stdhtml.UnescapeString(tp.strict.Sanitize(text)))
}
