package markdown

import (
	"bytes"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// TextProcessor renders user text (comments, captions) to sanitized HTML.
// Only a restricted markdown subset is enabled: emphasis, code spans,
// fenced code and strikethrough. Everything else stays literal text.
type TextProcessor struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func New() *TextProcessor {
	p := parser.NewParser(
		parser.WithBlockParsers(
			util.Prioritized(parser.NewFencedCodeBlockParser(), 700),
			util.Prioritized(parser.NewParagraphParser(), 1000),
		),
		parser.WithInlineParsers(
			util.Prioritized(parser.NewCodeSpanParser(), 100),
			util.Prioritized(parser.NewEmphasisParser(), 500),
		),
	)

	md := goldmark.New(
		goldmark.WithParser(p),
		goldmark.WithRendererOptions(html.WithHardWraps()),
		goldmark.WithExtensions(extension.Strikethrough),
	)

	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").OnElements("code")

	return &TextProcessor{md: md, policy: policy}
}

// Render converts raw user text to sanitized HTML. On render failure the
// raw text is sanitized and returned as-is; UGC must never reach clients
// unsanitized.
func (tp *TextProcessor) Render(text string) string {
	var buf bytes.Buffer
	if err := tp.md.Convert([]byte(text), &buf); err != nil {
		return tp.policy.Sanitize(text)
	}
	return tp.policy.Sanitize(buf.String())
}
