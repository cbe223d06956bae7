package markdown

import (
	"bytes"
	"fmt"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// DefaultClassPrefix is used when no prefix is configured.
const DefaultClassPrefix = "rde"

// Result is the outcome of rendering a single markdown document.
type Result struct {
	HTML string
	Meta Metadata
}

// Renderer converts markdown to HTML. It holds no per-document state and is
// safe for concurrent use.
type Renderer struct {
	md goldmark.Markdown
}

// Option configures a Renderer.
type Option func(*options)

type options struct {
	classPrefix string
	style       string
}

// WithClassPrefix sets the prefix of the element classes (default "rde").
func WithClassPrefix(prefix string) Option {
	return func(o *options) {
		if prefix != "" {
			o.classPrefix = prefix
		}
	}
}

// WithHighlightStyle sets the chroma style name used for code blocks.
func WithHighlightStyle(style string) Option {
	return func(o *options) {
		if style != "" {
			o.style = style
		}
	}
}

// NewRenderer creates a Renderer with GFM, syntax highlighting and classed
// heading, paragraph and link elements.
func NewRenderer(opts ...Option) *Renderer {
	o := options{classPrefix: DefaultClassPrefix, style: "github"}
	for _, opt := range opts {
		opt(&o)
	}

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle(o.style),
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true),
				),
			),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
			renderer.WithNodeRenderers(
				util.Prioritized(newClassRenderer(o.classPrefix), 100),
			),
		),
	)
	return &Renderer{md: md}
}

// Render converts src to HTML. Malformed markdown degrades to text and never
// fails; an error is only returned if goldmark itself reports one.
func (r *Renderer) Render(src []byte) (Result, error) {
	meta, body := extractFrontMatter(src)

	var buf bytes.Buffer
	if err := r.md.Convert(body, &buf); err != nil {
		return Result{}, fmt.Errorf("markdown conversion failed: %w", err)
	}
	return Result{HTML: buf.String(), Meta: meta}, nil
}
