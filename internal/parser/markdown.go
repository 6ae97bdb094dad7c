package parser

import (
	"bytes"
	"fmt"
	"io"

	"github.com/dgallion1/pagenav/internal/dom"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files using goldmark. The first level-1
// heading becomes the page title.
type MarkdownParser struct {
	Shell Shell
}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*dom.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	doc := md.Parser().Parse(text.NewReader(src))

	title := titleFromFilename(filename)
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok && h.Level == 1 {
			title = string(h.Text(src))
			break
		}
	}

	var buf bytes.Buffer
	if err := md.Renderer().Render(&buf, src, doc); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}
	body := buf.Bytes()
	if p.Shell.Sanitize {
		body = Sanitize(body)
	}

	pg := newPage(p.Shell, title)
	pg.raw(string(body))
	return pg.document()
}
