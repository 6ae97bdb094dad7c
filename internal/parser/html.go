package parser

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/pagenav/internal/dom"
	"golang.org/x/net/html"
)

// HTMLParser handles HTML files. Pages that already carry a nav container
// are returned unchanged. Otherwise the main region is wrapped in the
// standard shell; a page without <main> gets its body moved into one.
type HTMLParser struct {
	Shell Shell
}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*dom.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read html: %w", err)
	}

	doc, err := dom.Parse(bytes.NewReader(src))
	if err != nil {
		return nil, err
	}
	title := findTitle(doc.Root())
	if title == "" {
		title = titleFromFilename(filename)
	}

	if p.Shell.Sanitize {
		doc, err = sanitized(doc, title)
		if err != nil {
			return nil, err
		}
	}

	if doc.Query("."+p.Shell.NavClass()) == nil {
		p.injectContainer(doc)
	}
	return doc, nil
}

// sanitized rebuilds the page around the sanitized body. The author's
// markup is kept in place, nav containers and their data attributes
// included, so the shell is only injected when the page has none.
func sanitized(doc *dom.Document, title string) (*dom.Document, error) {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>")
	b.WriteString(html.EscapeString(title))
	b.WriteString("</title></head><body>\n")
	b.Write(Sanitize([]byte(innerHTML(doc.Body()))))
	b.WriteString("</body></html>\n")
	return dom.ParseString(b.String())
}

// injectContainer wraps <main> in the nav container, creating <main> from
// the body contents when the page has none. A <main> without an id gets
// "main-content".
func (p *HTMLParser) injectContainer(doc *dom.Document) {
	main := doc.Query("main")
	if main == nil {
		body := doc.Body()
		main = dom.CreateElement("main")
		for c := body.FirstChild; c != nil; {
			next := c.NextSibling
			body.RemoveChild(c)
			main.AppendChild(c)
			c = next
		}
		dom.Append(body, main)
	}
	if _, ok := dom.Attr(main, "id"); !ok {
		dom.SetAttr(main, "id", "main-content")
	}

	container := dom.CreateElement("div")
	dom.SetAttr(container, "class", p.Shell.ContainerClass())
	aside := dom.CreateElement("aside")
	dom.SetAttr(aside, "class", p.Shell.NavClass())
	if p.Shell.NavTitle != "" {
		dom.SetAttr(aside, "data-title", p.Shell.NavTitle)
	}

	main.Parent.InsertBefore(container, main)
	dom.Remove(main)
	dom.Append(container, aside)
	dom.Append(container, main)
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return dom.TextContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func innerHTML(n *html.Node) string {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		_ = html.Render(&buf, c)
	}
	return buf.String()
}
