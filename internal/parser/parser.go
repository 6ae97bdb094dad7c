// Package parser turns uploaded documents into pages the in-page navigation
// can be built into. HTML is used as-is; every other format is converted to
// HTML headings and paragraphs and wrapped in the standard page shell.
package parser

import (
	"fmt"
	"html"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/pagenav/internal/dom"
	"github.com/dgallion1/pagenav/internal/nav"
)

// Parser converts raw document bytes into a page document.
type Parser interface {
	Parse(r io.Reader, filename string) (*dom.Document, error)
}

// Shell describes the page wrapped around converted documents.
type Shell struct {
	Prefix   string // class prefix; nav.DefaultPrefix when empty
	NavTitle string // data-title of the nav container; empty keeps the component default
	Sanitize bool   // run uploaded HTML through the sanitizer
}

func (s Shell) prefix() string {
	if s.Prefix == "" {
		return nav.DefaultPrefix
	}
	return s.Prefix
}

// ContainerClass is the class of the wrapper holding the nav and the main region.
func (s Shell) ContainerClass() string { return s.prefix() + "-in-page-nav-container" }

// NavClass is the class of the nav initialization container.
func (s Shell) NavClass() string { return s.prefix() + "-in-page-nav" }

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".csv":      true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string, shell Shell) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextParser{Shell: shell}, nil
	case ".md", ".markdown":
		return &MarkdownParser{Shell: shell}, nil
	case ".csv":
		return &CSVParser{Shell: shell}, nil
	case ".html", ".htm":
		return &HTMLParser{Shell: shell}, nil
	case ".pdf":
		return &PDFParser{Shell: shell}, nil
	case ".docx":
		return &DOCXParser{Shell: shell}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// titleFromFilename strips directories and the extension.
func titleFromFilename(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// page accumulates the body of a converted document.
type page struct {
	shell Shell
	title string
	body  strings.Builder
}

func newPage(shell Shell, title string) *page {
	return &page{shell: shell, title: title}
}

func (p *page) heading(level int, text string) {
	level = min(max(level, 1), 6)
	fmt.Fprintf(&p.body, "<h%d>%s</h%d>\n", level, html.EscapeString(text), level)
}

func (p *page) para(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	p.body.WriteString("<p>")
	p.body.WriteString(strings.ReplaceAll(html.EscapeString(text), "\n", "<br>"))
	p.body.WriteString("</p>\n")
}

// raw appends an HTML fragment that is already escaped.
func (p *page) raw(fragment string) {
	p.body.WriteString(fragment)
}

// document wraps the body in the shell and parses the result.
func (p *page) document() (*dom.Document, error) {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>")
	b.WriteString(html.EscapeString(p.title))
	b.WriteString("</title></head><body>\n")
	fmt.Fprintf(&b, "<div class=%q>\n", p.shell.ContainerClass())
	b.WriteString(navContainer(p.shell))
	b.WriteString("<main id=\"main-content\">\n")
	b.WriteString(p.body.String())
	b.WriteString("</main>\n</div>\n</body></html>\n")

	doc, err := dom.ParseString(b.String())
	if err != nil {
		return nil, fmt.Errorf("parse page shell: %w", err)
	}
	return doc, nil
}

func navContainer(shell Shell) string {
	if shell.NavTitle == "" {
		return fmt.Sprintf("<aside class=%q></aside>\n", shell.NavClass())
	}
	return fmt.Sprintf("<aside class=%q data-title=\"%s\"></aside>\n", shell.NavClass(), html.EscapeString(shell.NavTitle))
}
