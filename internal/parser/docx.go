package parser

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dgallion1/pagenav/internal/dom"
	"github.com/fumiama/go-docx"
)

// DOCXParser handles .docx files. Heading styles shift down one level so
// "Heading 1" becomes a top-level section (h2) and "Heading 2" a subsection
// (h3); the "Title" style becomes the page h1.
type DOCXParser struct {
	Shell Shell
}

func (p *DOCXParser) Parse(r io.Reader, filename string) (*dom.Document, error) {
	// go-docx needs a ReadSeeker+size, so write to temp file.
	tmp, err := os.CreateTemp("", "pagenav-docx-*.docx")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("seek temp file: %w", err)
	}

	doc, err := docx.Parse(tmp, size)
	tmp.Close()
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	pg := newPage(p.Shell, titleFromFilename(filename))
	titled := false
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		text := docxParagraphText(para)
		if text == "" {
			continue
		}
		switch level := docxHeadingLevel(para); {
		case level == -1:
			if !titled {
				pg.title = text
				titled = true
			}
			pg.heading(1, text)
		case level > 0:
			pg.heading(level+1, text)
		default:
			pg.para(text)
		}
	}
	return pg.document()
}

// docxHeadingLevel returns 1-6 for heading styles, -1 for the title style and
// 0 for body text.
func docxHeadingLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	style := strings.ToLower(strings.ReplaceAll(para.Properties.Style.Val, " ", ""))
	if style == "title" {
		return -1
	}
	if rest, ok := strings.CutPrefix(style, "heading"); ok && len(rest) == 1 && rest[0] >= '1' && rest[0] <= '6' {
		return int(rest[0] - '0')
	}
	return 0
}

func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
