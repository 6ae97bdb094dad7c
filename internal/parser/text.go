package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/dgallion1/pagenav/internal/dom"
)

// TextParser handles plain text files. Paragraphs are separated by blank
// lines. A two-line paragraph underlined with "=" becomes a section heading
// and one underlined with "-" a subsection heading.
type TextParser struct {
	Shell Shell
}

func (p *TextParser) Parse(r io.Reader, filename string) (*dom.Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var paragraphs [][]string
	var current []string

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			if len(current) > 0 {
				paragraphs = append(paragraphs, current)
				current = nil
			}
		} else {
			current = append(current, line)
		}
	}
	if len(current) > 0 {
		paragraphs = append(paragraphs, current)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	pg := newPage(p.Shell, titleFromFilename(filename))
	for _, para := range paragraphs {
		if level := underlineLevel(para); level > 0 {
			pg.heading(level, strings.TrimSpace(para[0]))
			continue
		}
		pg.para(strings.Join(para, "\n"))
	}
	return pg.document()
}

// underlineLevel returns 2 for a "=" underline, 3 for "-", 0 otherwise.
func underlineLevel(para []string) int {
	if len(para) != 2 || strings.TrimSpace(para[0]) == "" {
		return 0
	}
	rule := strings.TrimSpace(para[1])
	switch {
	case rule != "" && strings.Trim(rule, "=") == "":
		return 2
	case rule != "" && strings.Trim(rule, "-") == "":
		return 3
	}
	return 0
}
