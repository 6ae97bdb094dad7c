package nav

import (
	"fmt"

	"github.com/dgallion1/pagenav/internal/dom"
	"golang.org/x/net/html"
)

// Level distinguishes top-level from sub-level sections.
type Level int

const (
	LevelTop Level = iota
	LevelSub
)

func (l Level) String() string {
	if l == LevelSub {
		return "sub"
	}
	return "top"
}

// Section is a heading discovered in the main content region.
type Section struct {
	Index   int
	ID      string
	Rank    string // heading tag, e.g. "h2"
	Level   Level
	Label   string
	Heading *html.Node
}

// SectionID returns the fragment id for the section at index i.
func SectionID(i int) string {
	return fmt.Sprintf("section_%d", i)
}

// Scan returns the sections of doc in document order. A document without a
// main region or without headings yields no sections. Headings inside an
// in-page nav container are not sections.
func Scan(doc *dom.Document, cfg Config) []Section {
	cfg = cfg.withDefaults()
	cls := newClasses(cfg.Prefix)
	selector := fmt.Sprintf("%[1]s %[2]s, %[1]s %[3]s", cfg.MainSelector, cfg.TopRank, cfg.SubRank)

	var sections []Section
	for _, h := range doc.QueryAll(selector) {
		if dom.Closest(h, "."+cls.nav) != nil {
			continue
		}
		i := len(sections)
		s := Section{
			Index:   i,
			ID:      SectionID(i),
			Rank:    h.Data,
			Level:   LevelTop,
			Label:   dom.TextContent(h),
			Heading: h,
		}
		if h.Data == cfg.SubRank {
			s.Level = LevelSub
		}
		sections = append(sections, s)
	}
	return sections
}
