package doctree

import (
	"fmt"
	"strings"

	"github.com/dgallion1/pagenav/internal/nav"
)

// Outline is the section tree of a page as listed by its in-page nav.
type Outline struct {
	Title   string   `json:"title"`   // Page title (from metadata or filename)
	Entries []*Entry `json:"entries"` // Top-level sections
}

// Entry is one section of the outline.
type Entry struct {
	ID       string   `json:"id"`    // Fragment id, e.g. "section_0"
	Label    string   `json:"label"` // Heading text
	Level    string   `json:"level"` // "top" or "sub"
	Children []*Entry `json:"children,omitempty"`
}

// FromSections nests each sub-level section under the closest preceding
// top-level one. Sub-level sections before the first top-level section stay
// at the top.
func FromSections(title string, sections []nav.Section) *Outline {
	o := &Outline{Title: title, Entries: []*Entry{}}
	var parent *Entry
	for _, s := range sections {
		e := &Entry{ID: s.ID, Label: s.Label, Level: s.Level.String()}
		if s.Level == nav.LevelSub && parent != nil {
			parent.Children = append(parent.Children, e)
			continue
		}
		o.Entries = append(o.Entries, e)
		if s.Level == nav.LevelTop {
			parent = e
		}
	}
	return o
}

// Len returns the number of entries at every depth.
func (o *Outline) Len() int {
	n := 0
	for _, e := range o.Entries {
		n += 1 + len(e.Children)
	}
	return n
}

// String renders the outline as an indented list, one entry per line.
func (o *Outline) String() string {
	var b strings.Builder
	if o.Title != "" {
		b.WriteString(o.Title + "\n")
	}
	for _, e := range o.Entries {
		fmt.Fprintf(&b, "- %s (#%s)\n", e.Label, e.ID)
		for _, c := range e.Children {
			fmt.Fprintf(&b, "  - %s (#%s)\n", c.Label, c.ID)
		}
	}
	return b.String()
}
