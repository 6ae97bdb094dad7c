package nav

import (
	"errors"
	"fmt"
	"slices"

	"github.com/dgallion1/pagenav/internal/dom"
	"github.com/dgallion1/pagenav/internal/observer"
	"golang.org/x/net/html"
)

// Tracker keeps the "current" indicator in step with the intersection feed.
// It owns a registry of links and markers by section id, so notifications
// never re-query the document.
type Tracker struct {
	scope        Scope
	currentClass string

	panels  []*Panel
	links   map[string][]*NavLink // registration order across panels
	markers map[string]*html.Node

	currentID string
	current   []*NavLink
}

func newTracker(scope Scope, currentClass string) *Tracker {
	return &Tracker{
		scope:        scope,
		currentClass: currentClass,
		links:        make(map[string][]*NavLink),
		markers:      make(map[string]*html.Node),
	}
}

func (t *Tracker) register(p *Panel) {
	t.panels = append(t.panels, p)
	for i, l := range p.Links {
		t.links[l.ID] = append(t.links[l.ID], l)
		t.markers[l.ID] = p.Markers[i]
	}
}

func (t *Tracker) unregister(p *Panel) {
	t.panels = slices.DeleteFunc(t.panels, func(o *Panel) bool { return o == p })
	for _, l := range p.Links {
		dom.RemoveClass(l.Node, t.currentClass)
		rest := slices.DeleteFunc(t.links[l.ID], func(o *NavLink) bool { return o == l })
		if len(rest) == 0 {
			delete(t.links, l.ID)
			delete(t.markers, l.ID)
			continue
		}
		t.links[l.ID] = rest
	}
	if t.currentID == "" {
		return
	}
	if !t.hasLinks(t.currentID) {
		t.currentID = ""
		t.current = nil
		return
	}
	t.mark()
}

func (t *Tracker) hasLinks(id string) bool {
	return len(t.links[id]) > 0
}

// Marker returns the anchor marker registered for id.
func (t *Tracker) Marker(id string) (*html.Node, bool) {
	m, ok := t.markers[id]
	return m, ok
}

// Links returns every link registered for id.
func (t *Tracker) Links(id string) []*NavLink {
	return slices.Clone(t.links[id])
}

// CurrentID returns the id of the current section, or "".
func (t *Tracker) CurrentID() string { return t.currentID }

// Current returns the current link, or nil. With ScopePanel it returns the
// link of the earliest panel.
func (t *Tracker) Current() *NavLink {
	if len(t.current) == 0 {
		return nil
	}
	return t.current[0]
}

// CurrentLinks returns every link carrying the current indicator.
func (t *Tracker) CurrentLinks() []*NavLink {
	return slices.Clone(t.current)
}

// Apply processes one batch of notifications. Among the entries that are
// intersecting with a ratio of at least 1, the one topmost in document order
// wins. Entries whose marker has no registered link are reported as
// ErrLinkNotFound; the rest of the batch is still applied.
func (t *Tracker) Apply(entries []observer.Entry) error {
	var errs []error
	winner, winnerIdx := "", -1
	for _, e := range entries {
		if !e.Intersecting || e.Ratio < 1 {
			continue
		}
		if e.Target == nil {
			errs = append(errs, fmt.Errorf("%w: entry without target", ErrLinkNotFound))
			continue
		}
		id, _ := dom.Attr(e.Target, "id")
		links := t.links[id]
		if len(links) == 0 {
			errs = append(errs, fmt.Errorf("%w: %q", ErrLinkNotFound, id))
			continue
		}
		if winnerIdx == -1 || links[0].Index < winnerIdx {
			winner, winnerIdx = id, links[0].Index
		}
	}
	if winner != "" {
		t.Activate(winner)
	}
	return errors.Join(errs...)
}

// Activate makes id the current section. Activating the current section
// again changes nothing.
func (t *Tracker) Activate(id string) bool {
	if !t.hasLinks(id) {
		return false
	}
	if id == t.currentID {
		return true
	}
	t.currentID = id
	t.mark()
	return true
}

// mark clears the indicator from every registered link, then sets it on the
// links selected for currentID. The order keeps the indicator set at size 0
// or 1 per scope.
func (t *Tracker) mark() {
	for _, p := range t.panels {
		for _, l := range p.Links {
			dom.RemoveClass(l.Node, t.currentClass)
		}
	}
	links := t.links[t.currentID]
	if t.scope != ScopePanel && len(links) > 1 {
		links = links[:1]
	}
	for _, l := range links {
		dom.AddClass(l.Node, t.currentClass)
	}
	t.current = slices.Clone(links)
}
