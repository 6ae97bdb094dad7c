package nav

import (
	"fmt"
	"strings"

	"github.com/dgallion1/pagenav/internal/dom"
	"golang.org/x/net/html"
)

// Role tags the elements a Component dispatches events for.
type Role int

const (
	RoleNone Role = iota
	RoleNavPanel
	RoleNavHeading
	RoleNavLink
)

func (r Role) String() string {
	switch r {
	case RoleNavPanel:
		return "nav-panel"
	case RoleNavHeading:
		return "nav-heading"
	case RoleNavLink:
		return "nav-link"
	}
	return "none"
}

type eventHandler func(ev *dom.Event, el *html.Node) error

func (c *Component) registerHandlers() {
	c.handlers = map[Role]map[string]eventHandler{
		RoleNavLink: {
			dom.EventClick:   c.onLinkClick,
			dom.EventKeyDown: c.onLinkKeyDown,
		},
	}
	c.keymap = map[string]eventHandler{
		"Enter": c.onLinkEnter,
	}
}

// listen attaches the delegated listeners to root once.
func (c *Component) listen(root *html.Node) {
	if _, ok := c.listening[root]; ok {
		return
	}
	dispatch := func(ev *dom.Event) {
		if err := c.HandleEvent(ev); err != nil {
			c.log.Warn("in-page nav: event not handled", "event", ev.Type, "error", err)
		}
	}
	c.listening[root] = []*dom.Subscription{
		c.doc.AddEventListener(root, dom.EventClick, dispatch),
		c.doc.AddEventListener(root, dom.EventKeyDown, dispatch),
	}
}

// RoleOf returns the nearest element at or above n that has a role, and the
// role itself.
func (c *Component) RoleOf(n *html.Node) (*html.Node, Role) {
	for ; n != nil; n = n.Parent {
		if r, ok := c.roles[n]; ok {
			return n, r
		}
	}
	return nil, RoleNone
}

// HandleEvent routes ev to the handler registered for the role of its
// target. Events on elements without a role, or without a handler, are
// ignored.
func (c *Component) HandleEvent(ev *dom.Event) error {
	el, role := c.RoleOf(ev.Target)
	h := c.handlers[role][ev.Type]
	if h == nil {
		return nil
	}
	return h(ev, el)
}

func (c *Component) onLinkClick(ev *dom.Event, link *html.Node) error {
	ev.PreventDefault()
	if disabled(link) {
		return nil
	}
	id := fragmentID(link)
	marker, ok := c.tracker.Marker(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrAnchorNotFound, id)
	}
	c.scrollTo(marker)
	return nil
}

func (c *Component) onLinkKeyDown(ev *dom.Event, link *html.Node) error {
	h, ok := c.keymap[ev.Key]
	if !ok {
		return nil
	}
	return h(ev, link)
}

// onLinkEnter hands focus to the section so keyboard users continue reading
// from there. The section is focusable only until it next loses focus.
func (c *Component) onLinkEnter(_ *dom.Event, link *html.Node) error {
	id := fragmentID(link)
	marker, ok := c.tracker.Marker(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrAnchorNotFound, id)
	}
	section := marker.Parent
	if section == nil || section.Type != html.ElementNode {
		return fmt.Errorf("%w: %q", ErrDetachedAnchor, id)
	}

	dom.SetAttr(section, "tabindex", "0")
	c.doc.Focus(section)
	if prev, ok := c.pendingBlur[section]; ok {
		prev.Cancel()
	}
	c.pendingBlur[section] = c.doc.Once(section, dom.EventBlur, func(*dom.Event) {
		dom.SetAttr(section, "tabindex", "-1")
		delete(c.pendingBlur, section)
	})
	c.scrollTo(section)
	return nil
}

func (c *Component) scrollTo(n *html.Node) {
	if c.scroller != nil {
		c.scroller.ScrollTo(n)
	}
}

func fragmentID(link *html.Node) string {
	href, _ := dom.Attr(link, "href")
	if i := strings.IndexByte(href, '#'); i >= 0 {
		return href[i+1:]
	}
	return href
}

func disabled(n *html.Node) bool {
	if _, ok := dom.Attr(n, "disabled"); ok {
		return true
	}
	v, _ := dom.Attr(n, "aria-disabled")
	return v == "true"
}
