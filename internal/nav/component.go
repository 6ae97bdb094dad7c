// Package nav implements the in-page navigation component: it scans the
// section headings of a document, synthesizes a navigation panel with one
// link per section, tracks the section in view through an intersection feed
// and handles link activation from pointer and keyboard.
//
// A Component is driven from a single event loop and is not safe for
// concurrent use.
package nav

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/dgallion1/pagenav/internal/dom"
	"github.com/dgallion1/pagenav/internal/observer"
	"golang.org/x/net/html"
)

// Scroller is the host smooth-scroll primitive. It aligns the top of target
// with the top of the viewport and returns without waiting for the scroll.
type Scroller interface {
	ScrollTo(target *html.Node)
}

// Panel is one generated navigation panel.
type Panel struct {
	Target  *html.Node // initialization container
	Nav     *html.Node
	Heading *html.Node
	List    *html.Node
	Title   string

	Sections []Section
	Links    []*NavLink
	Markers  []*html.Node

	closed bool
}

// Closed reports whether the panel has been torn down.
func (p *Panel) Closed() bool { return p.closed }

// NavLink is one entry of a panel's list.
type NavLink struct {
	ID    string
	Index int
	Label string
	Sub   bool
	Node  *html.Node // <a>
	Item  *html.Node // <li>
	Panel *Panel
}

// Option configures a Component.
type Option func(*Component)

// WithConfig replaces the default configuration.
func WithConfig(cfg Config) Option {
	return func(c *Component) { c.cfg = cfg.withDefaults() }
}

// WithLogger sets the logger used for recoverable errors.
func WithLogger(log *slog.Logger) Option {
	return func(c *Component) {
		if log != nil {
			c.log = log
		}
	}
}

// Component owns every panel built in one document, the shared tracker and
// the intersection feed subscription.
type Component struct {
	doc      *dom.Document
	cfg      Config
	cls      classes
	factory  observer.Factory
	scroller Scroller
	log      *slog.Logger

	feed     observer.Feed
	tracker  *Tracker
	panels   []*Panel
	roles    map[*html.Node]Role
	handlers map[Role]map[string]eventHandler
	keymap   map[string]eventHandler

	listening   map[*html.Node][]*dom.Subscription
	pendingBlur map[*html.Node]*dom.Subscription
}

// New creates a Component for doc. A nil factory builds static panels that
// are never tracked; a nil scroller turns activation into a no-op scroll.
func New(doc *dom.Document, factory observer.Factory, scroller Scroller, opts ...Option) *Component {
	c := &Component{
		doc:         doc,
		cfg:         DefaultConfig(),
		factory:     factory,
		scroller:    scroller,
		log:         slog.Default(),
		roles:       make(map[*html.Node]Role),
		listening:   make(map[*html.Node][]*dom.Subscription),
		pendingBlur: make(map[*html.Node]*dom.Subscription),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.cls = newClasses(c.cfg.Prefix)
	c.tracker = newTracker(c.cfg.Scope, c.cls.current)
	c.registerHandlers()
	return c
}

// Tracker exposes the active-section tracker.
func (c *Component) Tracker() *Tracker { return c.tracker }

// Panels returns the live panels in build order.
func (c *Component) Panels() []*Panel { return slices.Clone(c.panels) }

// CurrentClass is the class carried by the current link.
func (c *Component) CurrentClass() string { return c.cls.current }

// Init finds every in-page nav container in root (root included) and builds
// a panel for each. A container that fails is skipped; the others are still
// built and the failures are returned joined. Init also attaches the click
// and keydown listeners to root.
func (c *Component) Init(root *html.Node) ([]*Panel, error) {
	if root == nil {
		root = c.doc.Root()
	}
	c.listen(root)

	var panels []*Panel
	var errs []error
	for _, target := range dom.SelectOrMatches(root, "."+c.cls.nav) {
		if c.panelFor(target) != nil {
			continue
		}
		p, err := c.Build(target)
		if err != nil {
			c.log.Error("in-page nav: build failed", "target", describe(target), "error", err)
			errs = append(errs, fmt.Errorf("build %s: %w", describe(target), err))
			continue
		}
		panels = append(panels, p)
	}
	return panels, errors.Join(errs...)
}

// Build synthesizes a panel inside target and subscribes its markers.
func (c *Component) Build(target *html.Node) (*Panel, error) {
	title := dom.AttrOr(target, "data-title", c.cfg.Title)
	level := dom.AttrOr(target, "data-heading-level", c.cfg.HeadingLevel)
	if !IsHeadingTag(level) {
		return nil, fmt.Errorf("%w: %q", ErrHeadingLevel, level)
	}
	if err := c.ensureFeed(); err != nil {
		return nil, err
	}

	p := &Panel{Target: target, Title: title}

	p.Nav = dom.CreateElement("nav")
	dom.SetAttr(p.Nav, "aria-label", title)

	p.Heading = dom.CreateElement(level)
	dom.AddClass(p.Heading, c.cls.heading)
	dom.SetAttr(p.Heading, "tabindex", "0")
	dom.SetText(p.Heading, title)
	dom.Append(p.Nav, p.Heading)

	p.List = dom.CreateElement("ul")
	dom.AddClass(p.List, c.cls.list)
	dom.Append(p.Nav, p.List)

	p.Sections = Scan(c.doc, c.cfg)
	for _, s := range p.Sections {
		item := dom.CreateElement("li")
		dom.AddClass(item, c.cls.item)
		if s.Level == LevelSub {
			dom.AddClass(item, c.cls.subItem)
		}

		a := dom.CreateElement("a")
		dom.SetAttr(a, "href", "#"+s.ID)
		dom.SetAttr(a, "class", c.cls.link)
		dom.SetText(a, s.Label)
		dom.Append(item, a)
		dom.Append(p.List, item)

		p.Links = append(p.Links, &NavLink{
			ID:    s.ID,
			Index: s.Index,
			Label: s.Label,
			Sub:   s.Level == LevelSub,
			Node:  a,
			Item:  item,
			Panel: p,
		})
		p.Markers = append(p.Markers, c.marker(s))
	}

	dom.Append(target, p.Nav)

	c.roles[p.Nav] = RoleNavPanel
	c.roles[p.Heading] = RoleNavHeading
	for _, l := range p.Links {
		c.roles[l.Node] = RoleNavLink
	}
	c.panels = append(c.panels, p)
	c.tracker.register(p)

	if c.feed != nil {
		for _, m := range p.Markers {
			c.feed.Observe(m)
		}
	}
	return p, nil
}

// marker returns the anchor marker of s, inserting it as the first child of
// the heading unless an earlier panel already did.
func (c *Component) marker(s Section) *html.Node {
	if fc := s.Heading.FirstChild; fc != nil && fc.Type == html.ElementNode && dom.HasClass(fc, c.cls.anchor) {
		if id, _ := dom.Attr(fc, "id"); id == s.ID {
			return fc
		}
	}
	m := dom.CreateElement("a")
	dom.SetAttr(m, "id", s.ID)
	dom.SetAttr(m, "class", c.cls.anchor)
	dom.Prepend(s.Heading, m)
	return m
}

func (c *Component) ensureFeed() error {
	if c.feed != nil || c.factory == nil {
		return nil
	}
	feed, err := c.factory(c.onBatch, observer.Options{
		RootMargin: RootMargin,
		Thresholds: Thresholds(),
	})
	if err != nil {
		return fmt.Errorf("create intersection feed: %w", err)
	}
	c.feed = feed
	return nil
}

// onBatch is the intersection feed callback.
func (c *Component) onBatch(entries []observer.Entry) {
	if err := c.tracker.Apply(entries); err != nil {
		c.log.Warn("in-page nav: tracker lookup failed", "error", err)
	}
}

// Teardown unsubscribes the panel's markers, drops its links from the
// tracker and removes the panel from the document. Markers still used by
// another live panel stay in place.
func (c *Component) Teardown(p *Panel) {
	if p == nil || p.closed {
		return
	}
	p.closed = true
	c.panels = slices.DeleteFunc(c.panels, func(o *Panel) bool { return o == p })
	c.tracker.unregister(p)

	for _, m := range p.Markers {
		id, _ := dom.Attr(m, "id")
		if c.tracker.hasLinks(id) {
			continue
		}
		if c.feed != nil {
			c.feed.Unobserve(m)
		}
		dom.Remove(m)
	}

	delete(c.roles, p.Nav)
	delete(c.roles, p.Heading)
	for _, l := range p.Links {
		delete(c.roles, l.Node)
	}
	dom.Remove(p.Nav)
}

// Close tears down every panel, detaches listeners and disconnects the feed.
func (c *Component) Close() {
	for _, p := range slices.Clone(c.panels) {
		c.Teardown(p)
	}
	for root, subs := range c.listening {
		for _, s := range subs {
			s.Cancel()
		}
		delete(c.listening, root)
	}
	for n, s := range c.pendingBlur {
		s.Cancel()
		delete(c.pendingBlur, n)
	}
	if c.feed != nil {
		c.feed.Disconnect()
		c.feed = nil
	}
}

func (c *Component) panelFor(target *html.Node) *Panel {
	for _, p := range c.panels {
		if p.Target == target {
			return p
		}
	}
	return nil
}

func describe(n *html.Node) string {
	if id, ok := dom.Attr(n, "id"); ok && id != "" {
		return n.Data + "#" + id
	}
	return n.Data
}
