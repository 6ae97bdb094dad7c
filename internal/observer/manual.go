package observer

import (
	"slices"

	"golang.org/x/net/html"
)

// Manual is a host whose notifications are delivered by hand. It records
// every feed it creates so tests can inspect subscriptions.
type Manual struct {
	Feeds []*ManualFeed
}

// NewManual returns an empty Manual host.
func NewManual() *Manual { return &Manual{} }

// Factory returns an observer.Factory bound to m.
func (m *Manual) Factory() Factory {
	return func(cb Callback, opts Options) (Feed, error) {
		if _, err := ParseMargin(opts.RootMargin); err != nil {
			return nil, err
		}
		if _, err := normalizeThresholds(opts.Thresholds); err != nil {
			return nil, err
		}
		f := &ManualFeed{cb: cb, Options: opts}
		m.Feeds = append(m.Feeds, f)
		return f, nil
	}
}

// Observed returns the union of targets observed by live feeds.
func (m *Manual) Observed() []*html.Node {
	var out []*html.Node
	for _, f := range m.Feeds {
		if f.Disconnected {
			continue
		}
		for _, t := range f.Targets {
			if !slices.Contains(out, t) {
				out = append(out, t)
			}
		}
	}
	return out
}

// Deliver sends one batch to every live feed that observes all of its
// targets.
func (m *Manual) Deliver(entries ...Entry) {
	for _, f := range m.Feeds {
		if f.Disconnected {
			continue
		}
		if slices.ContainsFunc(entries, func(e Entry) bool { return !slices.Contains(f.Targets, e.Target) }) {
			continue
		}
		f.Deliver(entries...)
	}
}

// ManualFeed is a Feed created by Manual.
type ManualFeed struct {
	Options      Options
	Targets      []*html.Node
	Disconnected bool

	cb Callback
}

func (f *ManualFeed) Observe(target *html.Node) {
	if !slices.Contains(f.Targets, target) {
		f.Targets = append(f.Targets, target)
	}
}

func (f *ManualFeed) Unobserve(target *html.Node) {
	f.Targets = slices.DeleteFunc(f.Targets, func(n *html.Node) bool { return n == target })
}

func (f *ManualFeed) Disconnect() {
	f.Targets = nil
	f.Disconnected = true
}

// Deliver invokes the feed callback with entries as one batch.
func (f *ManualFeed) Deliver(entries ...Entry) {
	f.cb(entries)
}

// Visible is shorthand for a fully visible, intersecting entry.
func Visible(target *html.Node) Entry {
	return Entry{Target: target, Ratio: 1, Intersecting: true}
}

// Hidden is shorthand for a non-intersecting entry.
func Hidden(target *html.Node) Entry {
	return Entry{Target: target}
}
