// Package observer defines the viewport-intersection feed consumed by the
// in-page navigation, and ships two hosts for it: a geometric Viewport and a
// hand-driven Manual feed.
package observer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// Entry is one notification in a batch.
type Entry struct {
	Target       *html.Node
	Ratio        float64 // 0.0 - 1.0
	Intersecting bool
}

// Callback receives a batch of entries. Batches are delivered one at a time
// on the caller's goroutine.
type Callback func([]Entry)

// Options mirrors the host observer configuration.
type Options struct {
	Root       *html.Node // nil means the viewport
	RootMargin string     // CSS margin shorthand, e.g. "0px 0px -85% 0px"
	Thresholds []float64
}

// Feed is a live observer registration.
type Feed interface {
	Observe(target *html.Node)
	Unobserve(target *html.Node)
	Disconnect()
}

// Factory creates a Feed that reports to cb.
type Factory func(cb Callback, opts Options) (Feed, error)

// ErrInvalidOptions is wrapped by every option validation failure.
var ErrInvalidOptions = errors.New("observer: invalid options")

// Length is a single margin component in pixels or percent.
type Length struct {
	Value   float64
	Percent bool
}

// Resolve converts l to pixels against base.
func (l Length) Resolve(base float64) float64 {
	if l.Percent {
		return base * l.Value / 100
	}
	return l.Value
}

// Margin is a parsed root margin.
type Margin struct {
	Top, Right, Bottom, Left Length
}

// ParseMargin parses a CSS margin shorthand of one to four px or % values.
// An empty string is a zero margin.
func ParseMargin(s string) (Margin, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return Margin{}, nil
	}
	if len(fields) > 4 {
		return Margin{}, fmt.Errorf("%w: root margin %q has %d values", ErrInvalidOptions, s, len(fields))
	}
	vals := make([]Length, len(fields))
	for i, f := range fields {
		l, err := parseLength(f)
		if err != nil {
			return Margin{}, fmt.Errorf("%w: root margin %q: %v", ErrInvalidOptions, s, err)
		}
		vals[i] = l
	}
	switch len(vals) {
	case 1:
		return Margin{vals[0], vals[0], vals[0], vals[0]}, nil
	case 2:
		return Margin{vals[0], vals[1], vals[0], vals[1]}, nil
	case 3:
		return Margin{vals[0], vals[1], vals[2], vals[1]}, nil
	default:
		return Margin{vals[0], vals[1], vals[2], vals[3]}, nil
	}
}

func parseLength(s string) (Length, error) {
	var l Length
	num := s
	switch {
	case strings.HasSuffix(s, "%"):
		l.Percent = true
		num = strings.TrimSuffix(s, "%")
	case strings.HasSuffix(s, "px"):
		num = strings.TrimSuffix(s, "px")
	case s != "0":
		return l, fmt.Errorf("length %q must be in px or %%", s)
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return l, fmt.Errorf("length %q: %w", s, err)
	}
	l.Value = v
	return l, nil
}

// normalizeThresholds validates thresholds and applies the [0] default.
func normalizeThresholds(ts []float64) ([]float64, error) {
	if len(ts) == 0 {
		return []float64{0}, nil
	}
	for _, t := range ts {
		if t < 0 || t > 1 {
			return nil, fmt.Errorf("%w: threshold %v outside [0, 1]", ErrInvalidOptions, t)
		}
	}
	return ts, nil
}

// crossed reports whether moving from prev to cur crosses any threshold.
// A zero threshold is crossed whenever the intersecting flag changes.
func crossed(thresholds []float64, prev, cur Entry) bool {
	if prev.Intersecting != cur.Intersecting {
		return true
	}
	for _, t := range thresholds {
		if t == 0 {
			continue
		}
		if (prev.Ratio >= t) != (cur.Ratio >= t) {
			return true
		}
	}
	return false
}
