package nav

import (
	"fmt"
	"strings"
)

// Scope controls how far the "current" indicator invariant reaches.
type Scope string

const (
	// ScopeDocument keeps at most one current link in the whole document,
	// whichever panel it belongs to.
	ScopeDocument Scope = "document"
	// ScopePanel keeps at most one current link per panel.
	ScopePanel Scope = "panel"
)

// Defaults for Config.
const (
	DefaultPrefix       = "usa"
	DefaultTitle        = "On this page"
	DefaultHeadingLevel = "h4"
	DefaultMainSelector = "main"
	DefaultTopRank      = "h2"
	DefaultSubRank      = "h3"
)

// Intersection options are fixed: a marker only counts as in view once it is
// fully inside the top 15% of the viewport.
const RootMargin = "0px 0px -85% 0px"

// Thresholds returns the fixed threshold list handed to the feed.
func Thresholds() []float64 { return []float64{1} }

// Config holds document-wide settings. Per-instance overrides come from the
// container's data-title and data-heading-level attributes.
type Config struct {
	Prefix       string
	Title        string
	HeadingLevel string
	MainSelector string
	TopRank      string
	SubRank      string
	Scope        Scope
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return Config{
		Prefix:       DefaultPrefix,
		Title:        DefaultTitle,
		HeadingLevel: DefaultHeadingLevel,
		MainSelector: DefaultMainSelector,
		TopRank:      DefaultTopRank,
		SubRank:      DefaultSubRank,
		Scope:        ScopeDocument,
	}
}

// withDefaults fills empty fields.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Prefix == "" {
		c.Prefix = d.Prefix
	}
	if c.Title == "" {
		c.Title = d.Title
	}
	if c.HeadingLevel == "" {
		c.HeadingLevel = d.HeadingLevel
	}
	if c.MainSelector == "" {
		c.MainSelector = d.MainSelector
	}
	if c.TopRank == "" {
		c.TopRank = d.TopRank
	}
	if c.SubRank == "" {
		c.SubRank = d.SubRank
	}
	if c.Scope == "" {
		c.Scope = d.Scope
	}
	c.HeadingLevel = strings.ToLower(c.HeadingLevel)
	c.TopRank = strings.ToLower(c.TopRank)
	c.SubRank = strings.ToLower(c.SubRank)
	return c
}

// Validate checks the configuration after defaults are applied.
func (c Config) Validate() error {
	c = c.withDefaults()
	if !IsHeadingTag(c.HeadingLevel) {
		return fmt.Errorf("%w: heading level %q", ErrHeadingLevel, c.HeadingLevel)
	}
	if !IsHeadingTag(c.TopRank) || !IsHeadingTag(c.SubRank) {
		return fmt.Errorf("%w: section ranks %q/%q", ErrHeadingLevel, c.TopRank, c.SubRank)
	}
	if c.TopRank == c.SubRank {
		return fmt.Errorf("top and sub rank must differ, both are %q", c.TopRank)
	}
	switch c.Scope {
	case ScopeDocument, ScopePanel:
	default:
		return fmt.Errorf("invalid scope %q: must be document or panel", c.Scope)
	}
	return nil
}

// IsHeadingTag reports whether tag is h1..h6.
func IsHeadingTag(tag string) bool {
	return len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6'
}

// classes are the generated class names for one prefix.
type classes struct {
	current string
	nav     string
	anchor  string
	list    string
	item    string
	subItem string
	link    string
	heading string
}

func newClasses(prefix string) classes {
	nav := prefix + "-in-page-nav"
	return classes{
		current: prefix + "-current",
		nav:     nav,
		anchor:  prefix + "-anchor",
		list:    nav + "__list",
		item:    nav + "__item",
		subItem: nav + "__item--sub-item",
		link:    nav + "__link",
		heading: nav + "__heading",
	}
}
