package nav

import "errors"

var (
	// ErrLinkNotFound means an observed marker id has no registered link.
	ErrLinkNotFound = errors.New("in-page nav: no link for section")
	// ErrAnchorNotFound means a link fragment has no registered marker.
	ErrAnchorNotFound = errors.New("in-page nav: no anchor for fragment")
	// ErrDetachedAnchor means a marker has no parent section element.
	ErrDetachedAnchor = errors.New("in-page nav: anchor has no section")
	// ErrHeadingLevel rejects a heading tag outside h1..h6.
	ErrHeadingLevel = errors.New("in-page nav: invalid heading level")
)
