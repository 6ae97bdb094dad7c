package dom

import (
	"slices"

	"golang.org/x/net/html"
)

// Event types used by the navigation component.
const (
	EventClick   = "click"
	EventKeyDown = "keydown"
	EventFocus   = "focus"
	EventBlur    = "blur"
)

// Event is a dispatched UI event.
type Event struct {
	Type string
	Key  string // keydown only, e.g. "Enter"

	Target        *html.Node
	CurrentTarget *html.Node

	bubbles          bool
	defaultPrevented bool
	stopped          bool
}

// NewEvent creates a bubbling event aimed at target.
func NewEvent(typ string, target *html.Node) *Event {
	return &Event{Type: typ, Target: target, bubbles: true}
}

// NewKeyEvent creates a bubbling keydown event.
func NewKeyEvent(key string, target *html.Node) *Event {
	ev := NewEvent(EventKeyDown, target)
	ev.Key = key
	return ev
}

// PreventDefault suppresses the host's default action for the event.
func (e *Event) PreventDefault() { e.defaultPrevented = true }

// DefaultPrevented reports whether a listener called PreventDefault.
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// StopPropagation stops the event from reaching further ancestors.
func (e *Event) StopPropagation() { e.stopped = true }

// Listener handles an event.
type Listener func(*Event)

// Subscription is the handle returned when a listener is registered.
type Subscription struct {
	doc       *Document
	node      *html.Node
	typ       string
	fn        Listener
	once      bool
	cancelled bool
}

// Cancel removes the listener. Cancelling twice is harmless.
func (s *Subscription) Cancel() {
	if s == nil || s.cancelled {
		return
	}
	s.cancelled = true
	byType := s.doc.listeners[s.node]
	if byType == nil {
		return
	}
	byType[s.typ] = slices.DeleteFunc(byType[s.typ], func(o *Subscription) bool { return o == s })
	if len(byType[s.typ]) == 0 {
		delete(byType, s.typ)
	}
	if len(byType) == 0 {
		delete(s.doc.listeners, s.node)
	}
}

// Active reports whether the listener is still registered.
func (s *Subscription) Active() bool { return s != nil && !s.cancelled }

// AddEventListener registers fn for events of typ reaching n.
func (d *Document) AddEventListener(n *html.Node, typ string, fn Listener) *Subscription {
	return d.listen(n, typ, fn, false)
}

// Once registers fn for the next event of typ on n only; the subscription
// removes itself before fn runs.
func (d *Document) Once(n *html.Node, typ string, fn Listener) *Subscription {
	return d.listen(n, typ, fn, true)
}

func (d *Document) listen(n *html.Node, typ string, fn Listener, once bool) *Subscription {
	s := &Subscription{doc: d, node: n, typ: typ, fn: fn, once: once}
	byType := d.listeners[n]
	if byType == nil {
		byType = make(map[string][]*Subscription)
		d.listeners[n] = byType
	}
	byType[typ] = append(byType[typ], s)
	return s
}

// ListenerCount returns the number of active listeners of typ on n.
func (d *Document) ListenerCount(n *html.Node, typ string) int {
	return len(d.listeners[n][typ])
}

// Dispatch delivers ev to its target and, for bubbling events, to each
// ancestor in turn. It returns false when a listener prevented the default
// action.
func (d *Document) Dispatch(ev *Event) bool {
	for n := ev.Target; n != nil; n = n.Parent {
		ev.CurrentTarget = n
		for _, s := range slices.Clone(d.listeners[n][ev.Type]) {
			if s.cancelled {
				continue
			}
			if s.once {
				s.Cancel()
			}
			s.fn(ev)
		}
		if ev.stopped || !ev.bubbles {
			break
		}
	}
	ev.CurrentTarget = nil
	return !ev.defaultPrevented
}

// ActiveElement returns the focused element, or nil.
func (d *Document) ActiveElement() *html.Node { return d.focused }

// Focusable reports whether n can receive focus: it carries a tabindex or is
// a natively focusable control.
func Focusable(n *html.Node) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	if _, ok := Attr(n, "tabindex"); ok {
		return true
	}
	switch n.Data {
	case "button", "input", "select", "textarea":
		return true
	case "a":
		_, ok := Attr(n, "href")
		return ok
	}
	return false
}

// Focus moves focus to n. The previously focused element receives a blur
// event first. Focus returns false and changes nothing when n is not
// focusable.
func (d *Document) Focus(n *html.Node) bool {
	if !Focusable(n) {
		return false
	}
	if d.focused == n {
		return true
	}
	prev := d.focused
	d.focused = n
	if prev != nil {
		d.Dispatch(&Event{Type: EventBlur, Target: prev})
	}
	d.Dispatch(&Event{Type: EventFocus, Target: n})
	return true
}

// Blur clears focus, firing blur on the element that had it.
func (d *Document) Blur() {
	prev := d.focused
	if prev == nil {
		return
	}
	d.focused = nil
	d.Dispatch(&Event{Type: EventBlur, Target: prev})
}
