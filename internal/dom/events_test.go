package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatch_Bubbles(t *testing.T) {
	doc := mustParse(t, `<div id="outer"><p id="inner"><a id="link" href="#x">x</a></p></div>`)
	outer := doc.GetElementByID("outer")
	link := doc.GetElementByID("link")

	var order []string
	doc.AddEventListener(link, EventClick, func(ev *Event) { order = append(order, "link") })
	doc.AddEventListener(outer, EventClick, func(ev *Event) {
		order = append(order, "outer")
		assert.Equal(t, link, ev.Target)
		assert.Equal(t, outer, ev.CurrentTarget)
		ev.PreventDefault()
	})

	ok := doc.Dispatch(NewEvent(EventClick, link))
	assert.False(t, ok, "default should be prevented")
	assert.Equal(t, []string{"link", "outer"}, order)
}

func TestDispatch_StopPropagation(t *testing.T) {
	doc := mustParse(t, `<div id="outer"><a id="link" href="#x">x</a></div>`)
	outer := doc.GetElementByID("outer")
	link := doc.GetElementByID("link")

	reached := false
	doc.AddEventListener(link, EventClick, func(ev *Event) { ev.StopPropagation() })
	doc.AddEventListener(outer, EventClick, func(ev *Event) { reached = true })

	assert.True(t, doc.Dispatch(NewEvent(EventClick, link)))
	assert.False(t, reached)
}

func TestSubscription_Cancel(t *testing.T) {
	doc := mustParse(t, `<a id="link" href="#x">x</a>`)
	link := doc.GetElementByID("link")

	calls := 0
	sub := doc.AddEventListener(link, EventClick, func(*Event) { calls++ })
	doc.Dispatch(NewEvent(EventClick, link))
	sub.Cancel()
	sub.Cancel()
	doc.Dispatch(NewEvent(EventClick, link))

	assert.Equal(t, 1, calls)
	assert.False(t, sub.Active())
	assert.Equal(t, 0, doc.ListenerCount(link, EventClick))
}

func TestOnce_FiresOnlyOnce(t *testing.T) {
	doc := mustParse(t, `<a id="link" href="#x">x</a>`)
	link := doc.GetElementByID("link")

	calls := 0
	sub := doc.Once(link, EventClick, func(*Event) { calls++ })
	doc.Dispatch(NewEvent(EventClick, link))
	doc.Dispatch(NewEvent(EventClick, link))

	assert.Equal(t, 1, calls)
	assert.False(t, sub.Active())
}

func TestFocus_BlursPrevious(t *testing.T) {
	doc := mustParse(t, `<section id="s1" tabindex="0"></section><section id="s2"></section><button id="b">b</button>`)
	s1 := doc.GetElementByID("s1")
	s2 := doc.GetElementByID("s2")
	b := doc.GetElementByID("b")

	var events []string
	doc.AddEventListener(s1, EventBlur, func(*Event) { events = append(events, "s1 blur") })
	doc.AddEventListener(b, EventFocus, func(*Event) { events = append(events, "b focus") })

	require.True(t, doc.Focus(s1))
	assert.False(t, doc.Focus(s2), "section without tabindex is not focusable")
	assert.Equal(t, s1, doc.ActiveElement())

	require.True(t, doc.Focus(b))
	assert.Equal(t, []string{"s1 blur", "b focus"}, events)

	doc.Blur()
	assert.Nil(t, doc.ActiveElement())
}

func TestBlur_DoesNotBubble(t *testing.T) {
	doc := mustParse(t, `<div id="outer"><section id="s" tabindex="0"></section></div>`)
	outer := doc.GetElementByID("outer")

	bubbled := false
	doc.AddEventListener(outer, EventBlur, func(*Event) { bubbled = true })
	doc.Focus(doc.GetElementByID("s"))
	doc.Blur()

	assert.False(t, bubbled)
}
