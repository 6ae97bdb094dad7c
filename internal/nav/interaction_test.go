package nav

import (
	"testing"

	"github.com/dgallion1/pagenav/internal/dom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClick_ScrollsToMarkerAndPreventsDefault(t *testing.T) {
	f := newFixture(t, samplePage)
	link := f.panels[0].Links[1]

	proceed := f.doc.Dispatch(dom.NewEvent(dom.EventClick, link.Node.FirstChild))

	assert.False(t, proceed, "default navigation is suppressed")
	require.Len(t, f.scroller.targets, 1)
	assert.Equal(t, f.marker(t, "section_1"), f.scroller.targets[0])
	assert.Equal(t, 0, f.currentCount(), "click alone does not move the indicator")
}

func TestClick_DisabledLinkIsIgnored(t *testing.T) {
	f := newFixture(t, samplePage)
	a := f.panels[0].Links[0].Node
	dom.SetAttr(a, "aria-disabled", "true")

	proceed := f.doc.Dispatch(dom.NewEvent(dom.EventClick, a))

	assert.False(t, proceed)
	assert.Empty(t, f.scroller.targets)

	dom.RemoveAttr(a, "aria-disabled")
	dom.SetAttr(a, "disabled", "")
	f.doc.Dispatch(dom.NewEvent(dom.EventClick, a))
	assert.Empty(t, f.scroller.targets)
}

func TestClick_MissingAnchorReportsError(t *testing.T) {
	f := newFixture(t, samplePage)
	a := f.panels[0].Links[0].Node
	dom.SetAttr(a, "href", "#nowhere")

	err := f.comp.HandleEvent(dom.NewEvent(dom.EventClick, a))
	assert.ErrorIs(t, err, ErrAnchorNotFound)
	assert.Empty(t, f.scroller.targets)

	assert.NotPanics(t, func() {
		f.doc.Dispatch(dom.NewEvent(dom.EventClick, a))
	})
}

func TestClick_OutsideNavIsIgnored(t *testing.T) {
	f := newFixture(t, samplePage)

	proceed := f.doc.Dispatch(dom.NewEvent(dom.EventClick, f.doc.Query("main p")))

	assert.True(t, proceed)
	assert.Empty(t, f.scroller.targets)
}

func TestEnter_FocusesSectionUntilBlur(t *testing.T) {
	f := newFixture(t, samplePage)
	link := f.panels[0].Links[2]
	section := f.panels[0].Sections[2].Heading
	f.doc.Focus(link.Node)

	f.doc.Dispatch(dom.NewKeyEvent("Enter", link.Node))

	assert.Equal(t, section, f.doc.ActiveElement())
	tabindex, _ := dom.Attr(section, "tabindex")
	assert.Equal(t, "0", tabindex)
	require.Len(t, f.scroller.targets, 1)
	assert.Equal(t, section, f.scroller.targets[0])
	assert.Equal(t, 1, f.doc.ListenerCount(section, dom.EventBlur))

	f.doc.Focus(link.Node)

	tabindex, _ = dom.Attr(section, "tabindex")
	assert.Equal(t, "-1", tabindex)
	assert.Equal(t, 0, f.doc.ListenerCount(section, dom.EventBlur))

	f.doc.Focus(section)
	f.doc.Blur()
	tabindex, _ = dom.Attr(section, "tabindex")
	assert.Equal(t, "-1", tabindex, "cleanup runs once")
}

func TestEnter_TwiceBeforeBlurCleansUpOnce(t *testing.T) {
	f := newFixture(t, samplePage)
	link := f.panels[0].Links[0]
	section := f.panels[0].Sections[0].Heading

	f.doc.Dispatch(dom.NewKeyEvent("Enter", link.Node))
	f.doc.Dispatch(dom.NewKeyEvent("Enter", link.Node))

	assert.Equal(t, 1, f.doc.ListenerCount(section, dom.EventBlur))
	assert.Len(t, f.scroller.targets, 2)

	f.doc.Blur()
	tabindex, _ := dom.Attr(section, "tabindex")
	assert.Equal(t, "-1", tabindex)
	assert.Equal(t, 0, f.doc.ListenerCount(section, dom.EventBlur))
}

func TestKeyDown_OtherKeysDoNothing(t *testing.T) {
	f := newFixture(t, samplePage)
	link := f.panels[0].Links[0]

	for _, key := range []string{" ", "Tab", "ArrowDown", "a"} {
		proceed := f.doc.Dispatch(dom.NewKeyEvent(key, link.Node))
		assert.True(t, proceed, key)
	}
	assert.Empty(t, f.scroller.targets)
	assert.Nil(t, f.doc.ActiveElement())
	_, ok := dom.Attr(f.panels[0].Sections[0].Heading, "tabindex")
	assert.False(t, ok)
}

func TestEnter_DetachedAnchor(t *testing.T) {
	f := newFixture(t, samplePage)
	link := f.panels[0].Links[1]
	dom.Remove(f.marker(t, "section_1"))

	err := f.comp.HandleEvent(dom.NewKeyEvent("Enter", link.Node))

	assert.ErrorIs(t, err, ErrDetachedAnchor)
	assert.Empty(t, f.scroller.targets)
	assert.Nil(t, f.doc.ActiveElement())
}

func TestFragmentID(t *testing.T) {
	for href, want := range map[string]string{
		"#section_3":           "section_3",
		"page.html#section_0":  "section_0",
		"section_1":            "section_1",
		"":                     "",
	} {
		a := dom.CreateElement("a")
		dom.SetAttr(a, "href", href)
		assert.Equal(t, want, fragmentID(a), href)
	}
}

func TestClose_StopsHandlingEvents(t *testing.T) {
	f := newFixture(t, samplePage)
	link := f.panels[0].Links[0].Node

	f.comp.Close()
	proceed := f.doc.Dispatch(dom.NewEvent(dom.EventClick, link))

	assert.True(t, proceed)
	assert.Empty(t, f.scroller.targets)
}
