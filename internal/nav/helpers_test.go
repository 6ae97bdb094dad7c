package nav

import (
	"io"
	"log/slog"
	"testing"

	"github.com/dgallion1/pagenav/internal/dom"
	"github.com/dgallion1/pagenav/internal/observer"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

const samplePage = `<!DOCTYPE html>
<html><body>
<div class="usa-in-page-nav-container">
  <aside class="usa-in-page-nav" id="nav-a"></aside>
  <main id="main-content">
    <h1>Page title</h1>
    <h2>Intro</h2>
    <p>Intro text.</p>
    <h3>Details</h3>
    <p>Details text.</p>
    <h2>Usage</h2>
    <p>Usage text.</p>
  </main>
</div>
</body></html>`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type recordingScroller struct {
	targets []*html.Node
}

func (r *recordingScroller) ScrollTo(n *html.Node) {
	r.targets = append(r.targets, n)
}

type fixture struct {
	doc      *dom.Document
	comp     *Component
	host     *observer.Manual
	scroller *recordingScroller
	panels   []*Panel
}

func newFixture(t *testing.T, page string, opts ...Option) *fixture {
	t.Helper()
	doc, err := dom.ParseString(page)
	require.NoError(t, err)

	f := &fixture{doc: doc, host: observer.NewManual(), scroller: &recordingScroller{}}
	opts = append([]Option{WithLogger(discardLogger())}, opts...)
	f.comp = New(doc, f.host.Factory(), f.scroller, opts...)
	f.panels, err = f.comp.Init(doc.Root())
	require.NoError(t, err)
	return f
}

// currentCount counts links carrying the current class anywhere in the
// document.
func (f *fixture) currentCount() int {
	return len(f.doc.QueryAll("." + f.comp.CurrentClass()))
}

func (f *fixture) marker(t *testing.T, id string) *html.Node {
	t.Helper()
	m := f.doc.GetElementByID(id)
	require.NotNil(t, m, "marker %s", id)
	return m
}

func isCurrent(l *NavLink) bool {
	return dom.HasClass(l.Node, DefaultPrefix+"-current")
}
