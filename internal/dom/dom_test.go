package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

const page = `<!DOCTYPE html>
<html><body>
<div class="nav-host" data-title="Contents"></div>
<main>
  <h2 id="a">Alpha</h2>
  <p>text</p>
  <h3>Beta <em>nested</em></h3>
  <h2>Gamma</h2>
</main>
<h2>Outside</h2>
</body></html>`

func mustParse(t *testing.T, s string) *Document {
	t.Helper()
	doc, err := ParseString(s)
	require.NoError(t, err)
	return doc
}

func TestQueryAll_DocumentOrder(t *testing.T) {
	doc := mustParse(t, page)

	nodes := doc.QueryAll("main h2, main h3")
	require.Len(t, nodes, 3)
	assert.Equal(t, "Alpha", TextContent(nodes[0]))
	assert.Equal(t, "Beta nested", TextContent(nodes[1]))
	assert.Equal(t, "Gamma", TextContent(nodes[2]))
}

func TestQueryAll_InvalidSelectorMatchesNothing(t *testing.T) {
	doc := mustParse(t, page)
	assert.Empty(t, doc.QueryAll("main >>> h2["))
}

func TestSelectOrMatches(t *testing.T) {
	doc := mustParse(t, page)
	host := doc.Query(".nav-host")
	require.NotNil(t, host)

	assert.Equal(t, []*html.Node{host}, SelectOrMatches(host, ".nav-host"))
	assert.Equal(t, []*html.Node{host}, SelectOrMatches(doc.Body(), ".nav-host"))
	assert.Empty(t, SelectOrMatches(nil, ".nav-host"))
}

func TestClosest(t *testing.T) {
	doc := mustParse(t, page)
	em := doc.Query("em")
	require.NotNil(t, em)

	assert.Equal(t, "h3", Closest(em, "h2, h3").Data)
	assert.Equal(t, "main", Closest(em, "main").Data)
	assert.Nil(t, Closest(em, "nav"))
}

func TestAttributesAndClasses(t *testing.T) {
	n := CreateElement("A")
	assert.Equal(t, "a", n.Data)

	SetAttr(n, "href", "#x")
	SetAttr(n, "href", "#y")
	v, ok := Attr(n, "href")
	assert.True(t, ok)
	assert.Equal(t, "#y", v)
	assert.Len(t, n.Attr, 1)

	AddClass(n, "one")
	AddClass(n, "two")
	AddClass(n, "one")
	assert.Equal(t, []string{"one", "two"}, Classes(n))
	assert.True(t, HasClass(n, "two"))

	RemoveClass(n, "one")
	assert.Equal(t, []string{"two"}, Classes(n))
	RemoveClass(n, "two")
	_, ok = Attr(n, "class")
	assert.False(t, ok, "empty class attribute should be dropped")

	RemoveAttr(n, "href")
	assert.Equal(t, "fallback", AttrOr(n, "href", "fallback"))
}

func TestDataset(t *testing.T) {
	doc := mustParse(t, page)
	host := doc.Query(".nav-host")
	assert.Equal(t, "Contents", Dataset(host, "title"))
	assert.Equal(t, "", Dataset(host, "heading-level"))
}

func TestPrependAndSetText(t *testing.T) {
	doc := mustParse(t, page)
	h2 := doc.GetElementByID("a")
	require.NotNil(t, h2)

	marker := CreateElement("a")
	SetAttr(marker, "id", "section_0")
	Prepend(h2, marker)

	assert.Equal(t, marker, h2.FirstChild)
	assert.Equal(t, marker, doc.GetElementByID("section_0"))
	assert.Equal(t, "Alpha", TextContent(h2))

	SetText(h2, "Replaced")
	assert.Equal(t, "Replaced", TextContent(h2))
	assert.Nil(t, doc.GetElementByID("section_0"))
	assert.False(t, doc.Contains(marker))
}

func TestRender(t *testing.T) {
	doc := mustParse(t, `<p>a &amp; b</p>`)
	assert.Contains(t, doc.String(), "<p>a &amp; b</p>")
	assert.Equal(t, "<p>a &amp; b</p>", OuterHTML(doc.Query("p")))
}
