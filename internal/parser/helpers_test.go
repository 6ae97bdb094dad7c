package parser

import (
	"testing"

	"github.com/dgallion1/pagenav/internal/dom"
)

// texts returns the text content of every node matching selector.
func texts(doc *dom.Document, selector string) []string {
	var out []string
	for _, n := range doc.QueryAll(selector) {
		out = append(out, dom.TextContent(n))
	}
	return out
}

func assertTexts(t *testing.T, doc *dom.Document, selector string, want ...string) {
	t.Helper()
	got := texts(doc, selector)
	if len(got) != len(want) {
		t.Fatalf("%s: expected %d matches %q, got %d %q", selector, len(want), want, len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s[%d]: expected %q, got %q", selector, i, want[i], got[i])
		}
	}
}

func assertShell(t *testing.T, doc *dom.Document) {
	t.Helper()
	if doc.Query(".usa-in-page-nav-container > aside.usa-in-page-nav") == nil {
		t.Fatalf("expected nav container in shell, got %s", doc.String())
	}
	if doc.Query(".usa-in-page-nav-container > main#main-content") == nil {
		t.Fatalf("expected main region in shell, got %s", doc.String())
	}
}
