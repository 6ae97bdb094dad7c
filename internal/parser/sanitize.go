package parser

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var pagePolicy = sync.OnceValue(func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowElements("main", "aside", "nav", "section", "article", "header", "footer")
	p.AllowNoAttrs().OnElements("main", "aside", "nav", "section", "article", "header", "footer")
	p.AllowAttrs("class", "id").Globally()
	p.AllowDataAttributes()
	return p
})

// Sanitize strips scripts, event handlers and unknown markup from uploaded
// HTML. Document structure, classes, ids and data attributes survive so the
// page can still be navigated.
func Sanitize(src []byte) []byte {
	return pagePolicy().SanitizeBytes(src)
}
