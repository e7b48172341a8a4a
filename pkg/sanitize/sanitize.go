// Package sanitize cleans stored markup before it is rendered. The store
// accepts arbitrary content, so everything coming back from it is treated as
// untrusted-origin HTML.
package sanitize

import "github.com/microcosm-cc/bluemonday"

var policy = bluemonday.UGCPolicy()

// HTML strips scripts, event handlers, and other unsafe markup while keeping
// the rich-text formatting tags a document legitimately uses.
func HTML(markup string) string {
	return policy.Sanitize(markup)
}
