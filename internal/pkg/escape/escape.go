// Package escape encodes user controlled strings for embedding in HTML.
package escape

import "strings"

var htmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// HTML returns s with &, <, >, " and ' replaced by entities. It is safe for
// element content and quoted attribute values.
func HTML(s string) string {
	return htmlReplacer.Replace(s)
}
