package format

import (
	"golang.org/x/text/collate"
)

// TextComparer returns a locale-aware string comparison for locale. The
// returned function is not safe for concurrent use; callers create one per
// sort pass.
func TextComparer(locale string) func(a, b string) int {
	c := collate.New(parseLocale(locale))
	return c.CompareString
}
