// Package covers resolves book ISBNs to cover image references and proxies
// the actual fetch to the Open Library covers service, insulating pages from
// third-party failures.
package covers

// PlaceholderURL is the fixed fallback shown for books without an ISBN.
const PlaceholderURL = "/static/cover-placeholder.svg"

// URL resolves an ISBN to a dereferenceable cover reference. Books without
// an ISBN share the placeholder; everything else goes through the proxy
// endpoint so the browser never talks to the third-party service directly.
func URL(isbn *string) string {
	if isbn == nil || *isbn == "" {
		return PlaceholderURL
	}
	return "/api/covers/isbn/" + *isbn
}
