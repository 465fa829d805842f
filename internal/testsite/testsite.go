// Package testsite serves the HTML fixture pages used by scout's tests.
//
// Pages:
//   - examples.html: a heading "Available Examples" followed by a link list
//   - list.html: a static todo list; "a" is completed, "d" is hidden
//   - todos.html: a scripted todo app; Enter in #new-todo adds an item after
//     a short delay, checking an item marks it completed
package testsite

import (
	"embed"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"testing"
)

//go:embed pages/*.html
var pages embed.FS

// Page returns the content of a fixture page. Unknown names panic.
func Page(name string) string {
	data, err := pages.ReadFile("pages/" + name)
	if err != nil {
		panic("testsite: unknown page " + name)
	}
	return string(data)
}

// Handler serves the fixture pages at /<name>.
func Handler() http.Handler {
	sub, err := fs.Sub(pages, "pages")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}

// Serve starts a test server for the fixture pages and returns its base URL.
// The server is closed via t.Cleanup.
func Serve(t testing.TB) string {
	t.Helper()
	srv := httptest.NewServer(Handler())
	t.Cleanup(srv.Close)
	return srv.URL
}
