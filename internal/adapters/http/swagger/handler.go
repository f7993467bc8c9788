// Package swagger publishes the description of the venkman ops API: the
// embedded OpenAPI document and a ReDoc page rendering it.
package swagger

import (
	"context"
	"net/http"
	"strings"
)

// Documentation routes.
const (
	DocsPath     = "/api-docs"
	DocumentPath = "/openapi.yaml"
)

// Register attaches the documentation routes to mux. Both are read-only.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("swagger: nil mux")
	}
	mux.HandleFunc(DocsPath, readOnly(serveDocs))
	mux.HandleFunc(DocumentPath, readOnly(serveDocument))
}

func serveDocs(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(docsPage))
}

func serveDocument(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
	_, _ = w.Write(OpenAPI)
}

// readOnly answers 405 to anything but GET and HEAD.
func readOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		next(w, r)
	}
}

var docsPage = strings.ReplaceAll(`<!doctype html>
<html>
  <head>
    <meta charset="utf-8">
    <title>venkman tracker server: ops API</title>
    <style>body{margin:0;padding:0}</style>
  </head>
  <body>
    <redoc id="redoc-container"></redoc>
    <script src="https://cdn.redoc.ly/redoc/latest/bundles/redoc.standalone.js"></script>
    <script>Redoc.init('{{document}}', { suppressWarnings: true }, document.getElementById('redoc-container'));</script>
  </body>
</html>`, "{{document}}", DocumentPath)
