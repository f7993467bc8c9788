package site

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static/*
var static embed.FS

// pages is the static directory as the site root.
var pages = func() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic("site: embedded pages: " + err.Error())
	}
	return sub
}()

// Pages returns the embedded monitor pages rooted at /.
func Pages() http.FileSystem { return http.FS(pages) }
