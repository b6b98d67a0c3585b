// Package assets holds the browser shim and stylesheet served under /assets.
package assets

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var static embed.FS

// FS returns the asset tree rooted at static/
func FS() http.FileSystem {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		// static/ is embedded above, so this cannot fail.
		panic(err)
	}
	return http.FS(sub)
}
