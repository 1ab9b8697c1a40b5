package ports

import (
	"embed"
	"fmt"
	"net/http"
)

// ASSETS_VERSION busts browser caches when the embedded files change.
const ASSETS_VERSION = "1.0"

//go:embed assets/intralinks.css assets/intralinks.js
var assetFiles embed.FS

// MakeAssetsHandler serves the stylesheet and script referenced by the
// backlinks fragment under /assets/.
func MakeAssetsHandler() http.HandlerFunc {
	fileServer := http.FileServerFS(assetFiles)

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=86400")
		fileServer.ServeHTTP(w, r)
	}
}

func assetTags() string {
	return fmt.Sprintf(
		"<link rel='stylesheet' href='/assets/intralinks.css?ver=%s'><script src='/assets/intralinks.js?ver=%s' defer></script>",
		ASSETS_VERSION,
		ASSETS_VERSION,
	)
}
