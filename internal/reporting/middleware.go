package reporting

import "net/http"

// NewAddMetaMiddleware tags every report from a handler with the port that
// served the request.
func NewAddMetaMiddleware(port string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			ctx := AddTagsToContext(r.Context(), map[string]string{
				"port": port,
			})
			next(w, r.WithContext(ctx))
		}
	}
}
