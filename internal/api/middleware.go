// Package api implements the character catalog REST API using chi.
package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
)

// Recoverer turns a panic in a handler into a 500 APIError. It replaces
// chi's middleware.Recoverer so panics use the same body as other errors.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rvr := recover()
			if rvr == nil {
				return
			}
			if rvr == http.ErrAbortHandler {
				panic(rvr)
			}
			slog.Error("panic recovered",
				slog.String("path", r.URL.Path),
				slog.Any("panic", rvr),
				slog.String("stack", string(debug.Stack())))
			WriteError(w, r, fmt.Errorf("panic: %v", rvr))
		}()
		next.ServeHTTP(w, r)
	})
}
