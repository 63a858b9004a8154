package middleware

import (
	"net/http"
	"runtime/debug"

	"dairy-farm-management/internal/platform/logger"
)

// Recover reemplaza a chimw.Recoverer para loguear con nuestro logger.
func Recover(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				logger.From(r.Context(), log).Error("panic recovered", map[string]any{
					"panic": rec,
					"stack": string(debug.Stack()),
				})

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"detail":"internal error"}` + "\n"))
			}()

			next.ServeHTTP(w, r)
		})
	}
}
