package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog"

	"github.com/pollentracker/pollentracker/internal/api/models"
)

// Recovery converts a handler panic into a problem response so one bad
// request cannot take the server down. The stack is logged, never sent
// to the client.
func Recovery(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				writePanicResponse(w, r, log, rec)
			}()

			next.ServeHTTP(w, r)
		})
	}
}

func writePanicResponse(w http.ResponseWriter, r *http.Request, log zerolog.Logger, rec interface{}) {
	requestID := GetRequestID(r.Context())

	log.Error().
		Str("request_id", requestID).
		Str("path", r.URL.Path).
		Interface("panic", rec).
		Str("stack", string(debug.Stack())).
		Msg("handler panicked")

	problem := models.NewInternalError(requestID, "an unexpected error occurred")
	problem.Instance = r.URL.Path
	problem.Write(w)
}
