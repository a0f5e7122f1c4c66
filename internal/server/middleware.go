package server

import (
	"net/http"
	"time"
)

// requireAPIKey guards the mutating routes: the widget must present the
// configured key in X-API-Key. Reads stay open.
func (s *Server) requireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch key := r.Header.Get("X-API-Key"); {
		case key == "":
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing API key"})
		case key != s.apiKey:
			writeJSON(w, http.StatusForbidden, map[string]string{"error": "invalid API key"})
		default:
			next.ServeHTTP(w, r)
		}
	})
}

// logRequests emits one line per request with the status the handler ended
// up writing.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lw := &loggingWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(lw, r)
		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", lw.status,
			"duration", time.Since(start).String(),
		)
	})
}

// allowWidgetOrigin answers CORS preflights for the browser widget. The
// allowance is scoped to what the workout routes actually accept: JSON
// bodies, the API key header and the five verbs the router serves.
func allowWidgetOrigin(next http.Handler) http.Handler {
	headers := http.Header{
		"Access-Control-Allow-Origin":  {"*"},
		"Access-Control-Allow-Methods": {"GET, POST, PUT, DELETE, OPTIONS"},
		"Access-Control-Allow-Headers": {"Content-Type, X-API-Key"},
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for name, vals := range headers {
			w.Header()[name] = vals
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// loggingWriter records the status code a handler writes so logRequests can
// report it after the fact.
type loggingWriter struct {
	http.ResponseWriter
	status int
}

func (w *loggingWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
