// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	chiMid "github.com/go-chi/chi/v5/middleware"
)

// Recoverer catches panics in downstream handlers, logs the stack trace,
// and answers with a JSON 500 instead of crashing the server. The
// http.ErrAbortHandler sentinel is re-raised so net/http can drop the
// connection as intended.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			slog.Error("panic recovered",
				"error", rec,
				"method", r.Method,
				"path", r.URL.Path,
				"request_id", chiMid.GetReqID(r.Context()),
				"stack", string(debug.Stack()),
			)
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":"Internal Server Error"}` + "\n"))
		}()

		next.ServeHTTP(w, r)
	})
}
