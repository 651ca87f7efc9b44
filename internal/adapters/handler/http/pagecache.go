package http

import (
	"bytes"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/pollbox/api/internal/core/ports"
)

const pageCacheTTL = 30 * time.Second

// CachedPage serves GET responses from the page cache keyed by logical
// path (the request path without the /api prefix, matching the paths the
// services invalidate). Only successful responses are stored. A nil cache
// turns the middleware into a pass-through.
func CachedPage(cache ports.PageCache) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cache == nil || r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			path := strings.TrimPrefix(r.URL.Path, "/api")

			if body, err := cache.Get(r.Context(), path); err != nil {
				log.Printf("error reading page cache for %s: %v", path, err)
			} else if body != nil {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("X-Cache", "HIT")
				w.Write(body)
				return
			}

			rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			if rec.status == http.StatusOK {
				if err := cache.Set(r.Context(), path, rec.body.Bytes(), pageCacheTTL); err != nil {
					log.Printf("error writing page cache for %s: %v", path, err)
				}
			}
		})
	}
}

type responseRecorder struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}
