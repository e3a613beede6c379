// Package testutils provides shared test infrastructure.
package testutils

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
)

// SchemaServer serves schema files over HTTP and counts requests per path.
type SchemaServer struct {
	*httptest.Server

	mu       sync.Mutex
	files    map[string][]byte
	requests map[string]*atomic.Int32
}

// StartSchemaServer starts an HTTP server serving the given files, keyed by
// path (with leading slash). Unknown paths return 404.
func StartSchemaServer(t *testing.T, files map[string][]byte) *SchemaServer {
	t.Helper()

	s := &SchemaServer{
		files:    files,
		requests: make(map[string]*atomic.Int32),
	}

	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.counter(r.URL.Path).Add(1)

		data, ok := s.files[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	}))
	t.Cleanup(s.Close)

	return s
}

// Requests returns how many times path has been requested.
func (s *SchemaServer) Requests(path string) int {
	return int(s.counter(path).Load())
}

func (s *SchemaServer) counter(path string) *atomic.Int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.requests[path]
	if !ok {
		c = &atomic.Int32{}
		s.requests[path] = c
	}
	return c
}

// StartFlakyServer starts an HTTP server that answers the first failures
// requests with the given status code before serving data with 200. It
// returns the server and a counter of total requests seen.
func StartFlakyServer(t *testing.T, failures int, status int, data []byte) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := requests.Add(1)
		if int(n) <= failures {
			w.WriteHeader(status)
			return
		}
		w.Write(data)
	}))
	t.Cleanup(server.Close)

	return server, &requests
}
