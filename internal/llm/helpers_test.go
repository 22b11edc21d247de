package llm_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// capture records the last request a fake API server received.
type capture struct {
	mu   sync.Mutex
	path string
	body map[string]any
	auth string
}

func (c *capture) snapshot() (string, map[string]any, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.path, c.body, c.auth
}

// newAPIServer returns an httptest server that answers every request with
// status and the JSON encoding of resp, recording the request.
func newAPIServer(t *testing.T, status int, resp any) (*httptest.Server, *capture) {
	t.Helper()
	c := &capture{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)

		c.mu.Lock()
		c.path = r.URL.Path
		c.body = body
		c.auth = r.Header.Get("Authorization")
		if c.auth == "" {
			c.auth = r.Header.Get("X-Api-Key")
		}
		c.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv, c
}
