// Package testhelpers provides a stand-in weather provider for tests that need real HTTP.
package testhelpers

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// SamplePayload is a trimmed current-weather response for London.
const SamplePayload = `{
  "coord": {"lon": -0.1257, "lat": 51.5085},
  "weather": [{"id": 802, "main": "Clouds", "description": "scattered clouds", "icon": "03d"}],
  "main": {"temp": 293.15, "feels_like": 292.0, "temp_min": 291.0, "temp_max": 295.0, "pressure": 1012, "humidity": 56},
  "wind": {"speed": 4.1, "deg": 250},
  "sys": {"country": "GB", "sunrise": 1717214400, "sunset": 1717273800},
  "name": "London",
  "cod": 200
}`

// FakeProvider is an httptest server that answers every request with a fixed status and body
// and remembers the query of each request.
type FakeProvider struct {
	*httptest.Server

	mu      sync.Mutex
	status  int
	body    string
	queries []string
	keys    []string
}

// NewFakeProvider starts a provider answering 200 with SamplePayload. It is closed on test cleanup.
func NewFakeProvider(t testing.TB) *FakeProvider {
	t.Helper()
	p := &FakeProvider{status: http.StatusOK, body: SamplePayload}
	p.Server = httptest.NewServer(http.HandlerFunc(p.serve))
	t.Cleanup(p.Close)
	return p
}

// Respond changes the status and body returned from now on.
func (p *FakeProvider) Respond(status int, body string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status = status
	p.body = body
}

// Queries returns the q parameter of every request received.
func (p *FakeProvider) Queries() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.queries...)
}

// Keys returns the appid parameter of every request received.
func (p *FakeProvider) Keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.keys...)
}

func (p *FakeProvider) serve(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	p.queries = append(p.queries, r.URL.Query().Get("q"))
	p.keys = append(p.keys, r.URL.Query().Get("appid"))
	status, body := p.status, p.body
	p.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
