package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/malambomutila/ai-weather-app/internal/client"
	"github.com/malambomutila/ai-weather-app/internal/models"
	"github.com/malambomutila/ai-weather-app/internal/service"
	"github.com/malambomutila/ai-weather-app/internal/testhelpers"
)

const e2eKey = "0123456789abcdef0123456789abcdef"

func newE2ERouter(t *testing.T, provider *testhelpers.FakeProvider) http.Handler {
	t.Helper()
	c, err := client.NewOpenWeatherClient(e2eKey, provider.URL, 2*time.Second)
	if err != nil {
		t.Fatalf("NewOpenWeatherClient() error = %v", err)
	}
	svc := service.NewWeatherService(c, client.DefaultIconBaseURL, 1, 100, nil)
	return NewRouter(NewHandler(svc, nil, nil), zap.NewNop(), 5*time.Second)
}

// TestE2E_GetWeather runs the real client against a local provider.
func TestE2E_GetWeather(t *testing.T) {
	provider := testhelpers.NewFakeProvider(t)
	router := newE2ERouter(t, provider)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/weather/new%20york", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var report models.Report
	if err := json.NewDecoder(w.Body).Decode(&report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if report.Reading.Description != "scattered clouds" || report.Reading.Country != "GB" {
		t.Errorf("reading = %+v", report.Reading)
	}
	if q := provider.Queries(); len(q) != 1 || q[0] != "new york" {
		t.Errorf("provider queries = %q, want [new york]", q)
	}
	if k := provider.Keys(); len(k) != 1 || k[0] != e2eKey {
		t.Errorf("provider saw key %q", k)
	}
	if strings.Contains(w.Body.String(), e2eKey) {
		t.Error("response body contains the API key")
	}
}

func TestE2E_ProviderFailures(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantCode   string
	}{
		{"404", http.StatusNotFound, `{"cod":"404","message":"city not found"}`, http.StatusNotFound, "CITY_NOT_FOUND"},
		{"401", http.StatusUnauthorized, `{"cod":401}`, http.StatusServiceUnavailable, "NETWORK_FAILURE"},
		{"500", http.StatusInternalServerError, ``, http.StatusServiceUnavailable, "NETWORK_FAILURE"},
		{"html", http.StatusOK, `<html>maintenance</html>`, http.StatusBadGateway, "MALFORMED_RESPONSE"},
		{"missing wind", http.StatusOK, `{"main":{"temp":1,"feels_like":1,"humidity":1},"weather":[{"description":"x","icon":"01d"}],"sys":{"country":"GB"}}`, http.StatusBadGateway, "EXTRACTION_FAILED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := testhelpers.NewFakeProvider(t)
			provider.Respond(tt.status, tt.body)
			router := newE2ERouter(t, provider)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/weather/london", nil))

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if !strings.Contains(w.Body.String(), `"`+tt.wantCode+`"`) {
				t.Errorf("body = %s, want code %s", w.Body.String(), tt.wantCode)
			}
			if n := len(provider.Queries()); n != 1 {
				t.Errorf("provider requests = %d, want exactly 1", n)
			}
		})
	}
}
