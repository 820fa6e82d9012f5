package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"homedash/dashd/internal/weather"
)

func fakeUpstream(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestWeatherRequiresAPIKey(t *testing.T) {
	_, h := newTestServer(t)
	cookies := login(t, h)

	rec, env := doJSON(t, h, http.MethodGet, "/api/weather", nil, cookies)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "Weather API key not configured", env.Message)
}

func TestWeatherProxiesUpstream(t *testing.T) {
	s, h := newTestServer(t)
	cookies := login(t, h)

	var gotQuery, gotKey string
	upstream := fakeUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotKey = r.URL.Query().Get("appid")
		require.Equal(t, "metric", r.URL.Query().Get("units"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"name":"Wellington","main":{"temp":17.6,"humidity":80},"weather":[{"description":"light rain","icon":"10d"}],"wind":{"speed":6.2}}`))
	})
	s.weather = weather.NewClientWithBaseURL(upstream.URL)

	doJSON(t, h, http.MethodPut, "/api/settings", map[string]any{
		"weather": map[string]any{"apiKey": "k-123", "city": "Wellington"},
	}, cookies)

	rec, env := doJSON(t, h, http.MethodGet, "/api/weather", nil, cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Wellington,NZ", gotQuery)
	require.Equal(t, "k-123", gotKey)

	var sum weather.Summary
	require.NoError(t, json.Unmarshal(env.Data, &sum))
	require.Equal(t, "Wellington", sum.City)
	require.Equal(t, 18, sum.Temp, "temperature is rounded to whole degrees")
	require.Equal(t, "light rain", sum.Desc)
	require.Equal(t, 80, sum.Humidity)
}

func TestWeatherCityQueryOverride(t *testing.T) {
	s, h := newTestServer(t)
	cookies := login(t, h)

	var gotQuery string
	upstream := fakeUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		w.Write([]byte(`{"name":"Oslo","main":{"temp":3,"humidity":60},"weather":[{"description":"snow","icon":"13d"}],"wind":{"speed":2}}`))
	})
	s.weather = weather.NewClientWithBaseURL(upstream.URL)
	doJSON(t, h, http.MethodPut, "/api/settings", map[string]any{
		"weather": map[string]any{"apiKey": "k-123"},
	}, cookies)

	rec, _ := doJSON(t, h, http.MethodGet, "/api/weather?city=Oslo", nil, cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Oslo", gotQuery, "explicit city query skips the configured country suffix")
}

func TestWeatherUpstreamErrors(t *testing.T) {
	s, h := newTestServer(t)
	cookies := login(t, h)
	doJSON(t, h, http.MethodPut, "/api/settings", map[string]any{
		"weather": map[string]any{"apiKey": "k-123"},
	}, cookies)

	upstream := fakeUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"cod":"404","message":"city not found"}`, http.StatusNotFound)
	})
	s.weather = weather.NewClientWithBaseURL(upstream.URL)

	rec, env := doJSON(t, h, http.MethodGet, "/api/weather?city=Nowhere", nil, cookies)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "City not found", env.Message)

	upstream = fakeUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusServiceUnavailable)
	})
	s.weather = weather.NewClientWithBaseURL(upstream.URL)

	rec, env = doJSON(t, h, http.MethodGet, "/api/weather?city=Anywhere", nil, cookies)
	require.Equal(t, http.StatusBadGateway, rec.Code)
	require.Equal(t, "Failed to fetch weather data", env.Message)
}
