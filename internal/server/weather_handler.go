package server

import (
	"errors"
	"net/http"

	"homedash/dashd/internal/weather"
	"homedash/dashd/pkg/httpx"
)

// handleWeather proxies current conditions for the configured (or
// query-overridden) city. The settings document's API key wins over the
// process config so the key can be managed from the dashboard.
func (s *Server) handleWeather(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.store.Settings(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("settings read failed")
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	apiKey := cfg.Weather.APIKey
	if apiKey == "" {
		apiKey = s.cfg.WeatherAPIKey
	}
	if apiKey == "" {
		httpx.WriteError(w, http.StatusInternalServerError, "Weather API key not configured")
		return
	}

	query := r.URL.Query().Get("city")
	if query == "" {
		query = cfg.Weather.City
		if query == "" {
			query = s.cfg.WeatherCity
		}
		if country := firstNonEmpty(cfg.Weather.Country, s.cfg.WeatherCountry); country != "" {
			query += "," + country
		}
	}

	sum, err := s.weather.Current(r.Context(), apiKey, query)
	if err != nil {
		if errors.Is(err, weather.ErrCityNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "City not found")
			return
		}
		s.log.Error().Err(err).Str("city", query).Msg("weather fetch failed")
		httpx.WriteError(w, http.StatusBadGateway, "Failed to fetch weather data")
		return
	}
	httpx.WriteData(w, http.StatusOK, sum)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
