package server

import (
	"encoding/json"
	"net/http"

	"homedash/dashd/internal/store"
	"homedash/dashd/pkg/httpx"
)

// The weather API key never travels to the frontend; responses replace
// it with a hasApiKey flag.
type settingsView struct {
	Weather struct {
		HasAPIKey bool   `json:"hasApiKey"`
		City      string `json:"city"`
		Country   string `json:"country"`
	} `json:"weather"`
	Search store.SearchSettings `json:"search"`
	Theme  store.ThemeSettings  `json:"theme"`
}

func viewOf(cfg store.Settings) settingsView {
	var v settingsView
	v.Weather.HasAPIKey = cfg.Weather.APIKey != ""
	v.Weather.City = cfg.Weather.City
	v.Weather.Country = cfg.Weather.Country
	v.Search = cfg.Search
	v.Theme = cfg.Theme
	return v
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.store.Settings(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("settings read failed")
		httpx.WriteError(w, http.StatusInternalServerError, "Failed to load configuration")
		return
	}
	httpx.WriteData(w, http.StatusOK, viewOf(cfg))
}

type settingsUpdate struct {
	Weather *struct {
		APIKey  *string `json:"apiKey"`
		City    *string `json:"city"`
		Country *string `json:"country"`
	} `json:"weather"`
	Search *struct {
		Provider *string `json:"provider"`
	} `json:"search"`
	Theme *struct {
		Mode        *string `json:"mode"`
		AccentColor *string `json:"accentColor"`
	} `json:"theme"`
}

// handleUpdateSettings deep-merges the submitted fields over the stored
// document. Absent fields keep their values; the provider table is
// fixed and never replaced by a caller.
func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var upd settingsUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid settings format")
		return
	}

	cfg, err := s.store.Settings(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("settings read failed")
		httpx.WriteError(w, http.StatusInternalServerError, "Failed to load configuration")
		return
	}

	if upd.Weather != nil {
		if upd.Weather.APIKey != nil && *upd.Weather.APIKey != "" {
			cfg.Weather.APIKey = *upd.Weather.APIKey
		}
		if upd.Weather.City != nil {
			cfg.Weather.City = *upd.Weather.City
		}
		if upd.Weather.Country != nil {
			cfg.Weather.Country = *upd.Weather.Country
		}
	}
	if upd.Search != nil && upd.Search.Provider != nil {
		if _, ok := cfg.Search.Providers[*upd.Search.Provider]; ok {
			cfg.Search.Provider = *upd.Search.Provider
		}
	}
	if upd.Theme != nil {
		if upd.Theme.Mode != nil {
			cfg.Theme.Mode = *upd.Theme.Mode
		}
		if upd.Theme.AccentColor != nil {
			cfg.Theme.AccentColor = *upd.Theme.AccentColor
		}
	}

	if err := s.store.SaveSettings(r.Context(), cfg); err != nil {
		s.log.Error().Err(err).Msg("settings write failed")
		httpx.WriteError(w, http.StatusInternalServerError, "Failed to save configuration")
		return
	}
	httpx.WriteData(w, http.StatusOK, viewOf(cfg))
}
