package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"homedash/dashd/internal/probe"
	"homedash/dashd/internal/store"
	"homedash/dashd/internal/validate"
	"homedash/dashd/pkg/httpx"
)

func (s *Server) handleListServices(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.Services()
	if err != nil {
		s.writeReadError(w, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, list)
}

func (s *Server) handleCreateService(w http.ResponseWriter, r *http.Request) {
	var body store.Service
	_ = json.NewDecoder(r.Body).Decode(&body)
	svc, err := validate.Service(body)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = s.store.UpdateServices(r.Context(), func(list []store.Service) ([]store.Service, error) {
		for _, cur := range list {
			if cur.Name == svc.Name || cur.IP == svc.IP {
				return nil, conflictErr("Service with this name or IP already exists")
			}
		}
		return append(list, svc), nil
	})
	if err != nil {
		s.writeUpdateError(w, err)
		return
	}
	httpx.WriteResult(w, http.StatusCreated, "Service added successfully", svc)
}

func (s *Server) handleUpdateService(w http.ResponseWriter, r *http.Request) {
	name, err := validate.String(chi.URLParam(r, "name"), "Service name")
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	var body store.Service
	_ = json.NewDecoder(r.Body).Decode(&body)
	svc, err := validate.Service(body)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = s.store.UpdateServices(r.Context(), func(list []store.Service) ([]store.Service, error) {
		idx := -1
		for i, cur := range list {
			if cur.Name == name {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, notFoundErr("Service not found")
		}
		for i, cur := range list {
			if i != idx && (cur.Name == svc.Name || cur.IP == svc.IP) {
				return nil, conflictErr("Another service with this name or IP already exists")
			}
		}
		list[idx] = svc
		return list, nil
	})
	if err != nil {
		s.writeUpdateError(w, err)
		return
	}
	httpx.WriteResult(w, http.StatusOK, "Service updated successfully", svc)
}

func (s *Server) handleDeleteService(w http.ResponseWriter, r *http.Request) {
	name, err := validate.String(chi.URLParam(r, "name"), "Service name")
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = s.store.UpdateServices(r.Context(), func(list []store.Service) ([]store.Service, error) {
		for i, cur := range list {
			if cur.Name == name {
				return append(list[:i], list[i+1:]...), nil
			}
		}
		return nil, notFoundErr("Service not found")
	})
	if err != nil {
		s.writeUpdateError(w, err)
		return
	}
	httpx.WriteMessage(w, http.StatusOK, "Service deleted successfully")
}

// handlePing answers whether a host is reachable right now. One probe
// per request; timeouts are a normal offline answer, not a fault.
func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	var body struct {
		IP string `json:"ip"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)
	if body.IP == "" {
		httpx.WriteError(w, http.StatusBadRequest, "IP address is required")
		return
	}
	ip, err := validate.IPv4(body.IP)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := s.prober.Probe(r.Context(), ip)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			// Client went away; nothing useful to write.
			return
		}
		if errors.Is(err, probe.ErrInvalidAddress) {
			httpx.WriteError(w, http.StatusBadRequest, "Invalid IP address format")
			return
		}
		s.log.Error().Err(err).Str("ip", ip).Msg("probe failed")
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	httpx.WriteData(w, http.StatusOK, res)
}
