package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"homedash/dashd/internal/auth"
	"homedash/dashd/internal/validate"
	"homedash/dashd/pkg/httpx"
)

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Password string `json:"password"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)

	password, err := validate.Password(body.Password)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if !s.limiter.Allow("login:"+remoteIP(r), s.cfg.RateLoginPerHour, time.Hour) {
		httpx.WriteError(w, http.StatusTooManyRequests, "Too many login attempts, please try again later")
		return
	}

	ok, err := s.auth.Login(password)
	if err != nil {
		s.log.Error().Err(err).Msg("login failed against credential store")
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "Invalid password")
		return
	}

	sess := s.sessions.Create(s.cfg.SessionTTL)
	if err := s.setSessionCookie(w, r, sess.ID); err != nil {
		s.sessions.Destroy(sess.ID)
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	httpx.WriteMessage(w, http.StatusOK, "Login successful")
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if sid, ok := s.sessionID(r); ok {
		s.sessions.Destroy(sid)
	}
	s.clearSessionCookie(w, r)
	httpx.WriteMessage(w, http.StatusOK, "Logged out successfully")
}

func (s *Server) handleAuthStatus(w http.ResponseWriter, r *http.Request) {
	authenticated := false
	if sid, ok := s.sessionID(r); ok {
		if sess, ok := s.sessions.Get(sid); ok {
			authenticated = sess.Authenticated
		}
	}
	httpx.WriteData(w, http.StatusOK, map[string]bool{"authenticated": authenticated})
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)

	current, err := validate.Password(body.CurrentPassword)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	next, err := validate.NewPassword(body.NewPassword)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.auth.ChangePassword(current, next); err != nil {
		if errors.Is(err, auth.ErrBadCredentials) {
			httpx.WriteError(w, http.StatusUnauthorized, "Current password is incorrect")
			return
		}
		s.log.Error().Err(err).Msg("password change failed")
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	httpx.WriteMessage(w, http.StatusOK, "Password changed successfully")
}
