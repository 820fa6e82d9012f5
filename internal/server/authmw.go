package server

import (
	"context"
	"net/http"

	"homedash/dashd/pkg/httpx"
)

type ctxKey string

const ctxSessionID ctxKey = "sid"

// requireAuth gates a route on a live authenticated session. Rejections
// carry no detail about the resource behind the gate. Activity rolls
// the session's inactivity window forward.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid, ok := s.sessionID(r)
		if !ok {
			httpx.WriteError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		sess, ok := s.sessions.Get(sid)
		if !ok || !sess.Authenticated {
			httpx.WriteError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		s.sessions.Touch(sid)
		// Re-send the cookie so the browser's copy tracks the rolled
		// window; otherwise it expires on the login-time deadline.
		if err := s.setSessionCookie(w, r, sid); err != nil {
			s.log.Error().Err(err).Msg("session cookie refresh failed")
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxSessionID, sid)))
	})
}
