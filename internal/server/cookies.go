package server

import (
	"net/http"
	"strings"
	"time"
)

const sessionCookie = "dashd_session"

// setSessionCookie delivers the opaque session ID signed with the
// server secret. The cookie lifetime mirrors the rolling TTL; the
// server-side record is authoritative either way.
func (s *Server) setSessionCookie(w http.ResponseWriter, r *http.Request, sid string) error {
	val, err := s.codec.Encode(sessionCookie, sid)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    val,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(s.cfg.SessionTTL),
	})
	return nil
}

func (s *Server) clearSessionCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// sessionID decodes and verifies the cookie signature, returning the
// server-side session ID it carries.
func (s *Server) sessionID(r *http.Request) (string, bool) {
	ck, err := r.Cookie(sessionCookie)
	if err != nil || ck.Value == "" {
		return "", false
	}
	var sid string
	if err := s.codec.Decode(sessionCookie, ck.Value, &sid); err != nil {
		return "", false
	}
	return sid, sid != ""
}

func (s *Server) isSecureRequest(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	if s.cfg.TrustProxy && strings.EqualFold(strings.TrimSpace(r.Header.Get("X-Forwarded-Proto")), "https") {
		return true
	}
	return false
}
