package server

import (
	"errors"
	"net/http"

	"homedash/dashd/pkg/httpx"
)

// apiError carries a status code out of a collection-update closure so
// the handler can answer 400/404 while any other failure stays a 500.
type apiError struct {
	status  int
	message string
}

func (e *apiError) Error() string { return e.message }

func conflictErr(message string) *apiError {
	return &apiError{status: http.StatusBadRequest, message: message}
}

func notFoundErr(message string) *apiError {
	return &apiError{status: http.StatusNotFound, message: message}
}

// writeUpdateError renders an update failure: deliberate rejections keep
// their status and message, storage faults become a generic 500.
func (s *Server) writeUpdateError(w http.ResponseWriter, err error) {
	var ae *apiError
	if errors.As(err, &ae) {
		httpx.WriteError(w, ae.status, ae.message)
		return
	}
	s.log.Error().Err(err).Msg("collection update failed")
	httpx.WriteError(w, http.StatusInternalServerError, "Internal server error")
}

func (s *Server) writeReadError(w http.ResponseWriter, err error) {
	s.log.Error().Err(err).Msg("collection read failed")
	httpx.WriteError(w, http.StatusInternalServerError, "Internal server error")
}
