package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"homedash/dashd/internal/store"
	"homedash/dashd/internal/validate"
	"homedash/dashd/pkg/httpx"
)

func (s *Server) handleListBookmarks(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.Bookmarks()
	if err != nil {
		s.writeReadError(w, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, list)
}

func (s *Server) handleCreateBookmark(w http.ResponseWriter, r *http.Request) {
	var body store.Bookmark
	_ = json.NewDecoder(r.Body).Decode(&body)
	bm, err := validate.Bookmark(body)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = s.store.UpdateBookmarks(r.Context(), func(list []store.Bookmark) ([]store.Bookmark, error) {
		for _, b := range list {
			if b.Name == bm.Name || b.URL == bm.URL {
				return nil, conflictErr("Bookmark with this name or URL already exists")
			}
		}
		return append(list, bm), nil
	})
	if err != nil {
		s.writeUpdateError(w, err)
		return
	}
	httpx.WriteResult(w, http.StatusCreated, "Bookmark added successfully", bm)
}

func (s *Server) handleUpdateBookmark(w http.ResponseWriter, r *http.Request) {
	name, err := validate.String(chi.URLParam(r, "name"), "Bookmark name")
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	var body store.Bookmark
	_ = json.NewDecoder(r.Body).Decode(&body)
	bm, err := validate.Bookmark(body)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = s.store.UpdateBookmarks(r.Context(), func(list []store.Bookmark) ([]store.Bookmark, error) {
		idx := -1
		for i, b := range list {
			if b.Name == name {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, notFoundErr("Bookmark not found")
		}
		for i, b := range list {
			if i != idx && (b.Name == bm.Name || b.URL == bm.URL) {
				return nil, conflictErr("Another bookmark with this name or URL already exists")
			}
		}
		list[idx] = bm
		return list, nil
	})
	if err != nil {
		s.writeUpdateError(w, err)
		return
	}
	httpx.WriteResult(w, http.StatusOK, "Bookmark updated successfully", bm)
}

func (s *Server) handleDeleteBookmark(w http.ResponseWriter, r *http.Request) {
	name, err := validate.String(chi.URLParam(r, "name"), "Bookmark name")
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = s.store.UpdateBookmarks(r.Context(), func(list []store.Bookmark) ([]store.Bookmark, error) {
		for i, b := range list {
			if b.Name == name {
				return append(list[:i], list[i+1:]...), nil
			}
		}
		return nil, notFoundErr("Bookmark not found")
	})
	if err != nil {
		s.writeUpdateError(w, err)
		return
	}
	httpx.WriteMessage(w, http.StatusOK, "Bookmark deleted successfully")
}
