package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"homedash/dashd/internal/store"
	"homedash/dashd/internal/validate"
	"homedash/dashd/pkg/httpx"
)

func (s *Server) handleListAppGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.store.Apps()
	if err != nil {
		s.writeReadError(w, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, groups)
}

func (s *Server) handleCreateAppGroup(w http.ResponseWriter, r *http.Request) {
	var body store.AppGroup
	_ = json.NewDecoder(r.Body).Decode(&body)
	group, err := validate.AppGroup(body)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = s.store.UpdateApps(r.Context(), func(groups []store.AppGroup) ([]store.AppGroup, error) {
		if groupIndex(groups, group.Group) >= 0 {
			return nil, conflictErr("App group with this name already exists")
		}
		if dup := firstDuplicateApp(flattenApps(groups, -1), group.Apps); dup != "" {
			return nil, conflictErr(fmt.Sprintf("App %q already exists in another group", dup))
		}
		return append(groups, group), nil
	})
	if err != nil {
		s.writeUpdateError(w, err)
		return
	}
	httpx.WriteResult(w, http.StatusCreated, "App group added successfully", group)
}

func (s *Server) handleUpdateAppGroup(w http.ResponseWriter, r *http.Request) {
	name, err := validate.String(chi.URLParam(r, "group"), "Group name")
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	var body store.AppGroup
	_ = json.NewDecoder(r.Body).Decode(&body)
	group, err := validate.AppGroup(body)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = s.store.UpdateApps(r.Context(), func(groups []store.AppGroup) ([]store.AppGroup, error) {
		idx := groupIndex(groups, name)
		if idx < 0 {
			return nil, notFoundErr("App group not found")
		}
		for i, g := range groups {
			if i != idx && g.Group == group.Group {
				return nil, conflictErr("Another app group with this name already exists")
			}
		}
		if dup := firstDuplicateApp(flattenApps(groups, idx), group.Apps); dup != "" {
			return nil, conflictErr(fmt.Sprintf("App %q already exists in another group", dup))
		}
		groups[idx] = group
		return groups, nil
	})
	if err != nil {
		s.writeUpdateError(w, err)
		return
	}
	httpx.WriteResult(w, http.StatusOK, "App group updated successfully", group)
}

func (s *Server) handleDeleteAppGroup(w http.ResponseWriter, r *http.Request) {
	name, err := validate.String(chi.URLParam(r, "group"), "Group name")
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = s.store.UpdateApps(r.Context(), func(groups []store.AppGroup) ([]store.AppGroup, error) {
		idx := groupIndex(groups, name)
		if idx < 0 {
			return nil, notFoundErr("App group not found")
		}
		// Deleting a group takes its contained apps with it and nothing else.
		return append(groups[:idx], groups[idx+1:]...), nil
	})
	if err != nil {
		s.writeUpdateError(w, err)
		return
	}
	httpx.WriteMessage(w, http.StatusOK, "App group deleted successfully")
}

func (s *Server) handleAddApp(w http.ResponseWriter, r *http.Request) {
	name, err := validate.String(chi.URLParam(r, "group"), "Group name")
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	var body store.App
	_ = json.NewDecoder(r.Body).Decode(&body)
	app, err := validate.App(body)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = s.store.UpdateApps(r.Context(), func(groups []store.AppGroup) ([]store.AppGroup, error) {
		idx := groupIndex(groups, name)
		if idx < 0 {
			return nil, notFoundErr("App group not found")
		}
		if dup := firstDuplicateApp(flattenApps(groups, -1), []store.App{app}); dup != "" {
			return nil, conflictErr("App with this name or URL already exists")
		}
		groups[idx].Apps = append(groups[idx].Apps, app)
		return groups, nil
	})
	if err != nil {
		s.writeUpdateError(w, err)
		return
	}
	httpx.WriteResult(w, http.StatusCreated, "App added successfully", app)
}

func (s *Server) handleDeleteApp(w http.ResponseWriter, r *http.Request) {
	groupName, err := validate.String(chi.URLParam(r, "group"), "Group name")
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	appName, err := validate.String(chi.URLParam(r, "name"), "App name")
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = s.store.UpdateApps(r.Context(), func(groups []store.AppGroup) ([]store.AppGroup, error) {
		idx := groupIndex(groups, groupName)
		if idx < 0 {
			return nil, notFoundErr("App group not found")
		}
		for i, a := range groups[idx].Apps {
			if a.Name == appName {
				groups[idx].Apps = append(groups[idx].Apps[:i], groups[idx].Apps[i+1:]...)
				return groups, nil
			}
		}
		return nil, notFoundErr("App not found in group")
	})
	if err != nil {
		s.writeUpdateError(w, err)
		return
	}
	httpx.WriteMessage(w, http.StatusOK, "App deleted successfully")
}

func groupIndex(groups []store.AppGroup, name string) int {
	for i, g := range groups {
		if g.Group == name {
			return i
		}
	}
	return -1
}

// flattenApps collects every app in the collection, skipping the group
// at excludeIdx (pass -1 to keep all). Name/URL uniqueness spans all
// groups combined, so conflict checks always work on this flat view.
func flattenApps(groups []store.AppGroup, excludeIdx int) []store.App {
	var all []store.App
	for i, g := range groups {
		if i == excludeIdx {
			continue
		}
		all = append(all, g.Apps...)
	}
	return all
}

// firstDuplicateApp returns the name of the first candidate whose name
// or URL is already taken, or "" when all are free.
func firstDuplicateApp(existing, candidates []store.App) string {
	for _, c := range candidates {
		for _, e := range existing {
			if e.Name == c.Name || e.URL == c.URL {
				return c.Name
			}
		}
	}
	return ""
}
