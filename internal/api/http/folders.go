package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/brightdesk/portal/internal/identity"
	"github.com/brightdesk/portal/internal/kb"
	"github.com/brightdesk/portal/internal/rbac"

	"github.com/go-chi/chi/v5"
)

func ListFoldersHandler(store kb.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fs, err := store.ListFolders(r.Context())
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, 200, fs)
	}
}

func CreateFolderHandler(store kb.Store, ids identity.Source) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ParentID    string `json:"parent_id"`
			Title       string `json:"title"`
			Description string `json:"description"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		if strings.TrimSpace(req.Title) == "" {
			http.Error(w, "title required", 400)
			return
		}
		f := kb.Folder{
			ID:          ids.NewID(),
			ParentID:    req.ParentID,
			Title:       req.Title,
			Description: req.Description,
			CreatedBy:   rbac.SubjectFromContext(r.Context()),
			CreatedAt:   time.Now().Unix(),
		}
		if err := store.PutFolder(r.Context(), f); err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, 201, f)
	}
}

// DeleteFolderHandler removes the folder together with its articles.
func DeleteFolderHandler(store kb.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "folderID")
		if err := store.DeleteFolder(r.Context(), id); err != nil {
			if errors.Is(err, kb.ErrFolderNotFound) {
				http.Error(w, err.Error(), 404)
				return
			}
			http.Error(w, err.Error(), 500)
			return
		}
		w.WriteHeader(204)
	}
}
