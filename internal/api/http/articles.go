package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/brightdesk/portal/internal/audit"
	"github.com/brightdesk/portal/internal/identity"
	"github.com/brightdesk/portal/internal/kb"
	"github.com/brightdesk/portal/internal/quiz"
	"github.com/brightdesk/portal/internal/rbac"

	"github.com/go-chi/chi/v5"
)

var editChecker = rbac.NewChecker(nil)

func ListArticlesHandler(store kb.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		folderID := r.URL.Query().Get("folder_id")
		as, err := store.ListArticles(r.Context(), folderID)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		for i := range as {
			as[i] = sanitizeForViewer(r, as[i])
		}
		writeJSON(w, 200, as)
	}
}

func GetArticleHandler(store kb.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := store.GetArticle(r.Context(), chi.URLParam(r, "articleID"))
		if err != nil {
			if errors.Is(err, kb.ErrArticleNotFound) {
				http.Error(w, err.Error(), 404)
				return
			}
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, 200, sanitizeForViewer(r, a))
	}
}

// ViewArticleHandler counts one read of the article. The client calls
// it when the reader actually opens the article, once per entry.
func ViewArticleHandler(store kb.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "articleID")
		if err := store.IncrementViews(r.Context(), id); err != nil {
			if errors.Is(err, kb.ErrArticleNotFound) {
				http.Error(w, err.Error(), 404)
				return
			}
			http.Error(w, err.Error(), 500)
			return
		}
		w.WriteHeader(204)
	}
}

type articleRequest struct {
	FolderID string   `json:"folder_id"`
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
}

func (req articleRequest) validate() string {
	if strings.TrimSpace(req.Title) == "" {
		return "title required"
	}
	if strings.TrimSpace(req.Content) == "" {
		return "content required"
	}
	return ""
}

func CreateArticleHandler(store kb.Store, ids identity.Source, rec audit.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req articleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		if msg := req.validate(); msg != "" {
			http.Error(w, msg, 400)
			return
		}
		if req.Category == "" {
			req.Category = "General"
		}
		now := time.Now().Unix()
		a := kb.Article{
			ID:        ids.NewID(),
			FolderID:  req.FolderID,
			Title:     req.Title,
			Content:   req.Content,
			Category:  req.Category,
			Tags:      req.Tags,
			AuthorID:  rbac.SubjectFromContext(r.Context()),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := store.PutArticle(r.Context(), a); err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		if rec != nil {
			_ = rec.Append(r.Context(), audit.Event{Type: audit.TypeArticleSaved, Key: a.ID})
		}
		writeJSON(w, 201, a)
	}
}

func UpdateArticleHandler(store kb.Store, rec audit.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "articleID")
		a, err := store.GetArticle(r.Context(), id)
		if err != nil {
			if errors.Is(err, kb.ErrArticleNotFound) {
				http.Error(w, err.Error(), 404)
				return
			}
			http.Error(w, err.Error(), 500)
			return
		}
		var req articleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		if msg := req.validate(); msg != "" {
			http.Error(w, msg, 400)
			return
		}
		a.FolderID = req.FolderID
		a.Title = req.Title
		a.Content = req.Content
		if req.Category != "" {
			a.Category = req.Category
		}
		a.Tags = req.Tags
		a.UpdatedAt = time.Now().Unix()
		if err := store.PutArticle(r.Context(), a); err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		if rec != nil {
			_ = rec.Append(r.Context(), audit.Event{Type: audit.TypeArticleSaved, Key: a.ID})
		}
		writeJSON(w, 200, a)
	}
}

// DeleteArticleHandler removes the article and, with it, every quiz it
// owns.
func DeleteArticleHandler(store kb.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "articleID")
		if err := store.DeleteArticle(r.Context(), id); err != nil {
			if errors.Is(err, kb.ErrArticleNotFound) {
				http.Error(w, err.Error(), 404)
				return
			}
			http.Error(w, err.Error(), 500)
			return
		}
		w.WriteHeader(204)
	}
}

// sanitizeForViewer strips quiz answer keys unless the viewer may edit
// quizzes. Grading always reloads the stored quiz, so hiding the keys
// here is safe.
func sanitizeForViewer(r *http.Request, a kb.Article) kb.Article {
	if editChecker.Has(rbac.RoleFromContext(r.Context()), "quiz:edit") {
		return a
	}
	out := append([]quiz.Quiz(nil), a.Quizzes...)
	for i := range out {
		qs := append([]quiz.Question(nil), out[i].Questions...)
		for j := range qs {
			qs[j].Correct = quiz.NoCorrect
			qs[j].CorrectSet = nil
		}
		out[i].Questions = qs
	}
	a.Quizzes = out
	return a
}
