package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/brightdesk/portal/internal/audit"
	"github.com/brightdesk/portal/internal/identity"
	"github.com/brightdesk/portal/internal/kb"
	"github.com/brightdesk/portal/internal/quiz"

	"github.com/go-chi/chi/v5"
)

// UpsertQuizHandler saves a quiz onto its owning article. The quiz
// must pass the save gate; violations come back as 422 with the full
// list so the editor can highlight them.
func UpsertQuizHandler(store kb.Store, ids identity.Source, rec audit.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		articleID := chi.URLParam(r, "articleID")
		a, err := store.GetArticle(r.Context(), articleID)
		if err != nil {
			if errors.Is(err, kb.ErrArticleNotFound) {
				http.Error(w, err.Error(), 404)
				return
			}
			http.Error(w, err.Error(), 500)
			return
		}

		var qz quiz.Quiz
		if err := json.NewDecoder(r.Body).Decode(&qz); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		qz.ArticleID = articleID
		now := time.Now().Unix()
		if qz.ID == "" {
			qz.ID = ids.NewID()
			qz.CreatedAt = now
		}
		qz.UpdatedAt = now

		if vs := quiz.ValidateQuiz(qz); len(vs) > 0 {
			writeJSON(w, 422, map[string]any{"violations": vs})
			return
		}

		a = a.UpsertQuiz(qz)
		if err := store.PutArticle(r.Context(), a); err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		if rec != nil {
			_ = rec.Append(r.Context(), audit.Event{Type: audit.TypeQuizSaved, Key: qz.ID})
		}
		writeJSON(w, 200, qz)
	}
}

func DeleteQuizHandler(store kb.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		articleID := chi.URLParam(r, "articleID")
		quizID := chi.URLParam(r, "quizID")
		a, err := store.GetArticle(r.Context(), articleID)
		if err != nil {
			if errors.Is(err, kb.ErrArticleNotFound) {
				http.Error(w, err.Error(), 404)
				return
			}
			http.Error(w, err.Error(), 500)
			return
		}
		if _, ok := a.QuizByID(quizID); !ok {
			http.Error(w, "quiz not found", 404)
			return
		}
		if err := store.PutArticle(r.Context(), a.RemoveQuiz(quizID)); err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		w.WriteHeader(204)
	}
}

// GradeQuizHandler scores a completed answer sheet against the stored
// quiz and returns the result. Nothing about the attempt is persisted
// beyond the audit event; a taker who closes the tab mid-quiz leaves
// no trace.
func GradeQuizHandler(store kb.Store, rec audit.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		articleID := chi.URLParam(r, "articleID")
		quizID := chi.URLParam(r, "quizID")
		a, err := store.GetArticle(r.Context(), articleID)
		if err != nil {
			if errors.Is(err, kb.ErrArticleNotFound) {
				http.Error(w, err.Error(), 404)
				return
			}
			http.Error(w, err.Error(), 500)
			return
		}
		qz, ok := a.QuizByID(quizID)
		if !ok {
			http.Error(w, "quiz not found", 404)
			return
		}

		var req struct {
			Answers []quiz.Answer `json:"answers"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}

		att := quiz.NewAttempt(qz)
		if len(req.Answers) == len(att.Answers) {
			att.Answers = req.Answers
		}
		_, res, graded := att.Submit()
		if !graded {
			http.Error(w, "answer all questions before submitting", 422)
			return
		}

		if rec != nil {
			data, _ := json.Marshal(res)
			_ = rec.Append(r.Context(), audit.Event{
				Type: audit.TypeQuizSubmitted, Key: quizID, DataJSON: string(data),
			})
		}
		writeJSON(w, 200, res)
	}
}
