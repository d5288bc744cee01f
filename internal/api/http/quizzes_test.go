package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	api "github.com/brightdesk/portal/internal/api/http"
	"github.com/brightdesk/portal/internal/kb"
	"github.com/brightdesk/portal/internal/quiz"
	"github.com/brightdesk/portal/internal/rbac"

	"github.com/go-chi/chi/v5"
)

type seqIDs struct{ n int }

func (s *seqIDs) NewID() string {
	s.n++
	return fmt.Sprintf("id-%d", s.n)
}

func withRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(rbac.WithRole(r.Context(), role)))
		})
	}
}

func seededStore(t *testing.T) kb.Store {
	t.Helper()
	store := kb.NewInMemoryStore()
	err := store.PutArticle(context.Background(), kb.Article{
		ID:      "art-1",
		Title:   "Security basics",
		Content: "Lock your screen.",
		Quizzes: []quiz.Quiz{{
			ID: "qz-1", ArticleID: "art-1", Title: "Check", PassingScore: 70,
			Questions: []quiz.Question{
				{ID: "q1", Kind: quiz.KindSingle, Prompt: "p", Options: []string{"a", "b"}, Correct: 1},
				{ID: "q2", Kind: quiz.KindMultiple, Prompt: "p", Options: []string{"a", "b", "c"}, CorrectSet: []int{0, 2}},
			},
		}},
	})
	if err != nil {
		t.Fatal(err)
	}
	return store
}

func newRouter(store kb.Store, role string) *chi.Mux {
	r := chi.NewRouter()
	r.Use(withRole(role))
	r.Get("/articles/{articleID}", api.GetArticleHandler(store))
	r.Put("/articles/{articleID}/quizzes", api.UpsertQuizHandler(store, &seqIDs{}, nil))
	r.Post("/articles/{articleID}/quizzes/{quizID}/grade", api.GradeQuizHandler(store, nil))
	return r
}

func TestGetArticleStripsKeysForEmployees(t *testing.T) {
	r := newRouter(seededStore(t), "employee")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/articles/art-1", nil))
	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}
	var a kb.Article
	if err := json.Unmarshal(rec.Body.Bytes(), &a); err != nil {
		t.Fatal(err)
	}
	q := a.Quizzes[0].Questions
	if q[0].Correct != quiz.NoCorrect || q[1].CorrectSet != nil {
		t.Fatalf("answer keys leaked to an employee: %+v", q)
	}
}

func TestGetArticleKeepsKeysForEditors(t *testing.T) {
	r := newRouter(seededStore(t), "editor")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/articles/art-1", nil))
	var a kb.Article
	if err := json.Unmarshal(rec.Body.Bytes(), &a); err != nil {
		t.Fatal(err)
	}
	q := a.Quizzes[0].Questions
	if q[0].Correct != 1 || len(q[1].CorrectSet) != 2 {
		t.Fatalf("editor view lost the answer keys: %+v", q)
	}
}

func TestGradeQuiz(t *testing.T) {
	r := newRouter(seededStore(t), "employee")

	body := `{"answers":[
		{"answered":true,"choice":1},
		{"answered":true,"choices":[2,0]}
	]}`
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("POST", "/articles/art-1/quizzes/qz-1/grade", strings.NewReader(body)))
	if rec.Code != 200 {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var res quiz.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res.Correct != 2 || res.ScorePercent != 100 || !res.Passed {
		t.Fatalf("result = %+v, want full marks", res)
	}
}

func TestGradeQuizRejectsIncompleteAnswers(t *testing.T) {
	r := newRouter(seededStore(t), "employee")
	body := `{"answers":[{"answered":true,"choice":1},{"answered":false}]}`
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("POST", "/articles/art-1/quizzes/qz-1/grade", strings.NewReader(body)))
	if rec.Code != 422 {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func TestUpsertQuizValidationGate(t *testing.T) {
	r := newRouter(seededStore(t), "editor")
	body := `{"title":"","questions":[]}`
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("PUT", "/articles/art-1/quizzes", strings.NewReader(body)))
	if rec.Code != 422 {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	var resp struct {
		Violations []quiz.Violation `json:"violations"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Violations) == 0 {
		t.Fatal("expected violations in the response")
	}
}
