package kb_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/brightdesk/portal/internal/audit"
	"github.com/brightdesk/portal/internal/kb"
	"github.com/brightdesk/portal/internal/notify"
	"github.com/brightdesk/portal/internal/quiz"
)

/* ---------------- fakes ---------------- */

type seqIDs struct{ n int }

func (s *seqIDs) NewID() string {
	s.n++
	return fmt.Sprintf("id-%d", s.n)
}

type fakeSink struct {
	levels   []notify.Level
	messages []string
}

func (s *fakeSink) Notify(level notify.Level, msg string) {
	s.levels = append(s.levels, level)
	s.messages = append(s.messages, msg)
}

func (s *fakeSink) last() (notify.Level, string) {
	if len(s.messages) == 0 {
		return "", ""
	}
	return s.levels[len(s.levels)-1], s.messages[len(s.messages)-1]
}

type fakeRecorder struct{ events []audit.Event }

func (r *fakeRecorder) Append(_ context.Context, e audit.Event) error {
	r.events = append(r.events, e)
	return nil
}

func seededNavigator(t *testing.T) (*kb.Navigator, kb.Store, *fakeSink, *fakeRecorder) {
	t.Helper()
	store := kb.NewInMemoryStore()
	a := kb.Article{
		ID:      "art-1",
		Title:   "Expense policy",
		Content: "Keep your receipts.",
		Quizzes: []quiz.Quiz{{
			ID: "qz-1", ArticleID: "art-1", Title: "Policy check", PassingScore: 70,
			Questions: []quiz.Question{
				{ID: "q1", Kind: quiz.KindSingle, Prompt: "p1", Options: []string{"a", "b"}, Correct: 0},
				{ID: "q2", Kind: quiz.KindSingle, Prompt: "p2", Options: []string{"a", "b"}, Correct: 0},
			},
		}},
	}
	if err := store.PutArticle(context.Background(), a); err != nil {
		t.Fatal(err)
	}
	sink := &fakeSink{}
	rec := &fakeRecorder{}
	return kb.NewNavigator(store, sink, &seqIDs{}, rec), store, sink, rec
}

/* ---------------- mode machine ---------------- */

func TestOpenArticleCountsOneView(t *testing.T) {
	n, store, _, _ := seededNavigator(t)
	ctx := context.Background()

	if err := n.OpenArticle(ctx, "art-1"); err != nil {
		t.Fatal(err)
	}
	if n.Mode() != kb.ModeReading {
		t.Fatalf("mode = %s, want reading", n.Mode())
	}
	a, _ := store.GetArticle(ctx, "art-1")
	if a.Views != 1 {
		t.Fatalf("views = %d, want 1", a.Views)
	}

	// Going through authoring and back must not count another view.
	n.NewQuiz()
	n.CancelQuiz()
	a, _ = store.GetArticle(ctx, "art-1")
	if a.Views != 1 {
		t.Fatalf("views after authoring round trip = %d, want 1", a.Views)
	}
}

func TestOpenMissingArticleFails(t *testing.T) {
	n, _, _, _ := seededNavigator(t)
	if err := n.OpenArticle(context.Background(), "nope"); err == nil {
		t.Fatal("expected an error for a missing article")
	}
	if n.Mode() != kb.ModeList {
		t.Fatalf("failed open must stay in list mode, got %s", n.Mode())
	}
}

func TestAuthoringRequiresSelectedArticle(t *testing.T) {
	n, _, sink, _ := seededNavigator(t)
	n.NewQuiz()
	if n.Mode() != kb.ModeList {
		t.Fatalf("quiz authoring entered without an article")
	}
	if lvl, _ := sink.last(); lvl != notify.LevelError {
		t.Fatalf("expected an error notification")
	}
}

func TestSaveQuizReturnsToReading(t *testing.T) {
	n, store, sink, _ := seededNavigator(t)
	ctx := context.Background()
	if err := n.OpenArticle(ctx, "art-1"); err != nil {
		t.Fatal(err)
	}

	n.NewQuiz()
	if n.Mode() != kb.ModeAuthoringQuiz {
		t.Fatalf("mode = %s, want authoring", n.Mode())
	}

	draft, ok := n.Draft()
	if !ok {
		t.Fatal("no draft")
	}
	draft = quiz.SetTitle(draft, "New hire check")
	draft, id := n.Editor().AddQuestion(draft)
	prompt := "Who approves expenses?"
	draft = quiz.UpdateQuestion(draft, id, quiz.QuestionPatch{
		Prompt:  &prompt,
		Options: []string{"Your manager", "Anyone"},
	})
	n.SetDraft(draft)

	if err := n.SaveQuiz(ctx); err != nil {
		t.Fatal(err)
	}
	if n.Mode() != kb.ModeReading {
		t.Fatalf("save must return to reading, got %s", n.Mode())
	}
	if _, msg := sink.last(); msg != "quiz created" {
		t.Fatalf("notification = %q", msg)
	}
	a, _ := store.GetArticle(ctx, "art-1")
	if len(a.Quizzes) != 2 {
		t.Fatalf("quizzes = %d, want 2", len(a.Quizzes))
	}
}

func TestSaveQuizGateSurfacesFirstViolation(t *testing.T) {
	n, store, sink, _ := seededNavigator(t)
	ctx := context.Background()
	if err := n.OpenArticle(ctx, "art-1"); err != nil {
		t.Fatal(err)
	}
	n.NewQuiz() // empty draft: no title, no questions

	if err := n.SaveQuiz(ctx); err != nil {
		t.Fatal(err)
	}
	if n.Mode() != kb.ModeAuthoringQuiz {
		t.Fatalf("failed gate must keep the editor open, got %s", n.Mode())
	}
	if lvl, msg := sink.last(); lvl != notify.LevelError || msg == "" {
		t.Fatalf("expected the first violation as an error, got %q", msg)
	}
	a, _ := store.GetArticle(ctx, "art-1")
	if len(a.Quizzes) != 1 {
		t.Fatalf("invalid draft must not be persisted")
	}
}

func TestTakeSubmitRetryClose(t *testing.T) {
	n, _, sink, rec := seededNavigator(t)
	ctx := context.Background()
	if err := n.OpenArticle(ctx, "art-1"); err != nil {
		t.Fatal(err)
	}

	n.TakeQuiz("qz-1")
	if n.Mode() != kb.ModeTakingQuiz {
		t.Fatalf("mode = %s, want taking", n.Mode())
	}

	// Premature submit is rejected with a notification.
	if err := n.SubmitQuiz(ctx); err != nil {
		t.Fatal(err)
	}
	if _, msg := sink.last(); msg != "answer the remaining questions first" {
		t.Fatalf("notification = %q", msg)
	}
	if _, ok := n.Result(); ok {
		t.Fatal("rejected submit produced a result")
	}

	n.Choose(0)
	n.GoTo(1)
	n.Choose(1)
	if err := n.SubmitQuiz(ctx); err != nil {
		t.Fatal(err)
	}
	res, ok := n.Result()
	if !ok || res.ScorePercent != 50 || res.Passed {
		t.Fatalf("result = %+v, want 50%% failed", res)
	}
	if len(rec.events) != 1 || rec.events[0].Type != audit.TypeQuizSubmitted {
		t.Fatalf("expected one QuizSubmitted audit event, got %+v", rec.events)
	}

	// Retry stays in taking mode with a clean attempt.
	n.RetryQuiz()
	if n.Mode() != kb.ModeTakingQuiz {
		t.Fatalf("retry left taking mode")
	}
	att, _ := n.Attempt()
	if att.Status != quiz.StatusInProgress || att.Current != 0 || att.CanSubmit() {
		t.Fatalf("retry attempt not reset: %+v", att)
	}
	if _, ok := n.Result(); ok {
		t.Fatal("retry kept the old result")
	}

	// Close returns to the article.
	n.CloseQuiz()
	if n.Mode() != kb.ModeReading {
		t.Fatalf("close must return to reading, got %s", n.Mode())
	}
}

func TestAnswersAfterSubmitAreFrozen(t *testing.T) {
	n, _, _, _ := seededNavigator(t)
	ctx := context.Background()
	if err := n.OpenArticle(ctx, "art-1"); err != nil {
		t.Fatal(err)
	}
	n.TakeQuiz("qz-1")
	n.Choose(0)
	n.GoTo(1)
	n.Choose(0)
	if err := n.SubmitQuiz(ctx); err != nil {
		t.Fatal(err)
	}

	n.Choose(1)
	n.GoTo(0)
	att, _ := n.Attempt()
	if att.Status != quiz.StatusSubmitted || att.Current != 1 {
		t.Fatalf("submitted attempt changed: %+v", att)
	}
	if att.Answers[1].Choice != 0 {
		t.Fatalf("answer overwritten after submit")
	}
}

func TestSaveArticleTransitions(t *testing.T) {
	n, store, sink, _ := seededNavigator(t)
	ctx := context.Background()

	n.NewArticle()
	if n.Mode() != kb.ModeEditing {
		t.Fatalf("mode = %s, want editing", n.Mode())
	}

	// Missing content keeps the editor open.
	if err := n.SaveArticle(ctx, kb.ArticleDraft{Title: "Only a title"}); err != nil {
		t.Fatal(err)
	}
	if n.Mode() != kb.ModeEditing {
		t.Fatalf("invalid draft must keep editing mode")
	}
	if lvl, _ := sink.last(); lvl != notify.LevelError {
		t.Fatalf("expected an error notification")
	}

	if err := n.SaveArticle(ctx, kb.ArticleDraft{Title: "VPN guide", Content: "Install the client."}); err != nil {
		t.Fatal(err)
	}
	if n.Mode() != kb.ModeReading {
		t.Fatalf("save must land on reading, got %s", n.Mode())
	}
	a, ok := n.Article()
	if !ok || a.Title != "VPN guide" {
		t.Fatalf("selected article = %+v", a)
	}
	if _, err := store.GetArticle(ctx, a.ID); err != nil {
		t.Fatalf("saved article not in store: %v", err)
	}
}

func TestDeleteSelectedArticleFallsBackToList(t *testing.T) {
	n, _, _, _ := seededNavigator(t)
	ctx := context.Background()
	if err := n.OpenArticle(ctx, "art-1"); err != nil {
		t.Fatal(err)
	}
	if err := n.DeleteArticle(ctx, "art-1"); err != nil {
		t.Fatal(err)
	}
	if n.Mode() != kb.ModeList {
		t.Fatalf("mode = %s, want list", n.Mode())
	}
	if _, ok := n.Article(); ok {
		t.Fatal("selection must be cleared")
	}
}

func TestDeleteQuizFromArticle(t *testing.T) {
	n, store, _, _ := seededNavigator(t)
	ctx := context.Background()
	if err := n.OpenArticle(ctx, "art-1"); err != nil {
		t.Fatal(err)
	}
	if err := n.DeleteQuiz(ctx, "qz-1"); err != nil {
		t.Fatal(err)
	}
	a, _ := store.GetArticle(ctx, "art-1")
	if len(a.Quizzes) != 0 {
		t.Fatalf("quiz not removed from article")
	}
}

func TestStaleQuizActionsAreNoops(t *testing.T) {
	n, _, _, _ := seededNavigator(t)
	ctx := context.Background()
	if err := n.OpenArticle(ctx, "art-1"); err != nil {
		t.Fatal(err)
	}

	n.TakeQuiz("gone")
	if n.Mode() != kb.ModeReading {
		t.Fatalf("taking a missing quiz must be a no-op")
	}
	n.EditQuiz("gone")
	if n.Mode() != kb.ModeReading {
		t.Fatalf("editing a missing quiz must be a no-op")
	}
	if err := n.DeleteQuiz(ctx, "gone"); err != nil {
		t.Fatalf("deleting a missing quiz must not error: %v", err)
	}
}
