package kb

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/brightdesk/portal/internal/audit"
	"github.com/brightdesk/portal/internal/identity"
	"github.com/brightdesk/portal/internal/notify"
	"github.com/brightdesk/portal/internal/quiz"
)

// Mode is the active knowledge-base view.
type Mode string

const (
	ModeList          Mode = "list"
	ModeReading       Mode = "reading"
	ModeEditing       Mode = "editing"
	ModeAuthoringQuiz Mode = "authoring-quiz"
	ModeTakingQuiz    Mode = "taking-quiz"
)

// Navigator owns the view-mode state machine for the knowledge base:
// which of list/reading/editing/quiz-authoring/quiz-taking is active,
// and the draft or attempt belonging to that mode. Every method runs
// synchronously to completion in response to one user action; a call
// that does not apply in the current mode is a no-op rather than an
// error, since the UI only surfaces actions valid for its mode.
//
// A Navigator serves one viewer at a time and is not safe for
// concurrent use.
type Navigator struct {
	store    Store
	sink     notify.Sink
	ids      identity.Source
	editor   *quiz.Editor
	recorder audit.Recorder // optional

	mode      Mode
	article   Article // valid when mode involves a selected article
	selected  bool
	editingID string       // non-empty when editing an existing article
	draft     *quiz.Quiz   // authoring
	attempt   quiz.Attempt // taking
	taking    bool
	result    *quiz.Result
}

func NewNavigator(store Store, sink notify.Sink, ids identity.Source, recorder audit.Recorder) *Navigator {
	return &Navigator{
		store:    store,
		sink:     sink,
		ids:      ids,
		editor:   quiz.NewEditor(ids),
		recorder: recorder,
		mode:     ModeList,
	}
}

func (n *Navigator) Mode() Mode { return n.mode }

// Article returns the selected article, if any mode has one.
func (n *Navigator) Article() (Article, bool) { return n.article, n.selected }

// Draft returns the quiz being authored.
func (n *Navigator) Draft() (quiz.Quiz, bool) {
	if n.draft == nil {
		return quiz.Quiz{}, false
	}
	return *n.draft, true
}

// SetDraft replaces the quiz draft with the result of an authoring
// operation. Ignored outside authoring mode.
func (n *Navigator) SetDraft(qz quiz.Quiz) {
	if n.mode != ModeAuthoringQuiz || n.draft == nil {
		return
	}
	n.draft = &qz
}

// Editor exposes the ID-carrying quiz editor for authoring operations.
func (n *Navigator) Editor() *quiz.Editor { return n.editor }

// Attempt returns the in-flight taking session.
func (n *Navigator) Attempt() (quiz.Attempt, bool) { return n.attempt, n.taking }

// Result returns the score of the last submit, until retry or close.
func (n *Navigator) Result() (quiz.Result, bool) {
	if n.result == nil {
		return quiz.Result{}, false
	}
	return *n.result, true
}

// ---- list / reading / editing ----

// OpenArticle selects an article for reading. The view counter is
// bumped here, once per entry; internal returns to the reading view
// (quiz save, quiz close) do not count as another view.
func (n *Navigator) OpenArticle(ctx context.Context, id string) error {
	a, err := n.store.GetArticle(ctx, id)
	if err != nil {
		return err
	}
	if err := n.store.IncrementViews(ctx, id); err != nil {
		return err
	}
	a.Views++
	n.article = a
	n.selected = true
	n.mode = ModeReading
	return nil
}

// BackToList drops the selection and returns to the listing.
func (n *Navigator) BackToList() {
	n.mode = ModeList
	n.selected = false
	n.article = Article{}
	n.draft = nil
	n.taking = false
	n.result = nil
}

// NewArticle opens the editor on an empty draft.
func (n *Navigator) NewArticle() {
	n.editingID = ""
	n.mode = ModeEditing
}

// EditArticle opens the editor on the selected article. No-op unless
// reading.
func (n *Navigator) EditArticle() {
	if n.mode != ModeReading {
		return
	}
	n.editingID = n.article.ID
	n.mode = ModeEditing
}

// ArticleDraft is the editable subset of an article.
type ArticleDraft struct {
	FolderID string
	Title    string
	Content  string
	Category string
	Tags     []string
	Author   string
	AuthorID string
}

// SaveArticle validates and persists the draft, then lands on the
// reading view of the saved article. Validation failures notify and
// keep the editor open.
func (n *Navigator) SaveArticle(ctx context.Context, d ArticleDraft) error {
	if n.mode != ModeEditing {
		return nil
	}
	if strings.TrimSpace(d.Title) == "" {
		n.sink.Notify(notify.LevelError, "enter the article title")
		return nil
	}
	if strings.TrimSpace(d.Content) == "" {
		n.sink.Notify(notify.LevelError, "enter the article content")
		return nil
	}
	if d.Category == "" {
		d.Category = "General"
	}

	now := time.Now().Unix()
	var a Article
	if n.editingID != "" {
		a = n.article
		a.Title = d.Title
		a.Content = d.Content
		a.Category = d.Category
		a.Tags = d.Tags
		a.UpdatedAt = now
	} else {
		a = Article{
			ID:        n.ids.NewID(),
			FolderID:  d.FolderID,
			Title:     d.Title,
			Content:   d.Content,
			Category:  d.Category,
			Tags:      d.Tags,
			Author:    d.Author,
			AuthorID:  d.AuthorID,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}
	if err := n.store.PutArticle(ctx, a); err != nil {
		n.sink.Notify(notify.LevelError, "could not save the article")
		return err
	}
	n.record(ctx, audit.TypeArticleSaved, a.ID, nil)
	if n.editingID != "" {
		n.sink.Notify(notify.LevelInfo, "article updated")
	} else {
		n.sink.Notify(notify.LevelInfo, "article created")
	}
	n.article = a
	n.selected = true
	n.editingID = ""
	n.mode = ModeReading
	return nil
}

// CancelEditing abandons the draft.
func (n *Navigator) CancelEditing() {
	if n.mode != ModeEditing {
		return
	}
	n.editingID = ""
	if n.selected {
		n.mode = ModeReading
	} else {
		n.mode = ModeList
	}
}

// DeleteArticle removes an article; if it was the selected one, the
// navigator falls back to the listing.
func (n *Navigator) DeleteArticle(ctx context.Context, id string) error {
	if err := n.store.DeleteArticle(ctx, id); err != nil {
		n.sink.Notify(notify.LevelError, "could not delete the article")
		return err
	}
	n.sink.Notify(notify.LevelInfo, "article deleted")
	if n.selected && n.article.ID == id {
		n.BackToList()
	}
	return nil
}

// ---- quiz authoring ----

// NewQuiz opens the quiz editor on a fresh draft. Requires a selected
// article: a quiz cannot exist on its own.
func (n *Navigator) NewQuiz() {
	if n.mode != ModeReading || !n.selected {
		n.sink.Notify(notify.LevelError, "select an article first")
		return
	}
	qz := n.editor.NewQuiz(n.article.ID)
	n.draft = &qz
	n.mode = ModeAuthoringQuiz
}

// EditQuiz opens the quiz editor on an existing quiz of the selected
// article.
func (n *Navigator) EditQuiz(quizID string) {
	if n.mode != ModeReading {
		return
	}
	qz, ok := n.article.QuizByID(quizID)
	if !ok {
		return
	}
	n.draft = &qz
	n.mode = ModeAuthoringQuiz
}

// SaveQuiz runs the validation gate and persists the draft into its
// owning article, then returns to reading that article. The first
// violation is surfaced; the draft stays open on failure.
func (n *Navigator) SaveQuiz(ctx context.Context) error {
	if n.mode != ModeAuthoringQuiz || n.draft == nil {
		return nil
	}
	if vs := quiz.ValidateQuiz(*n.draft); len(vs) > 0 {
		n.sink.Notify(notify.LevelError, vs[0].String())
		return nil
	}
	qz := *n.draft
	qz.UpdatedAt = time.Now().Unix()
	_, existed := n.article.QuizByID(qz.ID)
	a := n.article.UpsertQuiz(qz)
	if err := n.store.PutArticle(ctx, a); err != nil {
		n.sink.Notify(notify.LevelError, "could not save the quiz")
		return err
	}
	n.record(ctx, audit.TypeQuizSaved, qz.ID, nil)
	if existed {
		n.sink.Notify(notify.LevelInfo, "quiz updated")
	} else {
		n.sink.Notify(notify.LevelInfo, "quiz created")
	}
	n.article = a
	n.draft = nil
	n.mode = ModeReading
	return nil
}

// CancelQuiz abandons the draft and returns to the article.
func (n *Navigator) CancelQuiz() {
	if n.mode != ModeAuthoringQuiz {
		return
	}
	n.draft = nil
	n.mode = ModeReading
}

// DeleteQuiz removes a quiz from the selected article.
func (n *Navigator) DeleteQuiz(ctx context.Context, quizID string) error {
	if n.mode != ModeReading {
		return nil
	}
	if _, ok := n.article.QuizByID(quizID); !ok {
		return nil
	}
	a := n.article.RemoveQuiz(quizID)
	if err := n.store.PutArticle(ctx, a); err != nil {
		n.sink.Notify(notify.LevelError, "could not delete the quiz")
		return err
	}
	n.article = a
	n.sink.Notify(notify.LevelInfo, "quiz deleted")
	return nil
}

// ---- quiz taking ----

// TakeQuiz starts a fresh attempt on one of the selected article's
// quizzes.
func (n *Navigator) TakeQuiz(quizID string) {
	if n.mode != ModeReading {
		return
	}
	qz, ok := n.article.QuizByID(quizID)
	if !ok {
		return
	}
	n.attempt = quiz.NewAttempt(qz)
	n.taking = true
	n.result = nil
	n.mode = ModeTakingQuiz
}

// Choose, ToggleChoice and GoTo forward to the attempt while taking.
func (n *Navigator) Choose(idx int) {
	if n.taking {
		n.attempt = n.attempt.Choose(idx)
	}
}

func (n *Navigator) ToggleChoice(idx int) {
	if n.taking {
		n.attempt = n.attempt.ToggleChoice(idx)
	}
}

func (n *Navigator) GoTo(idx int) {
	if n.taking {
		n.attempt = n.attempt.GoTo(idx)
	}
}

// SubmitQuiz freezes the attempt and records the outcome. Rejected
// with a notification while questions remain unanswered.
func (n *Navigator) SubmitQuiz(ctx context.Context) error {
	if n.mode != ModeTakingQuiz || !n.taking {
		return nil
	}
	next, res, ok := n.attempt.Submit()
	if !ok {
		n.sink.Notify(notify.LevelError, "answer the remaining questions first")
		return nil
	}
	n.attempt = next
	n.result = &res
	n.record(ctx, audit.TypeQuizSubmitted, n.attempt.Quiz.ID, res)
	if res.Passed {
		n.sink.Notify(notify.LevelInfo, "quiz passed")
	} else {
		n.sink.Notify(notify.LevelInfo, "quiz submitted")
	}
	return nil
}

// RetryQuiz restarts the attempt in place; the taking view stays open.
func (n *Navigator) RetryQuiz() {
	if n.mode != ModeTakingQuiz || !n.taking {
		return
	}
	n.attempt = n.attempt.Retry()
	n.result = nil
}

// CloseQuiz discards the attempt, whatever its state, and returns to
// the article. An abandoned attempt leaves no trace.
func (n *Navigator) CloseQuiz() {
	if n.mode != ModeTakingQuiz {
		return
	}
	n.taking = false
	n.attempt = quiz.Attempt{}
	n.result = nil
	n.mode = ModeReading
}

func (n *Navigator) record(ctx context.Context, typ, key string, data any) {
	if n.recorder == nil {
		return
	}
	payload := ""
	if data != nil {
		if b, err := json.Marshal(data); err == nil {
			payload = string(b)
		}
	}
	// Audit is best-effort; a failed append never blocks navigation.
	_ = n.recorder.Append(ctx, audit.Event{Type: typ, Key: key, DataJSON: payload})
}
