// Package audit keeps an append-only log of portal events. Abandoned
// quiz attempts never reach it; only completed submissions and content
// saves are recorded.
package audit

import (
	"context"
	"database/sql"
	"time"
)

const (
	TypeArticleSaved  = "ArticleSaved"
	TypeQuizSaved     = "QuizSaved"
	TypeQuizSubmitted = "QuizSubmitted"
)

type Event struct {
	Offset    int64
	Type      string
	Key       string // natural key: article or quiz ID
	DataJSON  string
	CreatedAt int64
}

type Recorder interface {
	Append(ctx context.Context, e Event) error
}

type Repo struct{ db *sql.DB }

func NewRepo(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Append(ctx context.Context, e Event) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO event_log (typ, key, data, created_at)
		 VALUES ($1,$2,$3,$4)`,
		e.Type, e.Key, e.DataJSON, time.Now().Unix())
	return err
}
