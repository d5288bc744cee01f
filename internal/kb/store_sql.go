package kb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/brightdesk/portal/internal/quiz"
)

// SQLStore persists articles over database/sql; works against both
// the pgx and sqlite drivers. Tags and quizzes live in JSON columns,
// so a quiz is removed together with its owning article by
// construction.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) ListFolders(ctx context.Context) ([]Folder, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, parent_id, title, description, created_by, created_at
		 FROM folders ORDER BY title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Folder{}
	for rows.Next() {
		var f Folder
		if err := rows.Scan(&f.ID, &f.ParentID, &f.Title, &f.Description, &f.CreatedBy, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (s *SQLStore) PutFolder(ctx context.Context, f Folder) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO folders (id, parent_id, title, description, created_by, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6)
		 ON CONFLICT (id) DO UPDATE SET parent_id=EXCLUDED.parent_id,
		   title=EXCLUDED.title, description=EXCLUDED.description`,
		f.ID, f.ParentID, f.Title, f.Description, f.CreatedBy, f.CreatedAt)
	return err
}

func (s *SQLStore) DeleteFolder(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, `DELETE FROM articles WHERE folder_id=$1`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM folders WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrFolderNotFound
	}
	return tx.Commit()
}

func (s *SQLStore) ListArticles(ctx context.Context, folderID string) ([]Article, error) {
	q := `SELECT id, folder_id, title, content, category, tags_json, views,
	        author, author_id, quizzes_json, created_at, updated_at
	      FROM articles ORDER BY created_at DESC`
	args := []any{}
	if folderID != "" {
		q = `SELECT id, folder_id, title, content, category, tags_json, views,
		       author, author_id, quizzes_json, created_at, updated_at
		     FROM articles WHERE folder_id=$1 ORDER BY created_at DESC`
		args = append(args, folderID)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Article{}
	for rows.Next() {
		a, err := scanArticle(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLStore) GetArticle(ctx context.Context, id string) (Article, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, folder_id, title, content, category, tags_json, views,
		   author, author_id, quizzes_json, created_at, updated_at
		 FROM articles WHERE id=$1`, id)
	a, err := scanArticle(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Article{}, ErrArticleNotFound
	}
	return a, err
}

func (s *SQLStore) PutArticle(ctx context.Context, a Article) error {
	tags, err := json.Marshal(a.Tags)
	if err != nil {
		return err
	}
	quizzes, err := json.Marshal(a.Quizzes)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO articles (id, folder_id, title, content, category, tags_json,
		   views, author, author_id, quizzes_json, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		 ON CONFLICT (id) DO UPDATE SET folder_id=EXCLUDED.folder_id,
		   title=EXCLUDED.title, content=EXCLUDED.content,
		   category=EXCLUDED.category, tags_json=EXCLUDED.tags_json,
		   quizzes_json=EXCLUDED.quizzes_json, updated_at=EXCLUDED.updated_at`,
		a.ID, a.FolderID, a.Title, a.Content, a.Category, string(tags),
		a.Views, a.Author, a.AuthorID, string(quizzes), a.CreatedAt, a.UpdatedAt)
	return err
}

func (s *SQLStore) DeleteArticle(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM articles WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrArticleNotFound
	}
	return nil
}

func (s *SQLStore) IncrementViews(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE articles SET views=views+1 WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrArticleNotFound
	}
	return nil
}

func scanArticle(scan func(dest ...any) error) (Article, error) {
	var a Article
	var tags, quizzes string
	if err := scan(&a.ID, &a.FolderID, &a.Title, &a.Content, &a.Category, &tags,
		&a.Views, &a.Author, &a.AuthorID, &quizzes, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return Article{}, err
	}
	if tags != "" {
		if err := json.Unmarshal([]byte(tags), &a.Tags); err != nil {
			return Article{}, err
		}
	}
	if quizzes != "" {
		if err := json.Unmarshal([]byte(quizzes), &a.Quizzes); err != nil {
			return Article{}, err
		}
	}
	if a.Quizzes == nil {
		a.Quizzes = []quiz.Quiz{}
	}
	return a, nil
}
