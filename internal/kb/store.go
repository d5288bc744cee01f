package kb

import (
	"context"
	"errors"
)

var (
	ErrArticleNotFound = errors.New("article not found")
	ErrFolderNotFound  = errors.New("folder not found")
)

// Store is the article persistence boundary. The navigation core
// consumes it; retry policy on failures, if any, belongs to the
// implementation.
type Store interface {
	ListFolders(ctx context.Context) ([]Folder, error)
	PutFolder(ctx context.Context, f Folder) error
	// DeleteFolder removes the folder and every article in it.
	DeleteFolder(ctx context.Context, id string) error

	// ListArticles returns all articles, or only those in folderID
	// when it is non-empty.
	ListArticles(ctx context.Context, folderID string) ([]Article, error)
	GetArticle(ctx context.Context, id string) (Article, error)
	PutArticle(ctx context.Context, a Article) error
	DeleteArticle(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) error
}
