package kb

import (
	"context"
	"sort"
	"sync"
)

// memoryStore keeps everything in maps behind a mutex. It backs tests
// and small single-node deployments.
type memoryStore struct {
	mu       sync.RWMutex
	folders  map[string]Folder
	articles map[string]Article
}

func NewInMemoryStore() Store {
	return &memoryStore{
		folders:  map[string]Folder{},
		articles: map[string]Article{},
	}
}

func (m *memoryStore) ListFolders(ctx context.Context) ([]Folder, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Folder, 0, len(m.folders))
	for _, f := range m.folders {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (m *memoryStore) PutFolder(ctx context.Context, f Folder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.folders[f.ID] = f
	return nil
}

func (m *memoryStore) DeleteFolder(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.folders[id]; !ok {
		return ErrFolderNotFound
	}
	delete(m.folders, id)
	for aid, a := range m.articles {
		if a.FolderID == id {
			delete(m.articles, aid)
		}
	}
	return nil
}

func (m *memoryStore) ListArticles(ctx context.Context, folderID string) ([]Article, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Article, 0, len(m.articles))
	for _, a := range m.articles {
		if folderID != "" && a.FolderID != folderID {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out, nil
}

func (m *memoryStore) GetArticle(ctx context.Context, id string) (Article, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.articles[id]
	if !ok {
		return Article{}, ErrArticleNotFound
	}
	return a, nil
}

func (m *memoryStore) PutArticle(ctx context.Context, a Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.articles[a.ID] = a
	return nil
}

func (m *memoryStore) DeleteArticle(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.articles[id]; !ok {
		return ErrArticleNotFound
	}
	delete(m.articles, id)
	return nil
}

func (m *memoryStore) IncrementViews(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.articles[id]
	if !ok {
		return ErrArticleNotFound
	}
	a.Views++
	m.articles[id] = a
	return nil
}
