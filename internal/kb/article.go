package kb

import "github.com/brightdesk/portal/internal/quiz"

// Folder groups articles in the knowledge-base tree.
type Folder struct {
	ID          string `json:"id"`
	ParentID    string `json:"parent_id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	CreatedBy   string `json:"created_by,omitempty"`
	CreatedAt   int64  `json:"created_at"`
}

// Article is a knowledge-base entry. It owns zero or more quizzes;
// deleting the article removes them with it.
type Article struct {
	ID        string      `json:"id"`
	FolderID  string      `json:"folder_id,omitempty"`
	Title     string      `json:"title"`
	Content   string      `json:"content"`
	Category  string      `json:"category"`
	Tags      []string    `json:"tags,omitempty"`
	Views     int         `json:"views"`
	Author    string      `json:"author,omitempty"`
	AuthorID  string      `json:"author_id,omitempty"`
	Quizzes   []quiz.Quiz `json:"quizzes,omitempty"`
	CreatedAt int64       `json:"created_at"`
	UpdatedAt int64       `json:"updated_at"`
}

// QuizByID finds a quiz on the article.
func (a Article) QuizByID(id string) (quiz.Quiz, bool) {
	for _, qz := range a.Quizzes {
		if qz.ID == id {
			return qz, true
		}
	}
	return quiz.Quiz{}, false
}

// UpsertQuiz replaces the quiz with the same ID or appends it.
func (a Article) UpsertQuiz(qz quiz.Quiz) Article {
	out := append([]quiz.Quiz(nil), a.Quizzes...)
	for i := range out {
		if out[i].ID == qz.ID {
			out[i] = qz
			a.Quizzes = out
			return a
		}
	}
	a.Quizzes = append(out, qz)
	return a
}

// RemoveQuiz drops the quiz with the given ID, if present.
func (a Article) RemoveQuiz(id string) Article {
	out := make([]quiz.Quiz, 0, len(a.Quizzes))
	for _, qz := range a.Quizzes {
		if qz.ID != id {
			out = append(out, qz)
		}
	}
	a.Quizzes = out
	return a
}
