package quiz

import (
	"time"

	"github.com/brightdesk/portal/internal/identity"
)

// Editor creates quizzes and questions. It exists only to carry the
// injected ID source; all other authoring operations are pure
// package-level functions.
type Editor struct {
	ids identity.Source
}

func NewEditor(ids identity.Source) *Editor { return &Editor{ids: ids} }

// NewQuiz returns an empty draft owned by the given article.
func (e *Editor) NewQuiz(articleID string) Quiz {
	now := time.Now().Unix()
	return Quiz{
		ID:           e.ids.NewID(),
		ArticleID:    articleID,
		PassingScore: DefaultPassingScore,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// AddQuestion appends a fresh single-choice question with two empty
// options and option 0 marked correct. The new question's ID is
// returned so editing UIs can focus it.
func (e *Editor) AddQuestion(qz Quiz) (Quiz, string) {
	q := Question{
		ID:      e.ids.NewID(),
		Kind:    KindSingle,
		Options: []string{"", ""},
		Correct: 0,
	}
	qz.Questions = append(cloneQuestions(qz.Questions), q)
	return qz, q.ID
}

// QuestionPatch is a partial update; nil fields are left untouched.
// Changing Kind resets the answer key: Single defaults to option 0,
// Multiple starts with an empty set.
type QuestionPatch struct {
	Kind    *QuestionKind
	Prompt  *string
	Options []string
}

// UpdateQuestion merges patch into the question with the given id.
// Unknown ids are a silent no-op: the authoring UI issues updates
// optimistically and a stale reference is not user-actionable.
func UpdateQuestion(qz Quiz, id string, patch QuestionPatch) Quiz {
	return withQuestion(qz, id, func(q Question) Question {
		if patch.Kind != nil && *patch.Kind != q.Kind {
			q.Kind = *patch.Kind
			switch q.Kind {
			case KindSingle:
				q.Correct = 0
				q.CorrectSet = nil
			case KindMultiple:
				q.Correct = 0
				q.CorrectSet = []int{}
			}
		}
		if patch.Prompt != nil {
			q.Prompt = *patch.Prompt
		}
		if patch.Options != nil {
			q.Options = append([]string(nil), patch.Options...)
		}
		return q
	})
}

// DeleteQuestion removes the question with the given id, if present.
func DeleteQuestion(qz Quiz, id string) Quiz {
	out := make([]Question, 0, len(qz.Questions))
	for _, q := range cloneQuestions(qz.Questions) {
		if q.ID != id {
			out = append(out, q)
		}
	}
	qz.Questions = out
	return qz
}

// AddOption appends an empty option to the question.
func AddOption(qz Quiz, id string) Quiz {
	return withQuestion(qz, id, func(q Question) Question {
		q.Options = append(q.Options, "")
		return q
	})
}

// SetOption replaces the option text at idx. Out-of-range indices are
// ignored.
func SetOption(qz Quiz, id string, idx int, text string) Quiz {
	return withQuestion(qz, id, func(q Question) Question {
		if idx >= 0 && idx < len(q.Options) {
			q.Options[idx] = text
		}
		return q
	})
}

// DeleteOption removes the option at idx and re-indexes the answer
// key: every correct index greater than idx shifts down by one, and a
// correct index equal to idx drops out of the key (for Single this
// leaves NoCorrect). No-op at the two-option floor or for bad indices.
func DeleteOption(qz Quiz, id string, idx int) Quiz {
	return withQuestion(qz, id, func(q Question) Question {
		if len(q.Options) <= MinOptions || idx < 0 || idx >= len(q.Options) {
			return q
		}
		q.Options = append(q.Options[:idx], q.Options[idx+1:]...)
		switch q.Kind {
		case KindSingle:
			switch {
			case q.Correct == idx:
				q.Correct = NoCorrect
			case q.Correct > idx:
				q.Correct--
			}
		case KindMultiple:
			kept := q.CorrectSet[:0]
			for _, c := range q.CorrectSet {
				switch {
				case c == idx:
					// removed option, drop from key
				case c > idx:
					kept = append(kept, c-1)
				default:
					kept = append(kept, c)
				}
			}
			q.CorrectSet = kept
		}
		return q
	})
}

// ToggleCorrect marks option idx: for Single it replaces the correct
// option, for Multiple it flips membership in the key.
func ToggleCorrect(qz Quiz, id string, idx int) Quiz {
	return withQuestion(qz, id, func(q Question) Question {
		if idx < 0 || idx >= len(q.Options) {
			return q
		}
		switch q.Kind {
		case KindSingle:
			q.Correct = idx
		case KindMultiple:
			for i, c := range q.CorrectSet {
				if c == idx {
					q.CorrectSet = append(q.CorrectSet[:i], q.CorrectSet[i+1:]...)
					return q
				}
			}
			q.CorrectSet = append(q.CorrectSet, idx)
		}
		return q
	})
}

// SetPassingScore clamps percent to [0,100].
func SetPassingScore(qz Quiz, percent int) Quiz {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	qz.PassingScore = percent
	return qz
}

func SetTitle(qz Quiz, title string) Quiz {
	qz.Title = title
	return qz
}

func withQuestion(qz Quiz, id string, fn func(Question) Question) Quiz {
	qs := cloneQuestions(qz.Questions)
	for i := range qs {
		if qs[i].ID == id {
			qs[i] = fn(qs[i])
			qz.Questions = qs
			return qz
		}
	}
	return qz
}
