package quiz

// QuestionKind selects which answer-key field of a Question is in use.
type QuestionKind string

const (
	KindSingle   QuestionKind = "single"
	KindMultiple QuestionKind = "multiple"
)

// NoCorrect marks a Single question whose correct option has been
// removed and not re-chosen yet.
const NoCorrect = -1

// Question is a kind-tagged variant: for KindSingle only Correct is
// meaningful, for KindMultiple only CorrectSet. Authoring operations
// keep the unused field zeroed; switching Kind resets the key
// (Single defaults to option 0, Multiple starts empty).
type Question struct {
	ID         string       `json:"id"`
	Kind       QuestionKind `json:"kind"`
	Prompt     string       `json:"prompt"`
	Options    []string     `json:"options"`
	Correct    int          `json:"correct,omitempty"`
	CorrectSet []int        `json:"correct_set,omitempty"`
}

// Quiz is owned by exactly one knowledge-base article.
type Quiz struct {
	ID           string     `json:"id"`
	ArticleID    string     `json:"article_id"`
	Title        string     `json:"title"`
	Questions    []Question `json:"questions"`
	PassingScore int        `json:"passing_score"` // percent, 0..100
	CreatedAt    int64      `json:"created_at,omitempty"`
	UpdatedAt    int64      `json:"updated_at,omitempty"`
}

// MinOptions is the floor for a question's option list. DeleteOption
// refuses to go below it.
const MinOptions = 2

// DefaultPassingScore matches the value pre-filled for new quizzes.
const DefaultPassingScore = 70

// IsOptionCorrect reports whether option idx is part of q's answer key.
func IsOptionCorrect(q Question, idx int) bool {
	switch q.Kind {
	case KindSingle:
		return q.Correct == idx
	case KindMultiple:
		for _, i := range q.CorrectSet {
			if i == idx {
				return true
			}
		}
	}
	return false
}

func cloneQuestions(qs []Question) []Question {
	out := make([]Question, len(qs))
	copy(out, qs)
	for i := range out {
		out[i].Options = append([]string(nil), out[i].Options...)
		if out[i].CorrectSet != nil {
			out[i].CorrectSet = append([]int(nil), out[i].CorrectSet...)
		}
	}
	return out
}
