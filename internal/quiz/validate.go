package quiz

import (
	"fmt"
	"strings"
)

// Violation describes one save-blocking problem. Authoring stays
// permissive in memory; callers run validation as a gate before
// persisting and surface the first violation to the user.
type Violation struct {
	QuestionID string `json:"question_id,omitempty"`
	Message    string `json:"message"`
}

func (v Violation) String() string {
	if v.QuestionID == "" {
		return v.Message
	}
	return fmt.Sprintf("question %s: %s", v.QuestionID, v.Message)
}

// ValidateQuestion checks a single question for save-readiness.
// Malformed input never panics or errors; it just produces violations.
func ValidateQuestion(q Question) []Violation {
	var out []Violation
	add := func(msg string) { out = append(out, Violation{QuestionID: q.ID, Message: msg}) }

	if strings.TrimSpace(q.Prompt) == "" {
		add("prompt is empty")
	}
	if len(q.Options) < MinOptions {
		add(fmt.Sprintf("needs at least %d options", MinOptions))
	}
	for i, opt := range q.Options {
		if strings.TrimSpace(opt) == "" {
			add(fmt.Sprintf("option %d is empty", i+1))
		}
	}

	switch q.Kind {
	case KindSingle:
		if len(q.CorrectSet) != 0 {
			add("single-choice question carries a multi-choice key")
		}
		if q.Correct < 0 || q.Correct >= len(q.Options) {
			add("correct option is not selected")
		}
	case KindMultiple:
		if len(q.CorrectSet) == 0 {
			add("no correct options selected")
		}
		for _, idx := range q.CorrectSet {
			if idx < 0 || idx >= len(q.Options) {
				add(fmt.Sprintf("correct option %d out of range", idx))
			}
		}
	default:
		add(fmt.Sprintf("unknown question kind %q", q.Kind))
	}
	return out
}

// ValidateQuiz is the save gate for a whole quiz.
func ValidateQuiz(qz Quiz) []Violation {
	var out []Violation
	if strings.TrimSpace(qz.Title) == "" {
		out = append(out, Violation{Message: "title is empty"})
	}
	if len(qz.Questions) == 0 {
		out = append(out, Violation{Message: "quiz has no questions"})
	}
	for _, q := range qz.Questions {
		out = append(out, ValidateQuestion(q)...)
	}
	return out
}
