package quiz

// Status of one taking session.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusSubmitted  Status = "submitted"
)

// Answer is one slot of an attempt. Answered=false means the slot is
// untouched. Single answers use Choice; Multiple answers use Choices
// (an empty set still counts as not submittable).
type Answer struct {
	Answered bool  `json:"answered"`
	Choice   int   `json:"choice,omitempty"`
	Choices  []int `json:"choices,omitempty"`
}

// Attempt is the ephemeral state of one taker working through a quiz.
// Every operation returns the next state; nothing mutates in place, so
// a caller can keep the previous value around or discard the attempt
// at any point without leaving a trace.
type Attempt struct {
	Quiz    Quiz     `json:"quiz"`
	Answers []Answer `json:"answers"`
	Current int      `json:"current"`
	Status  Status   `json:"status"`
}

// NewAttempt starts a fresh session at question 0 with all slots
// unanswered.
func NewAttempt(qz Quiz) Attempt {
	return Attempt{
		Quiz:    qz,
		Answers: make([]Answer, len(qz.Questions)),
		Status:  StatusInProgress,
	}
}

// RecordAnswer overwrites the slot at the current question. No-op once
// submitted.
func (a Attempt) RecordAnswer(ans Answer) Attempt {
	if a.Status != StatusInProgress || len(a.Answers) == 0 {
		return a
	}
	out := append([]Answer(nil), a.Answers...)
	ans.Answered = true
	out[a.Current] = ans
	a.Answers = out
	return a
}

// Choose records a single-choice answer for the current question.
func (a Attempt) Choose(idx int) Attempt {
	return a.RecordAnswer(Answer{Choice: idx})
}

// ToggleChoice flips membership of idx in the current multi-choice
// answer. It is a convenience built on RecordAnswer.
func (a Attempt) ToggleChoice(idx int) Attempt {
	if a.Status != StatusInProgress || len(a.Answers) == 0 {
		return a
	}
	cur := a.Answers[a.Current]
	next := make([]int, 0, len(cur.Choices)+1)
	removed := false
	for _, c := range cur.Choices {
		if c == idx {
			removed = true
			continue
		}
		next = append(next, c)
	}
	if !removed {
		next = append(next, idx)
	}
	return a.RecordAnswer(Answer{Choices: next})
}

// GoTo moves to question idx, clamped to the valid range. Navigation
// is free in both directions; no-op once submitted.
func (a Attempt) GoTo(idx int) Attempt {
	if a.Status != StatusInProgress {
		return a
	}
	if idx < 0 {
		idx = 0
	}
	if max := len(a.Answers) - 1; idx > max {
		idx = max
	}
	if idx < 0 {
		idx = 0
	}
	a.Current = idx
	return a
}

func (a Attempt) Next() Attempt { return a.GoTo(a.Current + 1) }
func (a Attempt) Prev() Attempt { return a.GoTo(a.Current - 1) }

// CanSubmit reports whether every slot holds an answer, with
// multi-choice slots required to be non-empty sets.
func (a Attempt) CanSubmit() bool {
	for _, ans := range a.Answers {
		if !ans.Answered {
			return false
		}
		if ans.Choices != nil && len(ans.Choices) == 0 {
			return false
		}
	}
	return true
}

// Submit freezes the attempt and derives the result. Rejected (state
// unchanged, ok=false) while any question is unanswered or the
// attempt is already submitted.
func (a Attempt) Submit() (Attempt, Result, bool) {
	if a.Status != StatusInProgress || !a.CanSubmit() {
		return a, Result{}, false
	}
	a.Status = StatusSubmitted
	return a, Score(a.Quiz, a.Answers), true
}

// Retry restarts the session from scratch: same quiz, all slots
// cleared, back at question 0.
func (a Attempt) Retry() Attempt {
	return NewAttempt(a.Quiz)
}
