package quiz

import "math"

// Result is derived at submit time and never stored.
type Result struct {
	Correct      int  `json:"correct"`
	Total        int  `json:"total"`
	ScorePercent int  `json:"score_percent"`
	Passed       bool `json:"passed"`
}

// Score grades answers against qz's answer keys. Single questions
// compare the chosen index; Multiple questions require exact set
// equality with the key, so an extra or missing selection scores the
// whole question as wrong. The percent rounds half-up.
func Score(qz Quiz, answers []Answer) Result {
	res := Result{Total: len(qz.Questions)}
	for i, q := range qz.Questions {
		if i >= len(answers) || !answers[i].Answered {
			continue
		}
		if gradeOne(q, answers[i]) {
			res.Correct++
		}
	}
	if res.Total > 0 {
		res.ScorePercent = int(math.Floor(float64(res.Correct)/float64(res.Total)*100 + 0.5))
	}
	res.Passed = res.ScorePercent >= qz.PassingScore
	return res
}

func gradeOne(q Question, ans Answer) bool {
	switch q.Kind {
	case KindSingle:
		return ans.Choices == nil && ans.Choice == q.Correct
	case KindMultiple:
		return equalIntSets(ans.Choices, q.CorrectSet)
	}
	return false
}

// equalIntSets compares order-insensitively, duplicates counted.
func equalIntSets(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	seen := map[int]int{}
	for _, v := range a {
		seen[v]++
	}
	for _, v := range b {
		seen[v]--
	}
	for _, n := range seen {
		if n != 0 {
			return false
		}
	}
	return true
}
