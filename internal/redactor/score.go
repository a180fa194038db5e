package redactor

import (
	"math"
	"strings"
)

// riskyKeywords bump the score when present anywhere in the original text,
// case-insensitive, counted once each.
var riskyKeywords = [...]string{"password", "secret", "token", "key", "credential"}

// scoreTally accumulates the scorer's inputs line by line so the streaming
// mode never has to hold the whole document. Summing per-line word counts
// equals counting words over the full text, and no risky keyword can span a
// line boundary (none contains whitespace), so the per-line OR of keyword
// hits equals a whole-text substring check.
type scoreTally struct {
	words int
	seen  [len(riskyKeywords)]bool
}

func (t *scoreTally) observe(line string) {
	t.words += len(strings.Fields(line))
	lower := strings.ToLower(line)
	for i, kw := range riskyKeywords {
		if !t.seen[i] && strings.Contains(lower, kw) {
			t.seen[i] = true
		}
	}
}

// score produces the 0-100 privacy risk score. Redactions are normalized
// against document length in units of ten words, weighted 0.7, plus 3 points
// per distinct risky keyword, capped at 100. The exact weights are part of
// the compatibility contract.
func (t *scoreTally) score(redactions int) float64 {
	if t.words == 0 {
		return 0
	}
	ratio := math.Min(float64(redactions)/math.Max(float64(t.words)/10, 1)*100, 100)

	risky := 0
	for _, hit := range t.seen {
		if hit {
			risky++
		}
	}

	return math.Min(ratio*0.7+float64(risky)*3, 100)
}

// Score computes the privacy risk score for a complete text given the number
// of redactions performed on it. Empty or whitespace-only text scores 0.
func Score(text string, redactions int) float64 {
	var t scoreTally
	t.observe(text)
	return t.score(redactions)
}

// roundScore rounds to one decimal for the response payload.
func roundScore(s float64) float64 {
	return math.Round(s*10) / 10
}
