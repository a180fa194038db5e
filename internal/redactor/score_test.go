package redactor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		redactions int
		want       float64
	}{
		{
			name: "empty text scores zero",
			text: "", redactions: 5, want: 0,
		},
		{
			name: "whitespace only scores zero",
			text: "   \n\t ", redactions: 5, want: 0,
		},
		{
			name: "clean text with no redactions",
			text: "nothing to see here", redactions: 0, want: 0,
		},
		{
			name: "one redaction in one word saturates the ratio",
			text: "password=hunter2", redactions: 1, want: 73, // 100*0.7 + 1 keyword
		},
		{
			name: "keywords only",
			text: "my password and secret token key credential list", redactions: 0, want: 15,
		},
		{
			name: "keyword matching is case-insensitive",
			text: "PASSWORD rules apply", redactions: 0, want: 3,
		},
		{
			name: "ratio normalized per ten words",
			// 20 words, 1 redaction: 1/2*100 = 50, *0.7 = 35.
			text: "w w w w w w w w w w w w w w w w w w w w", redactions: 1, want: 35,
		},
		{
			name: "ratio capped before weighting",
			// Ratio saturates at 100 no matter how many redactions,
			// so 100*0.7 plus four keywords.
			text: "password secret token credential", redactions: 50, want: 82,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Score(tt.text, tt.redactions), 1e-9)
		})
	}
}

func TestScoreTallyMatchesWholeText(t *testing.T) {
	text := "alpha beta\ngamma password\ndelta"

	var t1 scoreTally
	t1.observe(text)

	var t2 scoreTally
	for _, line := range splitAfterNewlines(text) {
		t2.observe(line)
	}

	assert.Equal(t, t1.words, t2.words)
	assert.Equal(t, t1.seen, t2.seen)
	assert.InDelta(t, t1.score(2), t2.score(2), 1e-12)
}

func TestRoundScore(t *testing.T) {
	assert.Equal(t, 73.0, roundScore(72.99999999999999))
	assert.Equal(t, 0.1, roundScore(0.06))
	assert.Equal(t, 0.0, roundScore(0.04))
}
