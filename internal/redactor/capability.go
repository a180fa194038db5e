package redactor

import "context"

// Synthesizer produces fake-but-plausible stand-ins for redacted values.
// Implementations report availability once at construction; an unavailable
// synthesizer is still safe to call and yields placeholders.
type Synthesizer interface {
	Available() bool
	Generate(category Category, original string) string
}

// Entity is a named-entity span found by a Recognizer.
type Entity struct {
	Text     string   `json:"text"`
	Category Category `json:"category"`
	Start    int      `json:"start"`
	End      int      `json:"end"`
}

// Recognizer is the optional NER capability. Extract must never fail:
// when the backing model is unusable it returns an empty slice.
type Recognizer interface {
	Available() bool
	Extract(ctx context.Context, text string) []Entity
}

// NoSynthesizer is the absent-capability Synthesizer: always placeholders.
type NoSynthesizer struct{}

func (NoSynthesizer) Available() bool { return false }

func (NoSynthesizer) Generate(category Category, _ string) string {
	return category.Placeholder()
}

// NoRecognizer is the absent-capability Recognizer: no entities, no errors.
type NoRecognizer struct{}

func (NoRecognizer) Available() bool { return false }

func (NoRecognizer) Extract(context.Context, string) []Entity { return nil }
