// Package synth provides the synthetic value generator capability backed by
// gofakeit. It produces structurally plausible stand-ins per category; the
// engine's per-run cache keeps them stable within a document.
package synth

import (
	"github.com/brianvoe/gofakeit/v7"

	"github.com/veilproj/veil/internal/redactor"
)

// Faker generates category-appropriate synthetic values.
type Faker struct {
	f *gofakeit.Faker
}

// New returns a Faker. A non-zero seed makes output deterministic, which
// operators use to get reproducible redacted documents in tests and demos.
func New(seed uint64) *Faker {
	return &Faker{f: gofakeit.New(seed)}
}

// Available reports the capability as active.
func (*Faker) Available() bool { return true }

// Generate returns a fake value matching the category's shape. The original
// value is ignored: referential consistency is the cache's job, and deriving
// output from the original would risk re-identification. Categories without
// a generator fall back to the fixed placeholder.
func (s *Faker) Generate(category redactor.Category, _ string) string {
	switch category {
	case redactor.CategoryEmail:
		return s.f.Email()
	case redactor.CategoryPhone:
		return s.f.PhoneFormatted()
	case redactor.CategoryPerson:
		return s.f.Name()
	case redactor.CategoryOrganization:
		return s.f.Company()
	case redactor.CategoryGPE:
		return s.f.Country()
	default:
		return category.Placeholder()
	}
}
