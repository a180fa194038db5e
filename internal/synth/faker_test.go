package synth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veilproj/veil/internal/redactor"
)

func TestFakerDeterministicWithSeed(t *testing.T) {
	a := New(42)
	b := New(42)

	for _, cat := range []redactor.Category{
		redactor.CategoryEmail,
		redactor.CategoryPhone,
		redactor.CategoryPerson,
	} {
		assert.Equal(t, a.Generate(cat, "x"), b.Generate(cat, "x"),
			"same seed must produce the same sequence for %s", cat)
	}
}

func TestFakerCategoryShapes(t *testing.T) {
	f := New(1)

	email := f.Generate(redactor.CategoryEmail, "alice@example.com")
	assert.Contains(t, email, "@")
	assert.NotEqual(t, "alice@example.com", email, "output must not echo the original")

	phone := f.Generate(redactor.CategoryPhone, "555-123-4567")
	require.NotEmpty(t, phone)
	assert.True(t, strings.ContainsAny(phone, "0123456789"))

	assert.NotEmpty(t, f.Generate(redactor.CategoryPerson, "Alice"))
	assert.NotEmpty(t, f.Generate(redactor.CategoryOrganization, "Acme"))
	assert.NotEmpty(t, f.Generate(redactor.CategoryGPE, "France"))
}

func TestFakerUnknownCategoryFallsBack(t *testing.T) {
	f := New(1)
	assert.Equal(t, "[REDACTED_JWT]", f.Generate(redactor.CategoryJWT, "x"))
	assert.Equal(t, "[REDACTED_SECRET]", f.Generate(redactor.CategorySecret, "x"))
}

func TestFakerAvailable(t *testing.T) {
	assert.True(t, New(0).Available())
}
