// Package ner provides the optional named-entity recognizer capability
// backed by the prose NLP library. Initialization failure degrades to an
// absent capability; extraction never returns an error to the pipeline.
package ner

import (
	"context"
	"fmt"
	"strings"

	prose "github.com/jdkato/prose/v2"
	"github.com/rs/zerolog/log"

	"github.com/veilproj/veil/internal/redactor"
)

// labelCategories maps prose entity labels to redactor categories. Labels
// outside this map are dropped. PRODUCT spans are recognized but, like all
// NER spans, stay advisory: the substitution pass never consumes them.
var labelCategories = map[string]redactor.Category{
	"PERSON":       redactor.CategoryPerson,
	"GPE":          redactor.CategoryGPE,
	"ORG":          redactor.CategoryOrganization,
	"ORGANIZATION": redactor.CategoryOrganization,
	"PRODUCT":      redactor.CategoryProduct,
}

// Prose is the prose-backed Recognizer.
type Prose struct{}

// New probes the prose model once so capability detection happens at
// process start rather than on the first request. Returns an error when the
// model cannot run; callers degrade to redactor.NoRecognizer.
func New() (*Prose, error) {
	if _, err := prose.NewDocument("probe", prose.WithSegmentation(false)); err != nil {
		return nil, fmt.Errorf("initializing prose model: %w", err)
	}
	return &Prose{}, nil
}

// Available reports the capability as active.
func (*Prose) Available() bool { return true }

// Extract returns entity spans for the supported categories. Offsets are
// byte positions into text, recovered by scanning forward for each entity
// mention (prose reports entity text and label only). Failures are logged
// and yield an empty result, never an error.
func (*Prose) Extract(ctx context.Context, text string) []redactor.Entity {
	doc, err := prose.NewDocument(text, prose.WithSegmentation(false))
	if err != nil {
		log.Debug().Err(err).Msg("ner_extract_failed")
		return nil
	}

	var out []redactor.Entity
	cursor := 0
	for _, ent := range doc.Entities() {
		category, ok := labelCategories[ent.Label]
		if !ok {
			continue
		}
		idx := strings.Index(text[cursor:], ent.Text)
		if idx < 0 {
			// Mentions arrive in document order; a miss past the cursor
			// means tokenization rewrote the surface form. Skip it.
			continue
		}
		start := cursor + idx
		end := start + len(ent.Text)
		out = append(out, redactor.Entity{
			Text:     ent.Text,
			Category: category,
			Start:    start,
			End:      end,
		})
		cursor = end
	}
	return out
}
