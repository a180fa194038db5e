package cmd

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/veilproj/veil/internal/config"
	"github.com/veilproj/veil/internal/ner"
	"github.com/veilproj/veil/internal/redactor"
	"github.com/veilproj/veil/internal/synth"
)

// buildEngine assembles the redaction engine from config, resolving both
// optional capabilities once at startup. Capability failures degrade to the
// absent variant with a warning; only pattern problems are hard errors.
func buildEngine(cfg *config.Config) (*redactor.Engine, error) {
	opts := []redactor.Option{}

	if cfg.PatternFile != "" {
		opts = append(opts, redactor.WithPatternFile(cfg.PatternFile))
	}

	if cfg.SyntheticEnabled {
		opts = append(opts, redactor.WithSynthesizer(synth.New(cfg.SyntheticSeed)))
	} else {
		log.Debug().Msg("synthetic_generation_disabled")
	}

	if cfg.NEREnabled {
		rec, err := ner.New()
		if err != nil {
			log.Warn().Err(err).Msg("NER model unavailable, pattern-based redaction only")
		} else {
			opts = append(opts, redactor.WithRecognizer(rec))
		}
	} else {
		log.Debug().Msg("ner_disabled")
	}

	engine, err := redactor.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("building redaction engine: %w", err)
	}
	return engine, nil
}
