// Package redactor implements the streaming PII redaction engine: an ordered
// chain of pattern detectors applied line by line, a per-run synthetic value
// cache, per-category counters, and a normalized privacy risk score.
package redactor

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"

	veilotel "github.com/veilproj/veil/internal/otel"
)

var tracer = veilotel.Tracer("github.com/veilproj/veil/internal/redactor")

// Counters tallies substitutions per category group for one run.
type Counters struct {
	Emails  int `json:"emails"`
	IPs     int `json:"ips"`
	Secrets int `json:"secrets"`
	URLs    int `json:"urls"`
	AWSKeys int `json:"aws_keys"`
	JWTs    int `json:"jwts"`
	Phones  int `json:"phones"`
}

// Total returns the sum of all counter buckets.
func (c Counters) Total() int {
	return c.Emails + c.IPs + c.Secrets + c.URLs + c.AWSKeys + c.JWTs + c.Phones
}

// Result is the immutable outcome of one redaction run.
type Result struct {
	RedactedText       string   `json:"redacted_text"`
	Counts             Counters `json:"counts"`
	PIIScore           float64  `json:"pii_score"`
	NERAvailable       bool     `json:"ner_available"`
	SyntheticAvailable bool     `json:"synthetic_available"`
	Entities           []Entity `json:"entities,omitempty"`
}

// Engine holds the compiled detector chain and the optional capabilities.
// It is immutable after construction and safe for concurrent use: all
// mutable state lives in per-call Run instances.
type Engine struct {
	detectors []Detector
	synth     Synthesizer
	ner       Recognizer
}

// Option configures an Engine via the functional options pattern.
type Option func(*engineConfig)

type engineConfig struct {
	patternFile string
	overrides   []RecognizerConfig
	synth       Synthesizer
	ner         Recognizer
}

// WithPatternFile loads recognizer overrides from a YAML file. A missing
// file is silently skipped. Overrides replace built-in recognizers by name
// without changing pipeline order.
func WithPatternFile(path string) Option {
	return func(c *engineConfig) { c.patternFile = path }
}

// WithRecognizerOverrides applies in-memory recognizer overrides, layered
// after any pattern file.
func WithRecognizerOverrides(overrides []RecognizerConfig) Option {
	return func(c *engineConfig) { c.overrides = overrides }
}

// WithSynthesizer sets the synthetic value generator capability.
func WithSynthesizer(s Synthesizer) Option {
	return func(c *engineConfig) { c.synth = s }
}

// WithRecognizer sets the named-entity recognizer capability.
func WithRecognizer(r Recognizer) Option {
	return func(c *engineConfig) { c.ner = r }
}

// New builds an Engine from the embedded default recognizers plus any
// configured overrides. Without options both capabilities are absent and
// every category redacts to its fixed placeholder.
func New(opts ...Option) (*Engine, error) {
	cfg := engineConfig{
		synth: NoSynthesizer{},
		ner:   NoRecognizer{},
	}
	for _, o := range opts {
		o(&cfg)
	}

	defaults, err := DefaultRecognizers()
	if err != nil {
		return nil, fmt.Errorf("loading default recognizers: %w", err)
	}

	var layers [][]RecognizerConfig
	if cfg.patternFile != "" {
		rf, err := LoadRecognizerFile(cfg.patternFile)
		if err != nil {
			return nil, fmt.Errorf("loading pattern file: %w", err)
		}
		if rf != nil {
			layers = append(layers, rf.Recognizers)
		}
	}
	if len(cfg.overrides) > 0 {
		layers = append(layers, cfg.overrides)
	}

	merged, err := MergeRecognizers(defaults, layers...)
	if err != nil {
		return nil, fmt.Errorf("merging recognizers: %w", err)
	}

	detectors, err := CompileDetectors(merged)
	if err != nil {
		return nil, fmt.Errorf("compiling detectors: %w", err)
	}

	return &Engine{detectors: detectors, synth: cfg.synth, ner: cfg.ner}, nil
}

// MustNew is like New but panics on error. The embedded defaults are
// expected to always compile, so zero-config startup uses this.
func MustNew(opts ...Option) *Engine {
	e, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("redactor.New: %v", err))
	}
	return e
}

// Detectors returns the active detector chain in application order.
func (e *Engine) Detectors() []Detector {
	out := make([]Detector, len(e.detectors))
	copy(out, e.detectors)
	return out
}

// SyntheticAvailable reports whether the synthetic generator capability is active.
func (e *Engine) SyntheticAvailable() bool { return e.synth.Available() }

// NERAvailable reports whether the NER capability is active.
func (e *Engine) NERAvailable() bool { return e.ner.Available() }

// Entities runs the optional named-entity recognizer over text. Advisory
// only: the pattern pipeline does not substitute these spans. Returns an
// empty slice when the capability is absent.
func (e *Engine) Entities(ctx context.Context, text string) []Entity {
	return e.ner.Extract(ctx, text)
}

// Run is the mutable state of one redaction pass: counters, the synthetic
// value cache, and the scorer accumulator. Create one per document with
// NewRun and feed it lines; it is not safe for concurrent use.
type Run struct {
	id       string
	engine   *Engine
	counters Counters
	cache    *syntheticCache
	tally    scoreTally
}

// NewRun allocates fresh per-document state. Nothing is shared between
// runs, so concurrent runs need no locking.
func (e *Engine) NewRun() *Run {
	return &Run{
		id:     uuid.NewString(),
		engine: e,
		cache:  newSyntheticCache(e.synth),
	}
}

// RedactLine applies the detector chain to one line and returns the
// rewritten line, updating counters. Each detector scans the output of the
// previous one, never the original line: a later pattern can legitimately
// match text produced by an earlier replacement, and that sequential
// semantics is part of the compatibility contract. Newline characters pass
// through verbatim.
func (r *Run) RedactLine(line string) string {
	r.tally.observe(line)
	out := line
	for i := range r.engine.detectors {
		d := &r.engine.detectors[i]
		out = d.Pattern.ReplaceAllStringFunc(out, func(match string) string {
			return r.substitute(d.Category, match)
		})
	}
	return out
}

// substitute produces the replacement for one match and bumps exactly one
// counter bucket. EMAIL and PHONE go through the synthetic cache; SECRET
// keeps the key name; everything else gets the fixed placeholder.
func (r *Run) substitute(category Category, match string) string {
	switch category {
	case CategoryEmail:
		r.counters.Emails++
		return r.cache.replacement(category, match)
	case CategoryPhone:
		r.counters.Phones++
		return r.cache.replacement(category, match)
	case CategorySecret:
		key, value, _ := strings.Cut(match, "=")
		// Re-running redaction must be a no-op: a value that is already the
		// placeholder passes through without bumping the counter.
		if value == CategorySecret.Placeholder() {
			return match
		}
		r.counters.Secrets++
		return key + "=" + CategorySecret.Placeholder()
	case CategoryIP:
		r.counters.IPs++
	case CategoryURL:
		r.counters.URLs++
	case CategoryAWSKey:
		r.counters.AWSKeys++
	case CategoryJWT:
		r.counters.JWTs++
	}
	return category.Placeholder()
}

// Counters returns a snapshot of the per-category tallies so far.
func (r *Run) Counters() Counters { return r.counters }

// Score returns the current risk score, rounded to one decimal.
func (r *Run) Score() float64 {
	return roundScore(r.tally.score(r.counters.Total()))
}

// result assembles the immutable outcome from the run's final state.
func (r *Run) result(redacted string, entities []Entity) *Result {
	return &Result{
		RedactedText:       redacted,
		Counts:             r.counters,
		PIIScore:           r.Score(),
		NERAvailable:       r.engine.ner.Available(),
		SyntheticAvailable: r.engine.synth.Available(),
		Entities:           entities,
	}
}

// Redact performs a buffered redaction of the whole text: split into
// newline-preserving lines, run each through the detector chain, and
// assemble the result with counters, score, and advisory NER entities.
// All input is treated as plain text; there is no malformed-input error.
func (e *Engine) Redact(ctx context.Context, text string) *Result {
	ctx, span := tracer.Start(ctx, "redactor.redact")
	defer span.End()

	run := e.NewRun()
	var sb strings.Builder
	sb.Grow(len(text))
	for _, line := range splitAfterNewlines(text) {
		sb.WriteString(run.RedactLine(line))
	}

	res := run.result(sb.String(), e.ner.Extract(ctx, text))

	span.SetAttributes(
		attribute.Int("redact.total", res.Counts.Total()),
		attribute.Float64("redact.pii_score", res.PIIScore),
		attribute.Int("redact.entities", len(res.Entities)),
	)
	log.Debug().
		Str("run_id", run.id).
		Int("redactions", res.Counts.Total()).
		Float64("pii_score", res.PIIScore).
		Msg("redaction_complete")

	return res
}

// RedactStream redacts src line by line into dst without buffering the
// document. The returned Result carries counters and score but an empty
// RedactedText (the text has already been written) and no NER entities
// (entity extraction needs the full text and is buffered-mode only).
func (e *Engine) RedactStream(ctx context.Context, src io.Reader, dst io.Writer) (*Result, error) {
	_, span := tracer.Start(ctx, "redactor.redact_stream")
	defer span.End()

	run := e.NewRun()
	reader := bufio.NewReader(src)
	writer := bufio.NewWriter(dst)

	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			if _, werr := writer.WriteString(run.RedactLine(line)); werr != nil {
				return nil, fmt.Errorf("writing redacted line: %w", werr)
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading input: %w", err)
		}
	}
	if err := writer.Flush(); err != nil {
		return nil, fmt.Errorf("flushing redacted output: %w", err)
	}

	res := run.result("", nil)
	span.SetAttributes(
		attribute.Int("redact.total", res.Counts.Total()),
		attribute.Float64("redact.pii_score", res.PIIScore),
	)
	log.Debug().
		Str("run_id", run.id).
		Int("redactions", res.Counts.Total()).
		Float64("pii_score", res.PIIScore).
		Msg("stream_redaction_complete")

	return res, nil
}

// Scan analyzes text without returning the rewritten form: counters, score,
// and entities only. Used by the analysis endpoint and CLI.
func (e *Engine) Scan(ctx context.Context, text string) *Result {
	res := e.Redact(ctx, text)
	res.RedactedText = ""
	return res
}

// splitAfterNewlines splits text into segments that each keep their trailing
// '\n' (and therefore any preceding '\r'), so concatenating the segments
// reproduces the input byte for byte. A final segment without a newline is
// kept as-is.
func splitAfterNewlines(text string) []string {
	if text == "" {
		return nil
	}
	var lines []string
	start := 0
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			lines = append(lines, text[start:i+1])
			start = i + 1
		}
	}
	if start < len(text) {
		lines = append(lines, text[start:])
	}
	return lines
}
