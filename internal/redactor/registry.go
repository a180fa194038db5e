package redactor

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/veilproj/veil/patterns"
)

// RecognizerFile is the top-level YAML structure for a recognizer config file.
type RecognizerFile struct {
	Recognizers []RecognizerConfig `yaml:"recognizers"`
}

// RecognizerConfig is one declarative detector: a named regex bound to a
// pattern category. File order is application order.
type RecognizerConfig struct {
	Name     string `yaml:"name" json:"name"`
	Category string `yaml:"category" json:"category"`
	Regex    string `yaml:"regex" json:"regex"`
	Enabled  *bool  `yaml:"enabled,omitempty" json:"enabled,omitempty"`
}

// isEnabled returns true if the recognizer is enabled (defaults to true when nil).
func (r *RecognizerConfig) isEnabled() bool {
	if r.Enabled == nil {
		return true
	}
	return *r.Enabled
}

// Detector is a compiled, ready-to-run recognizer.
type Detector struct {
	Name     string
	Category Category
	Pattern  *regexp.Regexp
}

// ParseRecognizerFile parses recognizer YAML bytes into a RecognizerFile.
func ParseRecognizerFile(data []byte) (*RecognizerFile, error) {
	var rf RecognizerFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing recognizer YAML: %w", err)
	}
	return &rf, nil
}

// LoadRecognizerFile reads and parses a recognizer YAML file from disk.
// Returns nil (not an error) if the file does not exist, so callers can
// treat a missing override file as a no-op.
func LoadRecognizerFile(path string) (*RecognizerFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading recognizer file %s: %w", path, err)
	}
	return ParseRecognizerFile(data)
}

// DefaultRecognizers returns the built-in recognizers parsed from the
// embedded pii_core.yaml file, in pipeline order.
func DefaultRecognizers() ([]RecognizerConfig, error) {
	rf, err := ParseRecognizerFile(patterns.PIICoreYAML())
	if err != nil {
		return nil, fmt.Errorf("parsing embedded PII patterns: %w", err)
	}
	return rf.Recognizers, nil
}

// MergeRecognizers overlays override layers on the base list. An override
// matching a base recognizer by Name replaces it in place, keeping the base
// position so pipeline order is stable. Unknown names are rejected rather
// than appended: the category set is closed and every category already has
// exactly one slot in the chain.
func MergeRecognizers(base []RecognizerConfig, overrides ...[]RecognizerConfig) ([]RecognizerConfig, error) {
	index := make(map[string]int, len(base))
	merged := make([]RecognizerConfig, len(base))
	copy(merged, base)
	for i, rc := range base {
		index[rc.Name] = i
	}

	for _, layer := range overrides {
		for _, rc := range layer {
			idx, ok := index[rc.Name]
			if !ok {
				return nil, fmt.Errorf("unknown recognizer %q: overrides may only replace built-in recognizers", rc.Name)
			}
			merged[idx] = rc
		}
	}

	return merged, nil
}

// CompileDetectors converts recognizer configs into the compiled detector
// chain the pipeline runs. Disabled recognizers are skipped; categories
// outside the pattern set are rejected.
func CompileDetectors(recognizers []RecognizerConfig) ([]Detector, error) {
	detectors := make([]Detector, 0, len(recognizers))

	for _, rec := range recognizers {
		if !rec.isEnabled() {
			continue
		}
		cat := Category(rec.Category)
		if !patternCategories[cat] {
			return nil, fmt.Errorf("recognizer %q: category %q is not a pattern category", rec.Name, rec.Category)
		}
		compiled, err := regexp.Compile(rec.Regex)
		if err != nil {
			return nil, fmt.Errorf("compiling pattern in recognizer %q: %w", rec.Name, err)
		}
		detectors = append(detectors, Detector{
			Name:     rec.Name,
			Category: cat,
			Pattern:  compiled,
		})
	}

	return detectors, nil
}
