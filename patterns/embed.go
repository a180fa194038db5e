// Package patterns provides the embedded default recognizer definitions.
// The YAML file lists one recognizer per category; file order is the order
// the redaction pipeline applies them in, so it must not be reshuffled.
package patterns

import _ "embed"

//go:embed pii_core.yaml
var piiCoreYAML []byte

// PIICoreYAML returns the embedded core PII recognizer definitions.
func PIICoreYAML() []byte { return piiCoreYAML }
