// Package format renders aggregated check reports as strings. Three
// variants exist: json, yaml, and human-readable text. All render the
// same report shape; the structured variants preserve check order on
// the wire.
package format

import (
	"fmt"

	"github.com/probekit/probekit/internal/check"
)

// Formatter renders a report (or a bare error) as a string. A non-nil
// error from FormatOutput means the report could not be encoded at all;
// that indicates a contract violation upstream and is deliberately the
// one fault this layer propagates.
type Formatter interface {
	FormatOutput(report check.Report) (string, error)
	FormatError(message string) string
}

// Kinds accepted by New. The set is closed; commands validate their
// --output flag against it before running.
const (
	KindJSON = "json"
	KindYAML = "yaml"
	KindText = "text"
)

// New returns the formatter for kind, or an error for anything outside
// the known set.
func New(kind string) (Formatter, error) {
	switch kind {
	case KindJSON:
		return &JSONFormatter{}, nil
	case KindYAML:
		return &YAMLFormatter{}, nil
	case KindText:
		return &TextFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (valid: %s, %s, %s)",
			kind, KindJSON, KindYAML, KindText)
	}
}

// Kinds returns the valid format kinds.
func Kinds() []string {
	return []string{KindJSON, KindYAML, KindText}
}
