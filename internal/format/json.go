package format

import (
	"encoding/json"
	"fmt"

	"github.com/probekit/probekit/internal/check"
)

// JSONFormatter serializes reports as indented JSON. Check order is
// preserved through the report's ordered mapping.
type JSONFormatter struct{}

// FormatOutput implements Formatter.
func (f *JSONFormatter) FormatOutput(report check.Report) (string, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding report as JSON: %w", err)
	}
	return string(data), nil
}

// errorEnvelope is the shared error shape for the structured variants.
type errorEnvelope struct {
	Status string `json:"status" yaml:"status"`
	Error  string `json:"error" yaml:"error"`
}

// FormatError implements Formatter.
func (f *JSONFormatter) FormatError(message string) string {
	data, err := json.MarshalIndent(errorEnvelope{
		Status: string(check.StatusError),
		Error:  message,
	}, "", "  ")
	if err != nil {
		// A two-string struct cannot fail to encode; fall back anyway.
		return fmt.Sprintf(`{"status":"error","error":%q}`, message)
	}
	return string(data)
}
