package format

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/probekit/probekit/internal/check"
)

// YAMLFormatter serializes reports as YAML. The report's checks mapping
// marshals through yaml.Node, so keys come out in insertion order rather
// than sorted.
type YAMLFormatter struct{}

// FormatOutput implements Formatter.
func (f *YAMLFormatter) FormatOutput(report check.Report) (string, error) {
	data, err := yaml.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("encoding report as YAML: %w", err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}

// FormatError implements Formatter.
func (f *YAMLFormatter) FormatError(message string) string {
	data, err := yaml.Marshal(errorEnvelope{
		Status: string(check.StatusError),
		Error:  message,
	})
	if err != nil {
		return fmt.Sprintf("status: error\nerror: %s", message)
	}
	return strings.TrimRight(string(data), "\n")
}
