package format

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/probekit/probekit/internal/check"
)

// TextFormatter renders a fixed human-readable layout: a title, status
// and timestamp lines, a Checks section with one title-cased header per
// check, then (when the rollup is present) a Report Summary block and a
// bulleted Recommendations block. The layout is a formatting contract;
// tests verify it byte-for-byte, so detail keys are emitted in sorted
// order to keep output deterministic.
type TextFormatter struct{}

// FormatOutput implements Formatter.
func (f *TextFormatter) FormatOutput(report check.Report) (string, error) {
	var sb strings.Builder

	sb.WriteString("Health Check Report\n")
	sb.WriteString("===================\n")
	sb.WriteString(fmt.Sprintf("Status: %s\n", report.Status))
	sb.WriteString(fmt.Sprintf("Timestamp: %s\n", report.Timestamp.Format(time.RFC3339)))

	sb.WriteString("\nChecks:\n")
	if report.Checks != nil {
		for _, name := range report.Checks.Names() {
			res, _ := report.Checks.Get(name)
			sb.WriteString("\n")
			sb.WriteString(titleCase(name))
			sb.WriteString(":\n")
			sb.WriteString(fmt.Sprintf("  Status: %s\n", res.Status))
			if res.Error != "" {
				sb.WriteString(fmt.Sprintf("  Error: %s\n", res.Error))
			}
			writeDetails(&sb, res.Details, "  ")
		}
	}

	if report.Rollup != nil {
		s := report.Rollup.Summary
		sb.WriteString("\nReport Summary:\n")
		sb.WriteString(fmt.Sprintf("  Total Checks: %d\n", s.TotalChecks))
		sb.WriteString(fmt.Sprintf("  Healthy Checks: %d\n", s.HealthyChecks))
		sb.WriteString(fmt.Sprintf("  Unhealthy Checks: %d\n", s.UnhealthyChecks))
		sb.WriteString(fmt.Sprintf("  Error Checks: %d\n", s.ErrorChecks))
		sb.WriteString(fmt.Sprintf("  Health Percentage: %.1f%%\n", s.HealthPercentage))

		if len(report.Rollup.Recommendations) > 0 {
			sb.WriteString("\nRecommendations:\n")
			for _, rec := range report.Rollup.Recommendations {
				sb.WriteString(fmt.Sprintf("  - %s\n", rec))
			}
		}
	}

	return sb.String(), nil
}

// FormatError implements Formatter.
func (f *TextFormatter) FormatError(message string) string {
	return fmt.Sprintf("Error: %s", message)
}

// writeDetails emits flattened key/value lines for a details map.
// Nested mappings get their own sub-header and a deeper indent. Keys are
// sorted so output is deterministic.
func writeDetails(sb *strings.Builder, details map[string]any, indent string) {
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		switch v := details[k].(type) {
		case map[string]any:
			sb.WriteString(fmt.Sprintf("%s%s:\n", indent, titleCase(k)))
			writeDetails(sb, v, indent+"  ")
		default:
			sb.WriteString(fmt.Sprintf("%s%s: %v\n", indent, titleCase(k), v))
		}
	}
}

// titleCase turns identifiers like "latency_ms" or "database" into
// headers like "Latency Ms" and "Database".
func titleCase(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-' || unicode.IsSpace(r)
	})
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
