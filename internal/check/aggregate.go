package check

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// ResultMap is a name-to-result mapping that preserves insertion order,
// so rendered reports enumerate checks in the order they ran. It
// serializes as a plain mapping in both JSON and YAML.
type ResultMap struct {
	names   []string
	results map[string]Result
}

// NewResultMap creates an empty ResultMap.
func NewResultMap() *ResultMap {
	return &ResultMap{results: make(map[string]Result)}
}

// Add stores r under name, appending to the order on first insert.
func (m *ResultMap) Add(name string, r Result) {
	if m.results == nil {
		m.results = make(map[string]Result)
	}
	if _, exists := m.results[name]; !exists {
		m.names = append(m.names, name)
	}
	m.results[name] = r
}

// Get returns the result for name and whether it exists.
func (m *ResultMap) Get(name string) (Result, bool) {
	r, ok := m.results[name]
	return r, ok
}

// Names returns the check names in insertion order.
func (m *ResultMap) Names() []string {
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

// Len returns the number of results.
func (m *ResultMap) Len() int { return len(m.names) }

// MarshalJSON renders the mapping with keys in insertion order.
func (m ResultMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range m.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(m.results[name])
		if err != nil {
			return nil, fmt.Errorf("marshaling result %q: %w", name, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a mapping, keeping key order as encountered.
func (m *ResultMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected object for checks, got %v", tok)
	}

	m.names = nil
	m.results = make(map[string]Result)

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("expected string key, got %v", keyTok)
		}
		var r Result
		if err := dec.Decode(&r); err != nil {
			return fmt.Errorf("decoding result %q: %w", name, err)
		}
		if r.Name == "" {
			r.Name = name
		}
		m.Add(name, r)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// MarshalYAML renders the mapping as a yaml.Node so the encoder does not
// reorder keys.
func (m ResultMap) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, name := range m.names {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: name}
		valNode := &yaml.Node{}
		if err := valNode.Encode(m.results[name]); err != nil {
			return nil, fmt.Errorf("encoding result %q: %w", name, err)
		}
		node.Content = append(node.Content, keyNode, valNode)
	}
	return node, nil
}

// UnmarshalYAML reads a mapping, keeping key order as encountered.
func (m *ResultMap) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("expected mapping for checks, got %v", value.Kind)
	}

	m.names = nil
	m.results = make(map[string]Result)

	for i := 0; i+1 < len(value.Content); i += 2 {
		name := value.Content[i].Value
		var r Result
		if err := value.Content[i+1].Decode(&r); err != nil {
			return fmt.Errorf("decoding result %q: %w", name, err)
		}
		if r.Name == "" {
			r.Name = name
		}
		m.Add(name, r)
	}
	return nil
}

// Summary is the numeric roll-up of one check pass.
type Summary struct {
	TotalChecks      int     `json:"total_checks" yaml:"total_checks"`
	HealthyChecks    int     `json:"healthy_checks" yaml:"healthy_checks"`
	UnhealthyChecks  int     `json:"unhealthy_checks" yaml:"unhealthy_checks"`
	ErrorChecks      int     `json:"error_checks" yaml:"error_checks"`
	HealthPercentage float64 `json:"health_percentage" yaml:"health_percentage"`
}

// Rollup is the optional report section: the summary plus one heuristic
// recommendation per non-healthy check, in input order.
type Rollup struct {
	Summary         Summary  `json:"summary" yaml:"summary"`
	Recommendations []string `json:"recommendations" yaml:"recommendations"`
}

// Report is the combined outcome of a check pass.
type Report struct {
	ID        string     `json:"id" yaml:"id"`
	Status    Status     `json:"status" yaml:"status"`
	Timestamp time.Time  `json:"timestamp" yaml:"timestamp"`
	Checks    *ResultMap `json:"checks" yaml:"checks"`
	Rollup    *Rollup    `json:"report,omitempty" yaml:"report,omitempty"`
}

// Combine rolls a sequence of results into one report. Overall status
// precedence is error > unhealthy > healthy; an empty input is vacuously
// healthy with a health percentage of 0. The Rollup is always computed;
// callers that don't want it in the output clear the field before
// rendering.
func Combine(results []Result) Report {
	report := Report{
		ID:        uuid.NewString(),
		Status:    StatusHealthy,
		Timestamp: time.Now().UTC(),
		Checks:    NewResultMap(),
	}

	summary := Summary{TotalChecks: len(results)}
	recommendations := []string{}

	for _, r := range results {
		report.Checks.Add(r.Name, r)

		switch r.Status {
		case StatusHealthy:
			summary.HealthyChecks++
		case StatusUnhealthy:
			summary.UnhealthyChecks++
		case StatusError:
			summary.ErrorChecks++
		}

		if r.Status != StatusHealthy {
			recommendations = append(recommendations,
				fmt.Sprintf("investigate %s: status=%s", r.Name, r.Status))
		}
	}

	switch {
	case summary.ErrorChecks > 0:
		report.Status = StatusError
	case summary.UnhealthyChecks > 0:
		report.Status = StatusUnhealthy
	}

	if summary.TotalChecks > 0 {
		summary.HealthPercentage = float64(summary.HealthyChecks) / float64(summary.TotalChecks) * 100
	}

	report.Rollup = &Rollup{
		Summary:         summary,
		Recommendations: recommendations,
	}
	return report
}
