package command

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// Registry maps case-insensitive command names to factories. It is an
// explicit object rather than package state so tests get a fresh table
// and callers decide its lifetime (created once at startup, typically).
//
// Registration is expected to happen during single-threaded startup; the
// lock only guards against the occasional concurrent lookup.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]Factory
	log      logrus.FieldLogger
}

// NewRegistry creates an empty registry logging through log.
func NewRegistry(log logrus.FieldLogger) *Registry {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Registry{
		commands: make(map[string]Factory),
		log:      log,
	}
}

// Register stores the factory under the case-folded name. Re-registering
// an existing name overwrites it; the last registration wins. That is
// deliberate, so it logs a warning rather than failing.
func (r *Registry) Register(name string, factory Factory) {
	key := fold(name)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.commands[key]; exists {
		r.log.WithField("command", key).Warn("overwriting existing command registration")
	}
	r.commands[key] = factory
}

// Get returns the factory for name and whether it is registered.
func (r *Registry) Get(name string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.commands[fold(name)]
	return factory, ok
}

// List returns the registered names, sorted for stable output. Callers
// must not rely on the order as part of the contract.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Unregister removes name if present and reports whether it did.
func (r *Registry) Unregister(name string) bool {
	key := fold(name)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.commands[key]; !ok {
		return false
	}
	delete(r.commands, key)
	return true
}

// Help returns the full help text for name, assembled from a throwaway
// instance's metadata. The second return is false for unknown names.
func (r *Registry) Help(name string) (string, bool) {
	factory, ok := r.Get(name)
	if !ok {
		return "", false
	}
	cmd := factory()

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s - %s\n", cmd.Name(), cmd.Description()))
	if usage := cmd.Usage(); usage != "" {
		sb.WriteString(fmt.Sprintf("\nUsage:\n  %s\n", usage))
	}
	if examples := cmd.Examples(); len(examples) > 0 {
		sb.WriteString("\nExamples:\n")
		for _, ex := range examples {
			sb.WriteString(fmt.Sprintf("  %s\n", ex))
		}
	}
	return sb.String(), true
}

// UsageFor returns the usage line for name, false if unknown.
func (r *Registry) UsageFor(name string) (string, bool) {
	factory, ok := r.Get(name)
	if !ok {
		return "", false
	}
	return factory().Usage(), true
}

// ExamplesFor returns the example invocations for name, false if unknown.
func (r *Registry) ExamplesFor(name string) ([]string, bool) {
	factory, ok := r.Get(name)
	if !ok {
		return nil, false
	}
	return factory().Examples(), true
}

func fold(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
