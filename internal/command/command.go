package command

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Command is a named unit of work driven through a fixed lifecycle by the
// Executor: Validate -> preExecute -> Run -> postExecute. Run yields a
// numeric exit code; 0 means success, anything else is failure.
type Command interface {
	// Name returns the unique identifier for this command.
	Name() string

	// Description returns a one-line summary shown in listings.
	Description() string

	// Usage returns the invocation synopsis (flags and arguments).
	Usage() string

	// Examples returns example invocations, one per entry.
	Examples() []string

	// Validate checks the arguments before any lifecycle stage begins.
	// A non-nil error aborts the run with exit code 1.
	Validate(args []string) error

	// Run performs the command's work and returns its exit code.
	// A non-nil error is treated as an execution fault by the Executor.
	Run(ctx context.Context, args []string) (int, error)
}

// Factory constructs a fresh Command instance. A new instance is created
// per invocation so timing state is never shared between runs.
type Factory func() Command

// Base carries the identity and timing state shared by all commands.
// Concrete commands embed Base and the Executor drives its lifecycle
// hooks; the hooks are not part of the public Command contract.
type Base struct {
	name        string
	description string

	startTime time.Time
	endTime   time.Time
}

// NewBase creates the embedded base for a command.
func NewBase(name, description string) Base {
	return Base{name: name, description: description}
}

// Name implements Command.
func (b *Base) Name() string { return b.name }

// Description implements Command.
func (b *Base) Description() string { return b.description }

// StartTime returns when execution began, zero if it hasn't.
func (b *Base) StartTime() time.Time { return b.startTime }

// EndTime returns when execution finished, zero if it hasn't.
func (b *Base) EndTime() time.Time { return b.endTime }

// ExecutionTime returns the elapsed run time. It is zero until both
// lifecycle timestamps have been recorded and never negative.
func (b *Base) ExecutionTime() time.Duration {
	if b.startTime.IsZero() || b.endTime.IsZero() {
		return 0
	}
	d := b.endTime.Sub(b.startTime)
	if d < 0 {
		return 0
	}
	return d
}

// lifecycle is implemented by *Base and drives the timing envelope.
// The Executor type-asserts against it so commands that do not embed
// Base still execute, just without timing.
type lifecycle interface {
	preExecute(log logrus.FieldLogger)
	postExecute(log logrus.FieldLogger, exitCode int)
}

func (b *Base) preExecute(log logrus.FieldLogger) {
	b.startTime = time.Now().UTC()
	b.endTime = time.Time{}
	log.WithField("command", b.name).Info("command started")
}

func (b *Base) postExecute(log logrus.FieldLogger, exitCode int) {
	b.endTime = time.Now().UTC()
	log.WithFields(logrus.Fields{
		"command":        b.name,
		"exit_code":      exitCode,
		"execution_time": b.ExecutionTime(),
	}).Info("command completed")
}
