package command

import (
	"context"
	"runtime/debug"

	"github.com/sirupsen/logrus"
)

// Exit codes returned by the Executor. Concrete commands may return any
// non-negative code from Run; the Executor itself only produces these two.
const (
	ExitSuccess = 0
	ExitFailure = 1
)

// Executor drives a command through its lifecycle:
//
//	lookup -> instantiate -> Validate -> preExecute -> Run -> postExecute
//
// The progression is strictly linear. A failed stage terminates the run
// with a non-zero exit code; there is no retry and no backward transition.
// Every failure mode is converted to an exit code at this boundary, so
// Execute never panics and never raises to the caller.
type Executor struct {
	registry *Registry
	log      logrus.FieldLogger
}

// NewExecutor creates an executor resolving names against registry.
func NewExecutor(registry *Registry, log logrus.FieldLogger) *Executor {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Executor{registry: registry, log: log}
}

// Execute runs the named command with args and returns its exit code.
func (e *Executor) Execute(ctx context.Context, name string, args []string) int {
	factory, ok := e.registry.Get(name)
	if !ok {
		e.log.WithField("command", name).Error("command not found")
		return ExitFailure
	}

	cmd := factory()

	if err := cmd.Validate(args); err != nil {
		e.log.WithFields(logrus.Fields{
			"command": cmd.Name(),
			"error":   err,
		}).Error("command validation failed")
		return ExitFailure
	}

	lc, timed := cmd.(lifecycle)
	if timed {
		lc.preExecute(e.log)
	}

	exitCode := e.run(ctx, cmd, args)

	if timed {
		lc.postExecute(e.log, exitCode)
	}
	return exitCode
}

// run invokes cmd.Run, absorbing faults. A panic or returned error is
// logged with context and mapped to ExitFailure; it never escapes here.
func (e *Executor) run(ctx context.Context, cmd Command, args []string) (exitCode int) {
	defer func() {
		if r := recover(); r != nil {
			e.log.WithFields(logrus.Fields{
				"command": cmd.Name(),
				"panic":   r,
				"stack":   string(debug.Stack()),
			}).Error("command panicked")
			exitCode = ExitFailure
		}
	}()

	code, err := cmd.Run(ctx, args)
	if err != nil {
		e.log.WithFields(logrus.Fields{
			"command": cmd.Name(),
			"error":   err,
		}).Error("command execution failed")
		return ExitFailure
	}
	if code < 0 {
		code = ExitFailure
	}
	return code
}
