// Package check implements the health-check core: diagnostic probes with
// a uniform timed-execution wrapper, and aggregation of their results
// into a single report.
//
// A Check is a probe over some collaborator (a database, a disk, a
// service). Probes are volatile: they fail, they time out, they panic.
// Run is the single point where that volatility is absorbed into a
// stable three-valued verdict:
//
//	healthy   - the probe ran and the subject looks fine
//	unhealthy - the probe ran and the subject does not look fine
//	error     - the probe itself faulted (returned an error or panicked)
//
// Run never panics and always produces exactly one Result per check,
// with StartTime, EndTime and a non-negative Duration recorded in every
// outcome.
//
// Combine rolls a sequence of Results into a Report. Status precedence
// is error > unhealthy > healthy: a faulting probe is surfaced above a
// merely unhealthy finding, and an empty pass is vacuously healthy. The
// report preserves the input order of checks so rendering is
// deterministic.
//
// Checks run sequentially by default. Runner can fan out independent
// checks behind the same Run contract; timing and result shape are
// unaffected by the execution strategy.
package check
