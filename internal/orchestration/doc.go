// Package orchestration runs one or more prime generation algorithms on the
// same bound, feeds their progress to a reporter, and compares their
// results. It decouples the sieve engine from presentation via the
// ProgressReporter and ResultPresenter interfaces.
package orchestration
