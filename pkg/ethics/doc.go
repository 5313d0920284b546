// Package ethics implements the governance gate the coordination engine runs
// before any conflict work, evaluating every action of a batch against the
// active ethical constraints.
//
// The package owns the built-in prohibited-pattern matcher, supports custom
// evaluators through the Evaluator interface, and optionally integrates the
// Open Policy Agent (OPA) engine for Rego-expressed principles. It is
// intentionally decoupled from the pipeline so gates can be composed, tested,
// and swapped independently of coordination.
package ethics
