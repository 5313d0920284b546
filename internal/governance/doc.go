// Package governance coordinates runtime safety controls for the coordination
// engine, starting with batch admission.
//
// The engine's pairwise conflict scan grows with the square of the batch
// size, so callers that accept untrusted batch sizes put a cap in front of
// the pipeline rather than relying on internal cancellation. The pipeline
// itself never suspends mid-call.
package governance
