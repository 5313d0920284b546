// Package coordination orchestrates the full pipeline over action batches:
// ethics gate, conflict detection, resolution, harmony scoring, and
// sequencing.
//
// The Coordinator is the composition root for the engine. It owns stage
// ordering and the fail-closed contract: a batch that violates ethical
// constraints is refused before any conflict work starts. Domain registration
// is advisory metadata and never gates coordination.
package coordination
