// Package conflict implements rule-table conflict detection and conservative
// resolution for action batches.
//
// Detection scans every unordered pair of a batch: same-domain pairs against
// an antonym keyword table, cross-domain pairs against an exact-match catalog
// of known antagonistic combinations. Both tables are closed declarative data
// (see RuleSet) that can be loaded from YAML and hot-reloaded through a
// RuleWatcher without touching the scan algorithm. Resolution removes both
// sides of every conflicting pair rather than arbitrating a winner.
package conflict
