// Package domain defines the core value types and interfaces of the Concord
// coordination engine.
//
// This package contains pure domain logic with ZERO external dependencies outside the
// Go standard library. All types in this package are:
//
// - Independent of infrastructure (no files, network, or clocks beyond carried timestamps)
// - Technology-agnostic (no framework coupling)
// - Testable in isolation without mocks
// - Stable and unlikely to change frequently
//
// Other packages (ethics, conflict, harmony, sequence, coordination, storage)
// implement the interfaces defined here and depend on these types. The
// dependency direction is always:
//
//	Infrastructure → Domain (CORRECT)
//	Domain → Infrastructure (FORBIDDEN)
//
// This architecture enables:
// - Easy testing through interface mocking
// - Technology swap without domain changes
// - Clear separation of concerns
// - Flexible composition in the coordinator and in cmd/concord
package domain
