// Package domain defines the core business entities for retriva.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A loaded source unit (file, email body, attachment)
//   - Chunk: A bounded text span, the unit of embedding and retrieval
//   - EmbeddingPoint: A vector plus its chunk payload, as persisted
//   - Filter: A conjunction of metadata predicates
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
