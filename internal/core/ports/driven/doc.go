// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - VectorStore: Point persistence and similarity search (Qdrant)
//   - Embedder: Maps text to fixed-dimension vectors
//   - LoaderRegistry: Per-format text extraction
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - ChatCompleter: Query splitting, HyDE, delegated filter extraction.
//     Without it, retrieval runs with the literal question only.
//   - Reranker: Secondary relevance scoring. Without it, vector
//     similarity order is kept.
//   - IngestLedger: Outcome tracking for scheduled retries. Without it,
//     failures are only reported to the caller.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or loader package
package driven
