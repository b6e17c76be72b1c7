// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports).
//
// The core services depend only on these interfaces:
//
//   - DocumentFetcher: downloads raw document bytes from a URL.
//   - Normaliser: converts raw bytes of one format into text content.
//   - PostProcessor: splits normalised content into chunks.
//   - EmbeddingService: maps text to fixed-length vectors. Two strategies
//     exist, a remote semantic encoder and a deterministic hash surrogate.
//   - VectorIndex: stores (vector, metadata) records and answers
//     k-nearest-neighbour queries (Pinecone or in-memory).
//   - LLMService: chat-completion calls for query interpretation and
//     answer synthesis. Optional; callers fall back to deterministic
//     heuristics when it is nil or failing.
//   - QueryLogStore: append-only log of answered questions for reports.
//   - ResultNotifier: best-effort webhook delivery of answer batches.
package driven
