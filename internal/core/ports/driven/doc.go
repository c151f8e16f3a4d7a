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
//   - VectorIndex: Persistent embedding collections (SQLite, Qdrant, in-memory)
//   - EmbeddingService: Generates vector embeddings for documents and queries
//   - PromptStore: Interview prompt templates
//   - PostProcessor: Chunking pipeline stages
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: Without it, every response receives the default score.
//   - EvaluationParser: Defaults to the line-oriented parser.
//   - SessionStore: Without it, session history is kept in memory only.
//   - EventPublisher: Without it, session summaries are not broadcast.
//   - FileWatcher: Only needed by the watch command.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, loader, or postprocessor package
package driven
