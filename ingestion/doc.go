// Package ingestion builds the passage index from course documents.
//
// The Pipeline type manages the ingestion workflow for one source at a time:
//   - Loading PDF or plain-text documents
//   - Splitting them into overlapping chunks
//   - Generating embeddings concurrently on a worker pool
//   - Replacing the source's passages and checkpoint in one transaction
//
// A source whose content digest matches its checkpoint is skipped unless
// ingestion is forced. Ingestion is offline work and never runs on the
// question-answering path.
package ingestion
