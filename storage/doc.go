// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package storage provides the storage abstraction layer for the local
// course-catalog index.
//
// This package defines repository interfaces that decouple storage implementation
// from retrieval and ingestion logic. It allows for different storage backends
// (BadgerDB on disk, BadgerDB in memory for tests) to be used interchangeably.
//
// # Constructor Return Type Pattern
//
// Public constructors return interfaces to enforce abstraction:
//
//	passages, checkpoints, backend, err := badger.OpenRepositories(path)
//
// Internal package constructors (newPassageRepository, etc.) may return
// concrete types since they're only used within the implementation package.
//
// # Architecture
//
//   - PassageRepository: chunks of ingested documents and vector search over them
//   - CheckpointRepository: per-source ingestion digests used to skip unchanged files
//
// Records are encoded with MUS (see MarshalPassage, MarshalCheckpoint).
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
//
// # Context Support
//
// All repository methods accept context.Context for cancellation.
// Long scans (FindSimilar, ListPassages) stop early when the context is done.
package storage
