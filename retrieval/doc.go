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

// Package retrieval finds catalog passages relevant to a question.
//
// Two Retriever implementations are provided:
//   - IndexRetriever searches the local BadgerDB index built by the ingestion
//     pipeline. It embeds the query, ranks passages by similarity and boosts
//     passages that contain every significant query word, which keeps exact
//     course codes such as "CS301" near the top.
//   - VectorStoreRetriever delegates to a langchaingo vector store such as a
//     Pinecone index.
//
// Both return at most k passages ordered best first.
package retrieval
