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

package orchestrator

import "errors"

var (
	// ErrCompleterRequired is returned when no answer-generation capability is provided.
	ErrCompleterRequired = errors.New("completer required")

	// ErrRetrieverRequired is returned when no retrieval capability is provided.
	ErrRetrieverRequired = errors.New("retriever required")

	// ErrSearcherRequired is returned when no web-search capability is provided.
	ErrSearcherRequired = errors.New("web searcher required")

	// ErrInvalidTopK is returned when the passage count is not positive.
	ErrInvalidTopK = errors.New("top k must be positive")

	// ErrInvalidStage indicates the state machine reached a stage it cannot execute.
	ErrInvalidStage = errors.New("invalid stage")
)
