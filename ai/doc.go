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

// Package ai provides abstractions for the language-model services used by
// the course assistant.
//
// The package defines two capabilities and an aggregate:
//
//   - Completer: turns a rendered prompt into generated text (classification,
//     catalog answers and web summaries all go through it)
//   - Embedder: generates vector embeddings for retrieval and ingestion
//   - AIProvider: creates both from one Config and owns their lifecycle
//
// # Implementation Packages
//
//   - ai/openai: production implementation over OpenAI-compatible APIs
//     (Groq, OpenAI, Ollama, vLLM)
//   - ai/mock: test doubles for unit testing without external services
//
// # Constructor Return Type Pattern
//
// Public constructors (openai.NewProvider, openai.NewCompleter, ...) return
// INTERFACE types. Mock constructors (mock.NewMockCompleter,
// mock.NewMockEmbedder) return CONCRETE types so tests can inject behavior
// and assert on call counts.
//
//	provider, err := openai.NewProvider(config)  // returns ai.AIProvider
//	mockComplete := mock.NewMockCompleter()      // returns *mock.MockCompleter
//	mockComplete.CompleteFunc = ...
//
// # Usage Example
//
//	config := ai.NewConfig(ai.WithAPIKey(os.Getenv("GROQ_API_KEY")))
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	label, err := provider.Completer().Complete(ctx, prompt)
//	vector, err := provider.Embedder().EmbedText(ctx, "CS 301 prerequisites")
package ai
