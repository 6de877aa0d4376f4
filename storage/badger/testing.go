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

package badger

import "github.com/poiesic/intellicourse/storage"

// OpenRepositories opens (or creates) an on-disk index at path.
// Caller must close the backend when done; the repositories share it.
func OpenRepositories(path string) (storage.PassageRepository, storage.CheckpointRepository, *Backend, error) {
	backend, err := OpenBackend(path, false)
	if err != nil {
		return nil, nil, nil, err
	}
	return newPassageRepository(backend), NewCheckpointRepository(backend), backend, nil
}

// NewMemoryRepositories creates in-memory passage and checkpoint repositories for testing.
// Returns passageRepo, checkpointRepo, backend, and error.
// Caller must close the backend when done.
func NewMemoryRepositories() (storage.PassageRepository, storage.CheckpointRepository, *Backend, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, nil, nil, err
	}
	return newPassageRepository(backend), NewCheckpointRepository(backend), backend, nil
}
