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

// Package storage provides the storage abstraction layer for actionbar catalogs.
//
// This package defines the repository interface that decouples where a
// catalog is kept from how it is searched. Catalogs can be imported once
// from their JSON asset form into a persistent backend (BadgerDB or SQLite)
// and loaded back at startup.
//
// # Constructor Return Type Pattern
//
// Public backend constructors return the storage.CatalogRepository
// interface:
//
//	repo, err := badger.NewRepository(path)  // returns storage.CatalogRepository
//
// Internal package constructors may return concrete types since they're
// only used within the implementation package.
//
// # Usage
//
// Import a catalog:
//
//	c, err := catalog.LoadDir("assets")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := storage.SaveCatalog(ctx, repo, c); err != nil {
//	    log.Fatal(err)
//	}
//
// Load it back:
//
//	c, err := storage.LoadCatalog(ctx, repo)
//
// Use in tests with in-memory storage:
//
//	repo, err := badger.NewMemoryRepository()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer repo.Close()
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
//
// # Context Support
//
// All repository methods accept context.Context for cancellation
// and timeout support. Pass context.Background() for operations
// without specific timeout requirements.
package storage
