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

// Package catalog builds the flat lookup indices the interpreter matches against.
//
// An Index is derived from a core.Catalog once at startup:
//   - Verbs: one entry per (app, action, verb synonym)
//   - Types: one entry per (app, action, accepted noun type)
//   - Nouns: one entry per (noun type, noun)
//
// Indices are pure projections of the catalog and are read-only after Build,
// so they can be shared freely between concurrent matching work. Consumers
// must not depend on enumeration order.
//
// Catalogs are loaded from a directory holding apps.json and one
// nouns/<type>.json file per noun type (LoadDir), or from an fs.FS (LoadFS).
package catalog
