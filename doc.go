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

// Package actionbar is an incremental action search engine.
//
// A catalog declares apps, the actions they expose, and typed nouns those
// actions apply to. As the user types, every keystroke's query is
// interpreted two ways at once: verb-first ("call jane") and noun-first
// ("jane"). Candidate actions stream into a ranking aggregator that keeps
// the best results and a pair of noun suggestions for the current query,
// rendered through a caller-supplied ranking.Renderer.
//
// Packages:
//   - core: data model and validation
//   - catalog: JSON catalog loading and the derived indices
//   - match: fuzzy matching providers
//   - interpret: the verb-first and noun-first strategies
//   - ranking: bounded result ordering and suggestions
//   - session: query sequencing and generation isolation
//   - storage: persistent catalog repositories (badger, sqlite)
//   - metrics: Prometheus session metrics
//
// Typical use:
//
//	engine, err := actionbar.OpenEngine(ctx, actionbar.NewConfig(), renderer)
//	if err != nil {
//	    return err
//	}
//	defer engine.Close()
//
//	if err := engine.Query("call jane"); err != nil {
//	    return err
//	}
//	for _, r := range engine.Results() {
//	    fmt.Println(r.Title())
//	}
package actionbar
