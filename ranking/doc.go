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

// Package ranking turns a stream of scored candidates into the ordered
// output a front end renders.
//
// An Aggregator owns the state of exactly one query generation:
//   - the retained results, a bounded ordered set keeping the best
//     MaxRetained candidates, of which the best MaxRendered are rendered
//   - the suggestion pair, the two best distinct nouns seen so far
//
// Reset starts a new generation and discards everything. Candidates offered
// for any other generation are dropped without touching state, so work
// left over from a superseded query can never leak into the next one.
//
// Every mutation is serialized and re-renders a full replacement of the
// affected collection. Renderer callbacks run under the aggregator's lock
// and must not call back into it.
package ranking
