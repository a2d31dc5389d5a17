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

// Package match defines the fuzzy matching contract the query interpreter
// relies on, along with two providers.
//
// A Pattern is an ordered list of query terms. Rendered as an expression,
// consecutive terms are joined by an inter-term separator equivalent to
// "any run of non-whitespace characters followed by a space", so a partial
// final word still matches. Matching is case-insensitive, items without a
// match are filtered out, and a higher Hit.Score means a tighter match.
// Hit.Captures[0] holds the literal matched text.
//
// Providers:
//   - Grep evaluates the rendered regular expression
//   - Subsequence uses sahilm/fuzzy gap matching over the concatenated terms
//
// Wrap a provider with Safe to turn panics into ErrProviderFailure.
package match
