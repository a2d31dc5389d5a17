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

// Package interpret turns a query's term sequence into scored candidate actions.
//
// Two strategies run side by side for every query:
//   - Verb-first: each term is tried as a verb prefix; the terms around a
//     recognized verb are then matched against the nouns its action accepts
//   - Noun-first: all terms are matched against every noun regardless of
//     type, and each matching noun is paired with every action accepting it
//
// Both strategies emit onto one merged stream; the noun-first noun matches
// are also exposed on their own as the suggestion source. Matcher calls run
// on a bounded worker pool, and every producer stops as soon as the query's
// context is cancelled.
package interpret
