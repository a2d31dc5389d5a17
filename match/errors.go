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

package match

import "errors"

var (
	// ErrProviderFailure indicates the matcher failed for a pattern/corpus pair.
	// Callers treat it as zero hits.
	ErrProviderFailure = errors.New("match provider failure")

	// ErrUnknownMatcher is returned by New for an unrecognized matcher name.
	ErrUnknownMatcher = errors.New("unknown matcher")
)
