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

// Package session sequences live query input through interpretation into
// ranking.
//
// A Controller accepts raw queries one at a time. Each distinct query
// starts a new generation: the previous generation's work is cancelled, the
// aggregator is reset, and the new query's candidate streams are pumped
// into the aggregator tagged with the new generation. A repeat of the
// previous raw query is dropped before tokenization. An empty query only
// resets.
//
//	ctrl, err := session.NewController(interp, agg)
//	if err != nil {
//	    return err
//	}
//	defer ctrl.Close()
//
//	if err := ctrl.Query("call jane"); err != nil {
//	    return err
//	}
package session
