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

package core

import "errors"

// Catalog validation errors
var (
	// ErrInvalidApp indicates an App failed validation.
	ErrInvalidApp = errors.New("invalid app")

	// ErrInvalidAction indicates an Action failed validation.
	ErrInvalidAction = errors.New("invalid action")

	// ErrInvalidNoun indicates a Noun failed validation.
	ErrInvalidNoun = errors.New("invalid noun")

	// ErrEmptyAppID indicates the app ID field is empty.
	ErrEmptyAppID = errors.New("app id cannot be empty")

	// ErrEmptyCaption indicates the action caption is empty.
	ErrEmptyCaption = errors.New("caption cannot be empty")

	// ErrMissingMarker indicates the caption has no substitution marker.
	ErrMissingMarker = errors.New("caption must contain a % marker")

	// ErrEmptySerialized indicates the noun Serialized field is empty.
	ErrEmptySerialized = errors.New("serialized form cannot be empty")

	// ErrEmptyNounType indicates the noun type is empty.
	ErrEmptyNounType = errors.New("noun type cannot be empty")

	// ErrDuplicateApp indicates two apps share an ID.
	ErrDuplicateApp = errors.New("duplicate app id")
)
