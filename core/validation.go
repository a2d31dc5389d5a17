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

import (
	"fmt"
	"strings"
)

// ValidateApp validates an App and all of its actions.
//
// Validation rules:
//   - ID must not be empty
//   - every action must pass ValidateAction
//
// NOT validated:
//   - an empty action list (the app simply contributes nothing)
func ValidateApp(app *App) error {
	if app == nil {
		return fmt.Errorf("%w: app is nil", ErrInvalidApp)
	}

	if app.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidApp, ErrEmptyAppID)
	}

	for i, action := range app.Actions {
		if err := ValidateAction(action); err != nil {
			return fmt.Errorf("%w: %s action %d: %w", ErrInvalidApp, app.ID, i, err)
		}
	}

	return nil
}

// ValidateAction validates an Action.
//
// Validation rules:
//   - CaptionFormat must not be empty
//   - CaptionFormat must contain the substitution marker
//
// NOT validated:
//   - Names and Params (empty lists contribute zero index entries)
func ValidateAction(action *Action) error {
	if action == nil {
		return fmt.Errorf("%w: action is nil", ErrInvalidAction)
	}

	if action.CaptionFormat == "" {
		return fmt.Errorf("%w: %w", ErrInvalidAction, ErrEmptyCaption)
	}

	if !strings.Contains(action.CaptionFormat, CaptionMarker) {
		return fmt.Errorf("%w: %w", ErrInvalidAction, ErrMissingMarker)
	}

	return nil
}

// ValidateNoun validates a Noun.
func ValidateNoun(noun *Noun) error {
	if noun == nil {
		return fmt.Errorf("%w: noun is nil", ErrInvalidNoun)
	}

	if noun.Type == "" {
		return fmt.Errorf("%w: %w", ErrInvalidNoun, ErrEmptyNounType)
	}

	if strings.TrimSpace(noun.Serialized) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidNoun, ErrEmptySerialized)
	}

	return nil
}

// ValidateCatalog validates every app and noun in the catalog and
// rejects duplicate app IDs.
func ValidateCatalog(catalog *Catalog) error {
	seen := make(map[string]bool, len(catalog.Apps))
	for _, app := range catalog.Apps {
		if err := ValidateApp(app); err != nil {
			return err
		}
		if seen[app.ID] {
			return fmt.Errorf("%w: %w: %s", ErrInvalidApp, ErrDuplicateApp, app.ID)
		}
		seen[app.ID] = true
	}

	for t, nouns := range catalog.Nouns {
		if t == "" {
			return fmt.Errorf("%w: %w", ErrInvalidNoun, ErrEmptyNounType)
		}
		for _, noun := range nouns {
			if err := ValidateNoun(noun); err != nil {
				return err
			}
			if noun.Type != t {
				return fmt.Errorf("%w: noun %q declares type %q under %q", ErrInvalidNoun, noun.Serialized, noun.Type, t)
			}
		}
	}

	return nil
}
