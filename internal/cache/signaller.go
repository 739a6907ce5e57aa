// Package cache implements the partial-histogram decomposition and the
// dirty-state tracking that lets a rigid-body move invalidate only the
// partials it actually affects, instead of forcing a full O(N^2) rebuild.
package cache

import "github.com/sarat-asymmetrica/saxscore/internal/atoms"

// BoundSignaller is the atoms.Signaller a StateManager hands to every body
// it registers: it carries the body's index so a single shared method body
// can flip the right bit in the manager's flag arrays.
type BoundSignaller struct {
	bodyIndex int
	manager   *StateManager
}

func (s BoundSignaller) ModifiedExternal() { s.manager.markExternal(s.bodyIndex) }
func (s BoundSignaller) ModifiedInternal() { s.manager.markInternal(s.bodyIndex) }

// hydrationSignaller is the analogous bound signaller for the molecule's
// shared hydration layer, which has no body index of its own.
type hydrationSignaller struct {
	manager *StateManager
}

func (s hydrationSignaller) ModifiedExternal() { s.manager.markHydration() }
func (s hydrationSignaller) ModifiedInternal() { s.manager.markHydration() }

var _ atoms.Signaller = BoundSignaller{}
var _ atoms.Signaller = hydrationSignaller{}
