package cache

// StateManager owns the dirty-flag bookkeeping for a molecule's bodies and
// hydration layer, grounded on AUSAXS's StateManager: per-body external
// (position/orientation) and internal (atom-set) modification flags, one
// hydration-modified flag, and an aggregate dirty bit so a caller can skip
// recalculate() entirely when nothing changed.
type StateManager struct {
	external  []bool
	internal  []bool
	hydration bool
	modified  bool
}

// NewStateManager allocates flag storage for a molecule with bodyCount
// bodies. Every body starts marked internally modified so the first
// recalculate() performs a full build.
func NewStateManager(bodyCount int) *StateManager {
	sm := &StateManager{
		external: make([]bool, bodyCount),
		internal: make([]bool, bodyCount),
	}
	for i := range sm.internal {
		sm.internal[i] = true
	}
	sm.hydration = true
	sm.modified = true
	return sm
}

// SignallerFor returns the BoundSignaller a body should Bind to report
// through this manager.
func (sm *StateManager) SignallerFor(bodyIndex int) BoundSignaller {
	return BoundSignaller{bodyIndex: bodyIndex, manager: sm}
}

// HydrationSignaller returns the signaller the molecule's shared hydration
// layer should bind to.
func (sm *StateManager) HydrationSignaller() hydrationSignaller {
	return hydrationSignaller{manager: sm}
}

func (sm *StateManager) markExternal(i int) {
	sm.external[i] = true
	sm.modified = true
}

func (sm *StateManager) markInternal(i int) {
	sm.internal[i] = true
	sm.modified = true
}

func (sm *StateManager) markHydration() {
	sm.hydration = true
	sm.modified = true
}

// Modified reports whether anything has changed since the last
// clearFlags(), letting a caller skip recalculate() when nothing moved.
func (sm *StateManager) Modified() bool { return sm.modified }

// ExternallyModified reports body i's external flag.
func (sm *StateManager) ExternallyModified(i int) bool { return sm.external[i] }

// InternallyModified reports body i's internal flag.
func (sm *StateManager) InternallyModified(i int) bool { return sm.internal[i] }

// HydrationModified reports the hydration-layer flag.
func (sm *StateManager) HydrationModified() bool { return sm.hydration }

// BodyCount reports how many body flag-slots this manager tracks.
func (sm *StateManager) BodyCount() int { return len(sm.external) }

// clearFlags resets every flag after a recalculation has consumed them.
func (sm *StateManager) clearFlags() {
	for i := range sm.external {
		sm.external[i] = false
		sm.internal[i] = false
	}
	sm.hydration = false
	sm.modified = false
}
