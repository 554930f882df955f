package session

// Action reports what a navigation request ended up doing.
type Action string

const (
	ActionNone         Action = "none"
	ActionMoved        Action = "moved"
	ActionMarked       Action = "marked"
	ActionOpenedSubmit Action = "opened_submit"
)

// Navigator sequences "current question" changes over a Store.
type Navigator struct {
	store *Store
}

// NewNavigator creates a Navigator bound to store.
func NewNavigator(store *Store) *Navigator {
	return &Navigator{store: store}
}

// GoTo jumps to an arbitrary position, e.g. from the question sheet.
func (n *Navigator) GoTo(position int) Action {
	if n.store.NavigateTo(position) {
		return ActionMoved
	}
	return ActionNone
}

// Next advances one question unless already on the last one.
func (n *Navigator) Next() Action {
	n.store.mu.Lock()
	defer n.store.mu.Unlock()
	if !n.store.active || n.store.current >= len(n.store.questions)-1 {
		return ActionNone
	}
	n.store.navigateLocked(n.store.current + 1)
	return ActionMoved
}

// Previous goes back one question unless already on the first one.
func (n *Navigator) Previous() Action {
	n.store.mu.Lock()
	defer n.store.mu.Unlock()
	if !n.store.active || n.store.current == 0 {
		return ActionNone
	}
	n.store.navigateLocked(n.store.current - 1)
	return ActionMoved
}

// MarkAndAdvance flags the current question and moves on unless it is the
// last one.
func (n *Navigator) MarkAndAdvance() Action {
	n.store.mu.Lock()
	defer n.store.mu.Unlock()
	if !n.store.markLocked() {
		return ActionNone
	}
	if n.store.current >= len(n.store.questions)-1 {
		return ActionMarked
	}
	n.store.navigateLocked(n.store.current + 1)
	return ActionMoved
}

// NextOrSubmit advances, or opens the submit confirmation on the last
// question.
func (n *Navigator) NextOrSubmit() Action {
	n.store.mu.Lock()
	defer n.store.mu.Unlock()
	if !n.store.active {
		return ActionNone
	}
	if n.store.current == len(n.store.questions)-1 {
		n.store.openSubmitModalLocked()
		return ActionOpenedSubmit
	}
	n.store.navigateLocked(n.store.current + 1)
	return ActionMoved
}
