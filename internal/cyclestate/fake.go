package cyclestate

// FakeStore is an in-memory test double for Store.
type FakeStore struct {
	// State is returned by Load and overwritten by Save.
	State State

	// Empty makes Load return ErrNoState, simulating a first boot or a
	// wiped record.
	Empty bool

	// LoadError, if set, is returned by Load.
	LoadError error

	// SaveError, if set, is returned by Save.
	SaveError error

	// Saves counts successful Save calls.
	Saves int
}

// NewFakeStore creates a FakeStore holding the given state.
func NewFakeStore(s State) *FakeStore {
	return &FakeStore{State: s}
}

// Load returns the scripted state or error.
func (f *FakeStore) Load() (State, error) {
	if f.LoadError != nil {
		return State{}, f.LoadError
	}
	if f.Empty {
		return State{}, ErrNoState
	}
	return f.State, nil
}

// Save records the state.
func (f *FakeStore) Save(s State) error {
	if f.SaveError != nil {
		return f.SaveError
	}
	f.State = s
	f.Empty = false
	f.Saves++
	return nil
}
