package overlay

// StateOwnership decides who owns the open/closed flag. It is either
// Internal, where the overlay keeps a private bool, or External, where the
// caller supplies getter and setter. The choice is made once in New.
type StateOwnership interface {
	isOpen() bool
	setOpen(open bool)
}

type internalState struct {
	open bool
}

func (s *internalState) isOpen() bool      { return s.open }
func (s *internalState) setOpen(open bool) { s.open = open }

type externalState struct {
	get func() bool
	set func(bool)
}

func (s externalState) isOpen() bool      { return s.get() }
func (s externalState) setOpen(open bool) { s.set(open) }

// Internal returns uncontrolled ownership starting at initial.
func Internal(initial bool) StateOwnership {
	return &internalState{open: initial}
}

// External returns controlled ownership backed by the caller's state.
// Both funcs are required: New rejects External with a nil func.
func External(get func() bool, set func(bool)) StateOwnership {
	return externalState{get: get, set: set}
}

func validOwnership(s StateOwnership) error {
	if ext, ok := s.(externalState); ok && (ext.get == nil || ext.set == nil) {
		return newError(CodeInvalidConfig, "external ownership needs both a getter and a setter", nil)
	}
	return nil
}

// IsExternal reports whether s forwards to caller-owned state.
func IsExternal(s StateOwnership) bool {
	_, ok := s.(externalState)
	return ok
}
