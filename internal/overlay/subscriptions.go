package overlay

import "fmt"

// handleSet tracks the unsubscribe funcs of one group of subscriptions so
// they can be released deterministically. A set is either fully attached
// or fully detached.
type handleSet struct {
	group    string
	attached bool
	handles  map[string]func()
	order    []string

	attaches int
	detaches int
}

func newHandleSet(group string) handleSet {
	return handleSet{group: group, handles: make(map[string]func())}
}

// begin marks the set attached. It fails with CodeListenerLeak when the
// set is already attached.
func (h *handleSet) begin() error {
	if h.attached {
		return newError(CodeListenerLeak, fmt.Sprintf("%s subscriptions attached twice", h.group), nil)
	}
	h.attached = true
	return nil
}

func (h *handleSet) add(name string, unsubscribe func()) {
	if unsubscribe == nil {
		unsubscribe = func() {}
	}
	h.handles[name] = unsubscribe
	h.order = append(h.order, name)
	h.attaches++
}

// release calls every unsubscribe func in reverse attach order.
func (h *handleSet) release() {
	for i := len(h.order) - 1; i >= 0; i-- {
		name := h.order[i]
		if fn, ok := h.handles[name]; ok {
			fn()
			delete(h.handles, name)
			h.detaches++
		}
	}
	h.order = h.order[:0]
	h.attached = false
}

func (h *handleSet) active() int {
	return len(h.handles)
}
