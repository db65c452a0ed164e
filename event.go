package strata

import "sync"

// Event is a lifecycle notification tag. Each CRUD and link operation
// emits a pre tag before its statement executes and a post tag after,
// carrying the operation's subject data. A failure during execution
// means the pre tag has fired exactly once and the post tag not at all.
type Event string

// The sixteen lifecycle tags.
const (
	PreInsert      Event = "pre:insert"
	PostInsert     Event = "post:insert"
	PreInsertMany  Event = "pre:insert-many"
	PostInsertMany Event = "post:insert-many"
	PreUpdate      Event = "pre:update"
	PostUpdate     Event = "post:update"
	PreDelete      Event = "pre:delete"
	PostDelete     Event = "post:delete"
	PreLink        Event = "pre:link"
	PostLink       Event = "post:link"
	PreLinkMany    Event = "pre:link-many"
	PostLinkMany   Event = "post:link-many"
	PreUnlink      Event = "pre:unlink"
	PostUnlink     Event = "post:unlink"
	PreUnlinkMany  Event = "pre:unlink-many"
	PostUnlinkMany Event = "post:unlink-many"
)

// Listener receives lifecycle notifications. The payload is the
// operation's subject: a row map for pre-insert and link events, a
// *Record for instance events, or a slice for the -many variants.
type Listener func(event Event, payload any)

// Hub is the per-model lifecycle event channel. One hub is created when
// the model is built and lives as long as the model. Emission is
// synchronous and in subscription order.
type Hub struct {
	mu        sync.RWMutex
	nextID    int
	listeners map[Event][]subscription
}

type subscription struct {
	id int
	fn Listener
}

// NewHub returns an empty, ready-to-use event hub.
func NewHub() *Hub {
	return &Hub{listeners: make(map[Event][]subscription)}
}

// On registers a listener for the given event tag and returns a token
// usable with Off.
func (h *Hub) On(event Event, fn Listener) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	h.listeners[event] = append(h.listeners[event], subscription{id: h.nextID, fn: fn})
	return h.nextID
}

// Off removes the listener registered under the given token.
func (h *Hub) Off(event Event, token int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs := h.listeners[event]
	for i, s := range subs {
		if s.id == token {
			h.listeners[event] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// Reset removes every registered listener.
func (h *Hub) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.listeners = make(map[Event][]subscription)
}

// Emit delivers the payload to every listener of the event, in
// subscription order. A panicking listener is isolated so the operation
// that emitted the event still settles.
func (h *Hub) Emit(event Event, payload any) {
	h.mu.RLock()
	subs := make([]subscription, len(h.listeners[event]))
	copy(subs, h.listeners[event])
	h.mu.RUnlock()
	for _, s := range subs {
		func() {
			defer func() { _ = recover() }()
			s.fn(event, payload)
		}()
	}
}
