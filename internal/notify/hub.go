package notify

import "sync"

// Session is one live connection able to receive pushed JSON payloads.
// *websocket.Conn satisfies it.
type Session interface {
	WriteJSON(v any) error
	Close() error
}

// Hub tracks live subscriptions per user id. A user may hold several
// sessions at once (multiple tabs or devices).
type Hub struct {
	mu   sync.Mutex
	subs map[string]map[Session]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[Session]struct{})}
}

func (h *Hub) Subscribe(userID string, s Session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.subs[userID] == nil {
		h.subs[userID] = make(map[Session]struct{})
	}
	h.subs[userID][s] = struct{}{}
}

func (h *Hub) Unsubscribe(userID string, s Session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.subs[userID], s)
	if len(h.subs[userID]) == 0 {
		delete(h.subs, userID)
	}
}

// Push delivers v to every live session of the user, best effort: a failed
// write drops and closes that session, nothing is retried or reported back.
func (h *Hub) Push(userID string, v any) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for s := range h.subs[userID] {
		if err := s.WriteJSON(v); err != nil {
			delete(h.subs[userID], s)
			s.Close()
		}
	}
	if len(h.subs[userID]) == 0 {
		delete(h.subs, userID)
	}
}

// Sessions reports how many live sessions the user has.
func (h *Hub) Sessions(userID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[userID])
}
