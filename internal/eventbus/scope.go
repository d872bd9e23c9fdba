package eventbus

import "sync"

// Scope groups the subscriptions of one window so they can be released
// together when the window closes.
type Scope struct {
	bus *Bus

	mu     sync.Mutex
	subs   []*Subscription
	closed bool
}

// NewScope creates a scope bound to b.
func (b *Bus) NewScope() *Scope {
	return &Scope{bus: b}
}

// Subscribe registers handler and tracks the subscription.
func (s *Scope) Subscribe(topic Topic, handler Handler) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	sub, err := s.bus.Subscribe(topic, handler)
	if err != nil {
		return err
	}
	s.subs = append(s.subs, sub)
	return nil
}

// Len returns the number of live subscriptions.
func (s *Scope) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// Close releases every subscription in the scope.
func (s *Scope) Close() {
	s.mu.Lock()
	subs := s.subs
	s.subs = nil
	s.closed = true
	s.mu.Unlock()
	for _, sub := range subs {
		sub.Unsubscribe()
	}
}
