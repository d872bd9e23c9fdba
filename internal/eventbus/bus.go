// Package eventbus is the in-process publish/subscribe channel shared by the
// controllers of a window process.
//
// Every subscriber owns a mailbox drained by its own goroutine, so Publish
// never blocks and a subscriber observes the events of a single publisher in
// the order they were published. There is no ordering across publishers.
package eventbus

import (
	"errors"
	"sync"

	"github.com/atomicstack/tmux-prompt-bar/internal/logging/events"
)

// Topic names an event stream.
type Topic string

const (
	// TopicHotkey carries the zero-based slot index of a triggered hotkey.
	TopicHotkey Topic = "inject-prompt"
	// TopicListChanged means the persisted list may have changed.
	TopicListChanged Topic = "prompts-updated"
	// TopicToggleBar asks the bar to show or hide itself.
	TopicToggleBar Topic = "toggle-bar"
)

var ErrClosed = errors.New("event bus closed")

// Event is a published message.
type Event struct {
	Topic   Topic
	Payload any
}

// SlotIndex extracts the hotkey payload.
func (e Event) SlotIndex() (int, bool) {
	idx, ok := e.Payload.(int)
	return idx, ok
}

// Handler receives events on the subscriber's goroutine.
type Handler func(Event)

// Bus fans published events out to subscribers.
type Bus struct {
	mu     sync.Mutex
	subs   map[Topic]map[uint64]*mailbox
	nextID uint64
	closed bool
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{subs: make(map[Topic]map[uint64]*mailbox)}
}

// Publish delivers an event to every current subscriber of topic.
func (b *Bus) Publish(topic Topic, payload any) error {
	evt := Event{Topic: topic, Payload: payload}
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrClosed
	}
	targets := make([]*mailbox, 0, len(b.subs[topic]))
	for _, mb := range b.subs[topic] {
		targets = append(targets, mb)
	}
	b.mu.Unlock()

	events.Bus.Publish(string(topic), payload, len(targets))
	for _, mb := range targets {
		mb.push(evt)
	}
	return nil
}

// Subscribe registers handler for topic. The returned subscription must be
// released with Unsubscribe when the owning window goes away.
func (b *Bus) Subscribe(topic Topic, handler Handler) (*Subscription, error) {
	if handler == nil {
		return nil, errors.New("nil handler")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, ErrClosed
	}
	b.nextID++
	id := b.nextID
	mb := newMailbox(handler)
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[uint64]*mailbox)
	}
	b.subs[topic][id] = mb
	events.Bus.Subscribe(string(topic), id)
	return &Subscription{bus: b, topic: topic, id: id}, nil
}

// Subscribers reports how many handlers listen on topic.
func (b *Bus) Subscribers(topic Topic) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[topic])
}

// Close stops every mailbox. Events already queued are dropped.
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	subs := b.subs
	b.subs = make(map[Topic]map[uint64]*mailbox)
	b.mu.Unlock()
	for _, byID := range subs {
		for _, mb := range byID {
			mb.stop()
		}
	}
}

func (b *Bus) remove(topic Topic, id uint64) {
	b.mu.Lock()
	mb, ok := b.subs[topic][id]
	if ok {
		delete(b.subs[topic], id)
		if len(b.subs[topic]) == 0 {
			delete(b.subs, topic)
		}
	}
	b.mu.Unlock()
	if ok {
		events.Bus.Unsubscribe(string(topic), id)
		mb.stop()
	}
}

// Subscription is the handle returned by Subscribe.
type Subscription struct {
	bus   *Bus
	topic Topic
	id    uint64
	once  sync.Once
}

// Topic returns the subscribed topic.
func (s *Subscription) Topic() Topic {
	return s.topic
}

// Unsubscribe detaches the handler. It is safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		s.bus.remove(s.topic, s.id)
	})
}

type mailbox struct {
	handler Handler

	mu      sync.Mutex
	queue   []Event
	stopped bool
	wake    chan struct{}
	done    chan struct{}
}

func newMailbox(handler Handler) *mailbox {
	mb := &mailbox{
		handler: handler,
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go mb.run()
	return mb
}

func (m *mailbox) push(evt Event) {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return
	}
	m.queue = append(m.queue, evt)
	m.mu.Unlock()
	select {
	case m.wake <- struct{}{}:
	default:
	}
}

func (m *mailbox) stop() {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return
	}
	m.stopped = true
	m.queue = nil
	m.mu.Unlock()
	close(m.done)
}

func (m *mailbox) run() {
	for {
		select {
		case <-m.done:
			return
		case <-m.wake:
		}
		for {
			m.mu.Lock()
			if m.stopped || len(m.queue) == 0 {
				m.mu.Unlock()
				break
			}
			evt := m.queue[0]
			m.queue = m.queue[1:]
			m.mu.Unlock()
			m.handler(evt)
		}
	}
}
