package eventbus

import (
	"errors"
	"testing"
	"time"
)

func recv(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case evt := <-ch:
		return evt
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for event")
	}
	return Event{}
}

func TestPublishDeliversToSubscribers(t *testing.T) {
	bus := New()
	defer bus.Close()
	first := make(chan Event, 1)
	second := make(chan Event, 1)
	if _, err := bus.Subscribe(TopicHotkey, func(e Event) { first <- e }); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if _, err := bus.Subscribe(TopicHotkey, func(e Event) { second <- e }); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if err := bus.Publish(TopicHotkey, 4); err != nil {
		t.Fatalf("publish: %v", err)
	}
	for _, ch := range []chan Event{first, second} {
		evt := recv(t, ch)
		idx, ok := evt.SlotIndex()
		if !ok || idx != 4 {
			t.Fatalf("expected slot 4, got %#v", evt)
		}
	}
}

func TestTopicsAreIsolated(t *testing.T) {
	bus := New()
	defer bus.Close()
	got := make(chan Event, 4)
	if _, err := bus.Subscribe(TopicListChanged, func(e Event) { got <- e }); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	_ = bus.Publish(TopicHotkey, 1)
	_ = bus.Publish(TopicListChanged, nil)
	evt := recv(t, got)
	if evt.Topic != TopicListChanged {
		t.Fatalf("expected list-changed, got %s", evt.Topic)
	}
	select {
	case extra := <-got:
		t.Fatalf("unexpected extra event %#v", extra)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPerPublisherOrdering(t *testing.T) {
	bus := New()
	defer bus.Close()
	got := make(chan int, 100)
	if _, err := bus.Subscribe(TopicHotkey, func(e Event) {
		idx, _ := e.SlotIndex()
		got <- idx
	}); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	for i := 0; i < 100; i++ {
		_ = bus.Publish(TopicHotkey, i)
	}
	for i := 0; i < 100; i++ {
		select {
		case idx := <-got:
			if idx != i {
				t.Fatalf("expected %d, got %d", i, idx)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out at %d", i)
		}
	}
}

func TestSlowSubscriberDoesNotBlockPublisher(t *testing.T) {
	bus := New()
	defer bus.Close()
	release := make(chan struct{})
	if _, err := bus.Subscribe(TopicListChanged, func(Event) { <-release }); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	done := make(chan struct{})
	go func() {
		for i := 0; i < 500; i++ {
			_ = bus.Publish(TopicListChanged, nil)
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("publisher blocked by slow subscriber")
	}
	close(release)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	bus := New()
	defer bus.Close()
	got := make(chan Event, 4)
	sub, err := bus.Subscribe(TopicListChanged, func(e Event) { got <- e })
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	sub.Unsubscribe()
	sub.Unsubscribe()
	if n := bus.Subscribers(TopicListChanged); n != 0 {
		t.Fatalf("expected no subscribers, got %d", n)
	}
	_ = bus.Publish(TopicListChanged, nil)
	select {
	case evt := <-got:
		t.Fatalf("unexpected delivery after unsubscribe: %#v", evt)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestScopeReleasesAll(t *testing.T) {
	bus := New()
	defer bus.Close()
	scope := bus.NewScope()
	for _, topic := range []Topic{TopicHotkey, TopicListChanged, TopicToggleBar} {
		if err := scope.Subscribe(topic, func(Event) {}); err != nil {
			t.Fatalf("subscribe %s: %v", topic, err)
		}
	}
	if scope.Len() != 3 {
		t.Fatalf("expected 3 subscriptions, got %d", scope.Len())
	}
	scope.Close()
	for _, topic := range []Topic{TopicHotkey, TopicListChanged, TopicToggleBar} {
		if n := bus.Subscribers(topic); n != 0 {
			t.Fatalf("expected %s released, got %d subscribers", topic, n)
		}
	}
	if err := scope.Subscribe(TopicHotkey, func(Event) {}); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed from closed scope, got %v", err)
	}
}

func TestClosedBusRejectsUse(t *testing.T) {
	bus := New()
	bus.Close()
	if err := bus.Publish(TopicHotkey, 1); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if _, err := bus.Subscribe(TopicHotkey, func(Event) {}); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}
