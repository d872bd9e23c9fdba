package events

import "github.com/atomicstack/tmux-prompt-bar/internal/logging"

type BusTracer struct{}

var Bus = BusTracer{}

func (BusTracer) Publish(topic string, payload any, subscribers int) {
	logging.Trace("bus.publish", map[string]interface{}{"topic": topic, "payload": payload, "subscribers": subscribers})
}

func (BusTracer) Subscribe(topic string, id uint64) {
	logging.Trace("bus.subscribe", map[string]interface{}{"topic": topic, "id": id})
}

func (BusTracer) Unsubscribe(topic string, id uint64) {
	logging.Trace("bus.unsubscribe", map[string]interface{}{"topic": topic, "id": id})
}

func (BusTracer) Relay(topic, addr string) {
	logging.Trace("bus.relay", map[string]interface{}{"topic": topic, "addr": addr})
}
