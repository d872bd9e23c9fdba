package events

import "github.com/atomicstack/tmux-prompt-bar/internal/logging"

type SlotTracer struct{}

var Slot = SlotTracer{}

func (SlotTracer) Attempt(index int, kind string, token uint64) {
	logging.Trace("slot.attempt", map[string]interface{}{"index": index, "kind": kind, "token": token})
}

func (SlotTracer) Report(index int, token uint64, err error) {
	payload := map[string]interface{}{"index": index, "token": token, "ok": err == nil}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("slot.report", payload)
}

func (SlotTracer) Stale(index int, token uint64) {
	logging.Trace("slot.stale", map[string]interface{}{"index": index, "token": token})
}

func (SlotTracer) Reset(index int) {
	logging.Trace("slot.reset", map[string]interface{}{"index": index})
}
