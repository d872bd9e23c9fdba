package events

import "github.com/atomicstack/tmux-prompt-bar/internal/logging"

type WindowTracer struct{}

var Window = WindowTracer{}

func (WindowTracer) Open(key string, x, y, width, height int) {
	logging.Trace("window.open", map[string]interface{}{"key": key, "x": x, "y": y, "width": width, "height": height})
}

func (WindowTracer) Focus(key string) {
	logging.Trace("window.focus", map[string]interface{}{"key": key})
}

func (WindowTracer) Close(key string) {
	logging.Trace("window.close", map[string]interface{}{"key": key})
}

func (WindowTracer) Closed(key string) {
	logging.Trace("window.closed", map[string]interface{}{"key": key})
}
