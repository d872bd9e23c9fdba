package events

import "github.com/atomicstack/tmux-prompt-bar/internal/logging"

type ActionTracer struct{}

var Action = ActionTracer{}

func (ActionTracer) Deliver(index int, title string) {
	logging.Trace("action.deliver", map[string]interface{}{"index": index, "title": title})
}

func (ActionTracer) Paste(target string, submit bool) {
	logging.Trace("action.paste", map[string]interface{}{"target": target, "submit": submit})
}

func (ActionTracer) Copy(index int, title string) {
	logging.Trace("action.copy", map[string]interface{}{"index": index, "title": title})
}

func (ActionTracer) Hotkey(index int) {
	logging.Trace("action.hotkey", map[string]interface{}{"index": index})
}

func (ActionTracer) Toggle(running bool) {
	logging.Trace("action.toggle", map[string]interface{}{"bar_running": running})
}

func (ActionTracer) Bind(key, command string) {
	logging.Trace("action.bind", map[string]interface{}{"key": key, "command": command})
}

func (ActionTracer) Error(err error) {
	if err == nil {
		return
	}
	logging.Trace("action.error", map[string]interface{}{"error": err.Error()})
}

func (ActionTracer) Success(info string) {
	logging.Trace("action.success", map[string]interface{}{"info": info})
}
