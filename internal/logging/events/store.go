package events

import "github.com/atomicstack/tmux-prompt-bar/internal/logging"

type StoreTracer struct{}

var Store = StoreTracer{}

func (StoreTracer) Load(doc string, entries int, seeded bool) {
	logging.Trace("store.load", map[string]interface{}{"doc": doc, "entries": entries, "seeded": seeded})
}

func (StoreTracer) Save(doc string, entries int) {
	logging.Trace("store.save", map[string]interface{}{"doc": doc, "entries": entries})
}

func (StoreTracer) Changed(path string) {
	logging.Trace("store.changed", map[string]interface{}{"path": path})
}
