package ui

import (
	"reflect"

	tea "github.com/charmbracelet/bubbletea"
)

type msgHandler func(tea.Msg) tea.Cmd

// router dispatches messages by their dynamic type. Pointer messages fall
// back to the handler of their element type.
type router map[reflect.Type]msgHandler

func (r router) on(sample tea.Msg, handler msgHandler) {
	r[reflect.TypeOf(sample)] = handler
}

func (r router) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := r[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := r[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

func (r router) dispatch(msg tea.Msg) tea.Cmd {
	if handler := r.handlerFor(msg); handler != nil {
		return handler(msg)
	}
	return nil
}
