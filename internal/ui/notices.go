package ui

import (
	"github.com/atomicstack/tmux-prompt-bar/internal/bar"
	tea "github.com/charmbracelet/bubbletea"
)

type noticeMsg struct {
	notice bar.Notice
}

type noticesDoneMsg struct{}

func waitForNotice(ch <-chan bar.Notice) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		n, ok := <-ch
		if !ok {
			return noticesDoneMsg{}
		}
		return noticeMsg{notice: n}
	}
}

type listChangedMsg struct{}

type changesDoneMsg struct{}

func waitForChange(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return changesDoneMsg{}
		}
		return listChangedMsg{}
	}
}
