// Package ui contains the Bubble Tea programs of the three window kinds: the
// bar, the per-entry editor and the settings window. Each process runs one of
// them.
//
// Message flow:
//   - Bubble Tea invokes Update with incoming messages. Every model routes
//     them through a typed handler registry so each tea.Msg is handled by a
//     focused function.
//   - Work that may block (opening windows, store writes) runs as tea.Cmd
//     values built by the command bus in internal/ui/command, which traces
//     each request and its result.
//   - Controller state changes reach the bar through its notice channel; the
//     model waits on it with a tea.Cmd and re-arms the wait after each notice.
//
// State ownership:
//   - The controllers in internal/bar, internal/editor and internal/settings
//     own all domain state. Models keep only view state: cursor, focus, the
//     filterable list in internal/ui/state and transient messages.
package ui
