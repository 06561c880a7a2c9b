package main

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bekirdag/task-report/internal/status"
)

type runTrigger interface {
	Run(ctx context.Context) error
}

type statusMsg struct {
	Message status.Message
}

type statusStreamEndedMsg struct{}

type runFinishedMsg struct {
	Err error
}

// waitForStatusMsg reads one message from the push channel. The model
// re-arms it after every non-terminal message.
func waitForStatusMsg(ch <-chan status.Message) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return statusStreamEndedMsg{}
		}
		return statusMsg{Message: msg}
	}
}

// runExtractionCmd posts the run request. ctx is the program context, so a
// request still in flight on quit is cancelled.
func runExtractionCmd(ctx context.Context, t runTrigger) tea.Cmd {
	return func() tea.Msg {
		return runFinishedMsg{Err: t.Run(ctx)}
	}
}
