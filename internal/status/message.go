// Package status drives the run control and status strip from the
// extraction job's push channel and from the run trigger.
package status

import "strings"

// Literal message markers emitted by the extraction job.
const (
	prefixProgress = "Passo"
	prefixSaving   = "Salvando"
	prefixFailure  = "Erro"
	literalIdle    = "Idle"
)

// Message is one event from the push channel. The set of implementations is
// closed; dispatch with a type switch.
type Message interface {
	isStatusMessage()
}

// Progress is a step progress message, e.g. "Passo 2/5: Buscando IDs".
type Progress struct{ Text string }

// Saving is emitted while results are persisted.
type Saving struct{ Text string }

// Failure is a job error reported by the server, e.g. "Erro: timeout".
type Failure struct{ Text string }

// Idle means the job is quiescent and a new run may start.
type Idle struct{}

// Other is any text that matches no known marker.
type Other struct{ Text string }

// Closed is delivered once when the channel disconnects.
type Closed struct{ Err error }

// TransportError is delivered once when the channel fails at transport level.
type TransportError struct{ Err error }

func (Progress) isStatusMessage()       {}
func (Saving) isStatusMessage()         {}
func (Failure) isStatusMessage()        {}
func (Idle) isStatusMessage()           {}
func (Other) isStatusMessage()          {}
func (Closed) isStatusMessage()         {}
func (TransportError) isStatusMessage() {}

// Classify maps a raw channel frame onto the message set. Prefix matches are
// case sensitive and the idle marker must match exactly.
func Classify(text string) Message {
	switch {
	case text == literalIdle:
		return Idle{}
	case strings.HasPrefix(text, prefixProgress):
		return Progress{Text: text}
	case strings.HasPrefix(text, prefixSaving):
		return Saving{Text: text}
	case strings.HasPrefix(text, prefixFailure):
		return Failure{Text: text}
	default:
		return Other{Text: text}
	}
}

// Text returns the display text carried by a message, if any.
func Text(msg Message) string {
	switch m := msg.(type) {
	case Progress:
		return m.Text
	case Saving:
		return m.Text
	case Failure:
		return m.Text
	case Idle:
		return literalIdle
	case Other:
		return m.Text
	}
	return ""
}

// Kind returns a stable lowercase name for a message, used in logs.
func Kind(msg Message) string {
	switch msg.(type) {
	case Progress:
		return "progress"
	case Saving:
		return "saving"
	case Failure:
		return "failure"
	case Idle:
		return "idle"
	case Other:
		return "other"
	case Closed:
		return "closed"
	case TransportError:
		return "transport_error"
	}
	return "unknown"
}

// Terminal reports whether no further messages follow msg.
func Terminal(msg Message) bool {
	switch msg.(type) {
	case Closed, TransportError:
		return true
	}
	return false
}
