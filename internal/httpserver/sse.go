// internal/httpserver/sse.go
//
// Minimal server-sent events encoding. Only the fields the game stream
// needs: event name, data payload, and comment lines for keepalive pulses
// that clients must not mistake for state changes.

package httpserver

import "strings"

// sseEvent is one frame on an event stream.
type sseEvent struct {
	ID      string
	Event   string
	Data    string
	Comment string
}

// render encodes the event in text/event-stream framing. Embedded newlines
// in single-line fields are stripped; multi-line data and comments become
// one field line each, per the SSE format.
func (e sseEvent) render() string {
	var b strings.Builder
	if e.ID != "" {
		b.WriteString("id: " + cleanLine(e.ID) + "\n")
	}
	if e.Event != "" {
		b.WriteString("event: " + cleanLine(e.Event) + "\n")
	}
	if e.Data != "" {
		for _, line := range strings.Split(e.Data, "\n") {
			b.WriteString("data: " + cleanLine(line) + "\n")
		}
	}
	if e.Comment != "" {
		for _, line := range strings.Split(e.Comment, "\n") {
			b.WriteString(": " + cleanLine(line) + "\n")
		}
	}
	b.WriteString("\n")
	return b.String()
}

func cleanLine(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\n", ""))
}
