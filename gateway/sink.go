package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/opentoolset/relay/pkg/eventstream"
	"github.com/opentoolset/relay/pkg/relay"
	"github.com/opentoolset/relay/pkg/sse"
)

// chatChunk is the wire shape for relayed token text, mirroring the upstream
// delta format so gateway output is itself consumable by a relay client.
type chatChunk struct {
	Choices []chatChoice `json:"choices"`
}

type chatChoice struct {
	Delta chatDelta `json:"delta"`
}

type chatDelta struct {
	Content string `json:"content"`
}

// structuralFrame is the wire shape for status and citation payloads.
type structuralFrame struct {
	Data map[string]any `json:"data"`
}

// errorFrame reports a relay failure to the client inside the stream, since
// headers are long gone by the time a mid-stream error can occur.
type errorFrame struct {
	Error string `json:"error"`
}

// sseSink converts relay events back into SSE frames on the client
// connection and tallies them for the completion event. It is driven by a
// single relay goroutine, so no locking.
type sseSink struct {
	w      io.Writer
	counts eventstream.ChatEventCounts
}

func newSSESink(w io.Writer) *sseSink {
	return &sseSink{w: w}
}

// Emit writes one SSE frame per relay event. Write errors abort the relay,
// which treats them as a sink failure.
func (s *sseSink) Emit(_ context.Context, ev *relay.Event) error {
	switch ev.Type {
	case relay.EventMessage:
		s.counts.Messages++
		return s.writeData("", chatChunk{
			Choices: []chatChoice{{Delta: chatDelta{Content: ev.Content}}},
		})
	case relay.EventStatus:
		s.counts.Statuses++
		return s.writeData("status", structuralFrame{Data: ev.Data})
	case relay.EventCitation:
		s.counts.Citations++
		return s.writeData("source", structuralFrame{Data: ev.Data})
	default:
		return fmt.Errorf("unknown event type %q", ev.Type)
	}
}

// Counts reports the events emitted so far.
func (s *sseSink) Counts() eventstream.ChatEventCounts {
	return s.counts
}

// writeDone terminates the stream with the sentinel frame.
func (s *sseSink) writeDone() error {
	_, err := fmt.Fprintf(s.w, "data: %s\n\n", sse.Done)
	return err
}

// writeError surfaces a relay failure as a tagged error frame.
func (s *sseSink) writeError(relayErr error) error {
	return s.writeData("error", errorFrame{Error: relayErr.Error()})
}

func (s *sseSink) writeData(tag string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling %q frame: %w", tag, err)
	}

	if tag != "" {
		if _, err := fmt.Fprintf(s.w, "event: %s\n", tag); err != nil {
			return err
		}
	}

	_, err = fmt.Fprintf(s.w, "data: %s\n\n", data)
	return err
}
