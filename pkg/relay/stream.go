package relay

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/opentoolset/relay/pkg/sse"
	"github.com/opentoolset/relay/pkg/utils"
)

// Event tags the toolset server uses for structural frames. Any other tag
// (or no tag) marks a plain token frame.
const (
	tagStatus = "status"
	tagSource = "source"
)

// frame is the minimal shape of a data-line payload the relay routes on:
// the structural payload for status/source frames, and the OpenAI-style
// delta for token frames. Everything else in the payload is ignored.
type frame struct {
	Data    map[string]any `json:"data"`
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// streamState is the relay's per-invocation parse state: the pending event
// tag, the token accumulator, and the batching clock. Exactly one exists per
// Run, owned by the line loop.
type streamState struct {
	tag       string
	buf       strings.Builder
	lastFlush time.Time
	interval  time.Duration
}

func newStreamState(interval time.Duration) *streamState {
	return &streamState{
		lastFlush: time.Now(),
		interval:  interval,
	}
}

// flush emits the accumulated token text as a single message event. A flush
// with nothing accumulated is a no-op and leaves the batching clock alone.
func (s *streamState) flush(ctx context.Context, sink Sink) error {
	if s.buf.Len() == 0 {
		return nil
	}

	ev := NewMessage(s.buf.String())
	s.buf.Reset()
	s.lastFlush = time.Now()

	return sink.Emit(ctx, ev)
}

// due reports whether the batching window has elapsed since the last flush.
func (s *streamState) due() bool {
	return time.Since(s.lastFlush) >= s.interval
}

// relayStream consumes the SSE response body line by line, emitting sink
// events per the frame protocol. It returns nil on the [DONE] sentinel or on
// a clean end of stream (force-flushing residual tokens in both cases), and
// the underlying error otherwise. Cancellation drops the residual buffer.
func (r *Relay) relayStream(ctx context.Context, body io.Reader, sink Sink) error {
	st := newStreamState(r.config.FlushInterval)
	scanner := sse.NewScanner(body)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := scanner.Line()
		switch line.Field {
		case sse.FieldEvent:
			st.tag = line.Value
		case sse.FieldData:
			done, err := r.handleData(ctx, line.Value, sink, st)
			if err != nil {
				return err
			}
			if done {
				return nil
			}
		}
		// FieldNone lines change nothing.
	}

	if err := scanner.Err(); err != nil {
		// A caller-initiated cancel surfaces as a body read error;
		// report the cancellation, not the read failure.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return err
	}

	// Stream ended without the sentinel: a soft, non-error termination.
	// Residual tokens still go out exactly once.
	return st.flush(ctx, sink)
}

// handleData processes one data line. It reports done=true when the stream's
// [DONE] sentinel was seen. The pending event tag never survives a data line,
// malformed payloads included.
func (r *Relay) handleData(ctx context.Context, data string, sink Sink, st *streamState) (done bool, err error) {
	if data == sse.Done {
		return true, st.flush(ctx, sink)
	}

	defer func() { st.tag = "" }()

	var f frame
	if err := json.Unmarshal([]byte(data), &f); err != nil {
		// Partial or corrupted frames are expected under network
		// jitter; skip them without aborting the stream.
		r.logger.Debug("skipping malformed frame",
			"data", utils.Truncate(data, 80),
			"error", err,
		)
		return false, nil
	}

	switch st.tag {
	case tagStatus:
		if err := st.flush(ctx, sink); err != nil {
			return false, err
		}
		return false, sink.Emit(ctx, NewStatus(f.Data))

	case tagSource:
		if err := st.flush(ctx, sink); err != nil {
			return false, err
		}
		return false, sink.Emit(ctx, NewCitation(f.Data))

	default:
		if len(f.Choices) == 0 {
			return false, nil
		}
		if content := f.Choices[0].Delta.Content; content != "" {
			st.buf.WriteString(content)
			if st.due() {
				return false, st.flush(ctx, sink)
			}
		}
		return false, nil
	}
}
