package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mholzen/treegrid/pkg/rowmodel"
)

const ndjsonContentType = "application/x-ndjson"

// streamSink writes each Sink call as one JSON line and flushes it, so the
// grid can render the root page before the pushes arrive.
type streamSink struct {
	w       http.ResponseWriter
	encoder *json.Encoder
	started bool
	// err is the first write error. Once set, events are dropped.
	err error
}

func newStreamSink(w http.ResponseWriter) *streamSink {
	return &streamSink{w: w, encoder: json.NewEncoder(w)}
}

func (s *streamSink) Success(result rowmodel.Result) {
	s.write(http.StatusOK, rowmodel.Event{Type: rowmodel.EventSuccess, Result: &result})
}

func (s *streamSink) Fail(err error) {
	s.failWithStatus(http.StatusUnprocessableEntity, err)
}

// failWithStatus sends a single fail event. It only sets the status when it is
// the first event of the response.
func (s *streamSink) failWithStatus(status int, err error) {
	s.write(status, rowmodel.Event{Type: rowmodel.EventFail, Error: err.Error()})
}

func (s *streamSink) PushChildren(route []string, result rowmodel.Result) {
	s.write(http.StatusOK, rowmodel.Event{Type: rowmodel.EventPush, Route: route, Result: &result})
}

func (s *streamSink) write(status int, event rowmodel.Event) {
	if s.err != nil {
		return
	}
	if !s.started {
		s.w.Header().Set("Content-Type", ndjsonContentType)
		s.w.WriteHeader(status)
		s.started = true
	}
	if err := s.encoder.Encode(event); err != nil {
		s.err = err
		slog.Warn("cannot write event, dropping the rest of the stream", "type", event.Type, "error", err)
		return
	}
	if f, ok := s.w.(http.Flusher); ok {
		f.Flush()
	}
}
