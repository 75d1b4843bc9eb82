package rowmodel

type EventType string

const (
	EventSuccess EventType = "success"
	EventFail    EventType = "fail"
	EventPush    EventType = "push"
)

// Event is one call made on a Sink.
type Event struct {
	Type  EventType `json:"type"`
	Route []string  `json:"route,omitempty"`
	Error string    `json:"error,omitempty"`
	*Result
}

// Recorder is a Sink that keeps every call in order.
type Recorder struct {
	Events []Event `json:"events"`
	Err    error   `json:"-"`
}

func (r *Recorder) Success(result Result) {
	r.Events = append(r.Events, Event{Type: EventSuccess, Result: &result})
}

func (r *Recorder) Fail(err error) {
	r.Err = err
	r.Events = append(r.Events, Event{Type: EventFail, Error: err.Error()})
}

func (r *Recorder) PushChildren(route []string, result Result) {
	r.Events = append(r.Events, Event{Type: EventPush, Route: route, Result: &result})
}

// Pushes returns the recorded PushChildren events.
func (r *Recorder) Pushes() []Event {
	var pushes []Event
	for _, e := range r.Events {
		if e.Type == EventPush {
			pushes = append(pushes, e)
		}
	}
	return pushes
}

// Succeeded reports whether the first event was a Success.
func (r *Recorder) Succeeded() bool {
	return len(r.Events) > 0 && r.Events[0].Type == EventSuccess
}
