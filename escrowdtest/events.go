package escrowdtest

import (
	escrowd "github.com/custodia-labs/escrowd"
)

// Recorder is an Emitter that remembers every event it receives,
// in order.
type Recorder struct {
	Events []escrowd.Event
}

var _ escrowd.Emitter = (*Recorder)(nil)

func (r *Recorder) Emit(ev escrowd.Event) {
	r.Events = append(r.Events, ev)
}

// Types returns the event types received so far, in order.
func (r *Recorder) Types() []string {
	types := make([]string, len(r.Events))
	for i, ev := range r.Events {
		types[i] = ev.EventType()
	}
	return types
}
