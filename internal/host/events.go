package host

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Event is one intent fired by an action.
type Event struct {
	Seq     int            `yaml:"seq"               json:"seq"`
	TS      int64          `yaml:"ts"                json:"ts"`
	Kind    string         `yaml:"kind"              json:"kind"`
	Payload map[string]any `yaml:"payload,omitempty" json:"payload,omitempty"`
}

// EventLog records fired events in order, keeping the most recent ones.
type EventLog struct {
	mu     sync.Mutex
	events []Event
	seq    int
	max    int
}

// NewEventLog returns a log holding at most max events (1000 when max <= 0).
func NewEventLog(max int) *EventLog {
	if max <= 0 {
		max = 1000
	}
	return &EventLog{max: max}
}

// FireEvent implements action.EventSink.
func (l *EventLog) FireEvent(kind string, payload map[string]any) {
	l.mu.Lock()
	l.seq++
	l.events = append(l.events, Event{Seq: l.seq, TS: time.Now().Unix(), Kind: kind, Payload: payload})
	if over := len(l.events) - l.max; over > 0 {
		l.events = append(l.events[:0:0], l.events[over:]...)
	}
	l.mu.Unlock()

	log.WithField("event", kind).WithFields(logrus.Fields(payload)).Info("display event")
}

// Events returns every retained event.
func (l *EventLog) Events() []Event {
	return l.Since(0)
}

// Since returns the retained events with a sequence number above seq.
func (l *EventLog) Since(seq int) []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []Event
	for _, e := range l.events {
		if e.Seq > seq {
			out = append(out, e)
		}
	}
	return out
}

// Last returns the sequence number of the newest event, 0 if none.
func (l *EventLog) Last() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.seq
}

// Reset drops every event.
func (l *EventLog) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = nil
}
