package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ndolgikh/marketcore/internal/logging"
)

type Action string

const (
	ActionInsert Action = "insert"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Event is the before/after change notification consumed by the audit
// pipeline. Before and After carry entity snapshots and may be nil for
// inserts and deletes respectively.
type Event struct {
	ID     string    `json:"id"`
	Entity string    `json:"entity"`
	Action Action    `json:"action"`
	Before any       `json:"before,omitempty"`
	After  any       `json:"after,omitempty"`
	At     time.Time `json:"at"`
	Actor  string    `json:"actor"`
}

type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

type Sink struct {
	Producer Publisher
	Topic    string
}

func NewSink(p Publisher, topic string) *Sink {
	return &Sink{Producer: p, Topic: topic}
}

// Emit publishes best-effort, after the caller's transaction has
// committed; a failed publish is logged and forgotten.
func (s *Sink) Emit(ctx context.Context, e Event) {
	if s == nil || s.Producer == nil {
		return
	}
	e.ID = uuid.NewString()
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}

	l := logging.FromContext(ctx)
	go func() {
		pubCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.Producer.PublishEvent(pubCtx, s.Topic, e.Entity, e); err != nil {
			l.Error("audit publish error", "entity", e.Entity, "action", e.Action, "error", err)
		}
	}()
}
