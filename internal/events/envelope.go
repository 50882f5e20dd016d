package events

import (
	"time"

	"github.com/google/uuid"
)

// Envelope wraps an event payload with identity and provenance metadata.
type Envelope struct {
	ID         string
	Type       Type
	OccurredAt time.Time
	Source     string
	Payload    any
	Metadata   map[string]string
}

// NewEnvelope assembles an envelope with a fresh identifier and timestamp.
func NewEnvelope(eventType Type, source string, payload any) Envelope {
	return Envelope{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Source:     source,
		Payload:    payload,
	}
}

// WithMetadata returns a copy of the envelope carrying the extra key. The
// receiver's metadata map is never mutated.
func (e Envelope) WithMetadata(key, value string) Envelope {
	meta := make(map[string]string, len(e.Metadata)+1)
	for k, v := range e.Metadata {
		meta[k] = v
	}
	meta[key] = value
	e.Metadata = meta
	return e
}
