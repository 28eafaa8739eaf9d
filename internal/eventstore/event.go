package eventstore

import (
	"encoding/json"
	"time"
)

// Event types.
const (
	TypeBuildStarted   = "build_started"
	TypePostFailed     = "post_failed"
	TypeBuildCompleted = "build_completed"
)

// Event is one stored build event.
type Event struct {
	ID        int64
	BuildID   string
	Type      string
	Timestamp time.Time
	Payload   []byte
	Metadata  map[string]string
}

// Decode unmarshals the payload into out.
func (e Event) Decode(out any) error {
	return json.Unmarshal(e.Payload, out)
}

// BuildStarted is the payload of TypeBuildStarted.
type BuildStarted struct {
	Trigger string `json:"trigger"`
}

// PostFailed is the payload of TypePostFailed.
type PostFailed struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

// BuildCompleted is the payload of TypeBuildCompleted.
type BuildCompleted struct {
	Outcome    string `json:"outcome"`
	Posts      int    `json:"posts"`
	Failures   int    `json:"failures"`
	Issues     int    `json:"issues"`
	Digest     string `json:"digest,omitempty"`
	DurationMS int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
}
