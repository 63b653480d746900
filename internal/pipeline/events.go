package pipeline

// State names a stage of a trip-generation run. Runs move strictly forward;
// the only re-entry is a caller-initiated retry after a failure.
type State string

const (
	StateIdle          State = "idle"
	StateValidating    State = "validating"
	StateCacheLookup   State = "cache_lookup"
	StateMaterializing State = "materializing"
	StateGenerating    State = "generating"
	StateSanitizing    State = "sanitizing"
	StateRepairing     State = "repairing"
	StateNormalizing   State = "normalizing"
	StatePersisting    State = "persisting"
	StateDone          State = "done"
	StateFailed        State = "failed"
)

// Event is one progress notification from a run. Attempt is only meaningful
// in the generating state; InstanceID is only set on done.
type Event struct {
	State      State    `json:"state"`
	Attempt    int      `json:"attempt,omitempty"`
	Message    string   `json:"message,omitempty"`
	InstanceID string   `json:"instanceId,omitempty"`
	Failure    *Failure `json:"-"`
}
