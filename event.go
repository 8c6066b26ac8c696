package timelinez

// EventKind tags the variant held by a RawEvent.
type EventKind uint8

const (
	// EventNewSpan records the allocation of a span id.
	EventNewSpan EventKind = iota + 1
	// EventEnter records a span becoming current on a thread.
	EventEnter
	// EventExit records a span leaving a thread.
	EventExit
	// EventStrField attaches a string value to a span field.
	EventStrField
)

// String returns the string representation of EventKind.
func (k EventKind) String() string {
	switch k {
	case EventNewSpan:
		return "new_span"
	case EventEnter:
		return "enter"
	case EventExit:
		return "exit"
	case EventStrField:
		return "str_field"
	default:
		return "unknown"
	}
}

// LabelField is the only field name interpreted by reconstruction.
// Its value replaces the span's display name.
const LabelField = "label"

// RawEvent is one entry of a per-thread event log.
//
// Which fields are meaningful depends on Kind:
//   - EventNewSpan: ID, Name, Parent (0 means "no explicit parent").
//   - EventEnter, EventExit: ID, Time.
//   - EventStrField: ID, Name (the field name), Value.
type RawEvent struct {
	Name   string
	Value  string
	ID     uint64
	Parent uint64
	Time   uint64
	Kind   EventKind
}
