package timelinez

// Span is a fully-resolved traced interval.
// Timestamps are nanoseconds relative to the earliest recorded event of
// the collection it belongs to.
//
//nolint:govet // Field order follows the serialized layout
type Span struct {
	Name            string `yaml:"name" msgpack:"name"`
	ID              uint64 `yaml:"id" msgpack:"id"`
	Parent          uint64 `yaml:"parent,omitempty" msgpack:"parent,omitempty"`
	Start           uint64 `yaml:"start" msgpack:"start"`
	End             uint64 `yaml:"end" msgpack:"end"`
	ExecutionThread int    `yaml:"execution_thread" msgpack:"execution_thread"`
	CreationThread  int    `yaml:"creation_thread" msgpack:"creation_thread"`
}

// HasParent reports whether the span nests under another span.
// Span ids start at 1, so a zero Parent means no parent.
func (s Span) HasParent() bool {
	return s.Parent != 0
}

// Duration returns End - Start.
func (s Span) Duration() uint64 {
	return s.End - s.Start
}
