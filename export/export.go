// Package export saves and loads reconstructed span sets so they can be
// laid out and drawn by another process.
package export

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/zoobzio/timelinez"
	"gopkg.in/yaml.v2"
)

// Format selects the dump encoding.
type Format uint8

const (
	// FormatYAML is human-readable and diff-friendly.
	FormatYAML Format = iota + 1
	// FormatMsgpack is compact binary.
	FormatMsgpack
)

// String returns the string representation of Format.
func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatMsgpack:
		return "msgpack"
	default:
		return "unknown"
	}
}

// version is bumped whenever the dump layout changes.
const version = 1

var (
	// ErrUnknownFormat reports an unsupported format name.
	ErrUnknownFormat = errors.New("unknown dump format")
	// ErrVersion reports a dump written by an incompatible version.
	ErrVersion = errors.New("unsupported dump version")
	// ErrDuplicateSpan reports a dump listing the same span id twice.
	ErrDuplicateSpan = errors.New("duplicate span")
)

// ParseFormat converts a format name to Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "yaml", "yml":
		return FormatYAML, nil
	case "msgpack", "mp":
		return FormatMsgpack, nil
	default:
		return 0, fmt.Errorf("%w: %q (expected: yaml|msgpack)", ErrUnknownFormat, s)
	}
}

// FormatFor guesses the format from a file extension.
func FormatFor(path string) (Format, error) {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}

type document struct {
	Version int              `yaml:"version" msgpack:"version"`
	Spans   []timelinez.Span `yaml:"spans" msgpack:"spans"`
}

// Encode writes spans to w, ordered by span id.
func Encode(w io.Writer, format Format, spans map[uint64]timelinez.Span) error {
	doc := document{Version: version, Spans: make([]timelinez.Span, 0, len(spans))}
	for _, s := range spans {
		doc.Spans = append(doc.Spans, s)
	}
	slices.SortFunc(doc.Spans, func(a, b timelinez.Span) int {
		return cmp.Compare(a.ID, b.ID)
	})

	switch format {
	case FormatYAML:
		data, err := yaml.Marshal(&doc)
		if err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		_, err = w.Write(data)
		return err
	case FormatMsgpack:
		if err := msgpack.NewEncoder(w).Encode(&doc); err != nil {
			return fmt.Errorf("encoding msgpack: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("%w: %v", ErrUnknownFormat, format)
	}
}

// Decode reads a span set written by Encode.
func Decode(r io.Reader, format Format) (map[uint64]timelinez.Span, error) {
	var doc document
	switch format {
	case FormatYAML:
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decoding yaml: %w", err)
		}
	case FormatMsgpack:
		if err := msgpack.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("decoding msgpack: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownFormat, format)
	}

	if doc.Version != version {
		return nil, fmt.Errorf("%w: %d", ErrVersion, doc.Version)
	}
	spans := make(map[uint64]timelinez.Span, len(doc.Spans))
	for _, s := range doc.Spans {
		if _, ok := spans[s.ID]; ok {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateSpan, s.ID)
		}
		spans[s.ID] = s
	}
	return spans, nil
}
