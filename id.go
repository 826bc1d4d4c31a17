package gameplaytags

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ID is the runtime handle of a tag: the Hash of its canonical path.
//
// IDs are plain values. Equality and ordering are those of the underlying
// uint32; they carry no reference to a registry. The zero value is None.
type ID uint32

// None is the reserved "no tag" identifier.
const None ID = 0

// FromPath returns the ID of a canonical tag path.
//
// The path is hashed as given; callers are expected to pass canonical paths
// (see Canonicalize). An empty path yields None. FromPath does not consult
// or require a built registry.
func FromPath(path string) ID {
	if path == "" {
		return None
	}
	return ID(Hash(path))
}

// FromRawID wraps a raw identifier without validation. Use it when reading
// persisted values.
func FromRawID(raw uint32) ID {
	return ID(raw)
}

// Raw returns the serialized form of the ID.
func (id ID) Raw() uint32 {
	return uint32(id)
}

// IsValid reports whether id refers to a tag.
func (id ID) IsValid() bool {
	return id != None
}

// IsNone reports whether id is the None sentinel.
func (id ID) IsNone() bool {
	return id == None
}

// MatchesOrIsDescendantOf reports whether id equals other or is a descendant
// of other in the default registry. It is false when other is None.
func (id ID) MatchesOrIsDescendantOf(other ID) bool {
	return Default().Matches(id, other)
}

// Name returns the canonical path of id in the default registry.
func (id ID) Name() (string, bool) {
	return Default().ResolveName(id)
}

// String renders id using the default registry. IDs without a known name
// render as "#<hash>".
func (id ID) String() string {
	return Default().Display(id)
}

// GoString renders the raw form so %#v output never triggers a registry build.
func (id ID) GoString() string {
	return fmt.Sprintf("gameplaytags.ID(%d)", uint32(id))
}

// MarshalText encodes the ID as its decimal raw value.
func (id ID) MarshalText() ([]byte, error) {
	return strconv.AppendUint(nil, uint64(id), 10), nil
}

// UnmarshalText decodes a decimal raw value.
func (id *ID) UnmarshalText(text []byte) error {
	v, err := strconv.ParseUint(string(text), 10, 32)
	if err != nil {
		return NewDecodeError("ID.UnmarshalText", err)
	}
	*id = ID(v)
	return nil
}

// MarshalJSON encodes the ID as a bare JSON number.
func (id ID) MarshalJSON() ([]byte, error) {
	return id.MarshalText()
}

// UnmarshalJSON decodes a bare JSON number.
func (id *ID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*id = None
		return nil
	}
	v, err := strconv.ParseUint(string(data), 10, 32)
	if err != nil {
		return NewDecodeError("ID.UnmarshalJSON", err)
	}
	*id = ID(v)
	return nil
}

// MarshalYAML encodes the ID as a bare integer.
func (id ID) MarshalYAML() (any, error) {
	return uint32(id), nil
}

// UnmarshalYAML decodes a bare integer.
func (id *ID) UnmarshalYAML(node *yaml.Node) error {
	var v uint32
	if err := node.Decode(&v); err != nil {
		return NewDecodeError("ID.UnmarshalYAML", err)
	}
	*id = ID(v)
	return nil
}
