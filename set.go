package gameplaytags

import (
	"encoding/json"
	"strings"
)

// Set is an insertion-ordered, duplicate-free collection of tag IDs with
// hierarchy-aware queries. Order carries no meaning.
//
// A Set answers hierarchy questions through a registry: the default one,
// or the registry passed to NewSetIn. The zero value is an empty Set bound
// to the default registry.
//
// A nil *Set reads as an empty Set bound to the default registry. Add,
// AddAll and the Unmarshal methods need a non-nil receiver.
//
// Sets are not safe for concurrent mutation.
type Set struct {
	ids      []ID
	registry *Registry
}

// NewSet returns a Set holding ids, bound to the default registry.
func NewSet(ids ...ID) *Set {
	return NewSetIn(nil, ids...)
}

// NewSetIn returns a Set holding ids whose hierarchy queries use r.
// A nil r means the default registry.
func NewSetIn(r *Registry, ids ...ID) *Set {
	s := &Set{registry: r}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

func (s *Set) hierarchy() *Registry {
	if s != nil && s.registry != nil {
		return s.registry
	}
	return Default()
}

// Add appends id. Invalid and already present IDs are ignored.
func (s *Set) Add(id ID) {
	if id == None || s.HasTagExact(id) {
		return
	}
	s.ids = append(s.ids, id)
}

// AddAll adds every tag of other.
func (s *Set) AddAll(other *Set) {
	if other == nil {
		return
	}
	for _, id := range other.ids {
		s.Add(id)
	}
}

// Remove deletes id and reports whether it was present.
func (s *Set) Remove(id ID) bool {
	if s == nil {
		return false
	}
	for i, t := range s.ids {
		if t == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			return true
		}
	}
	return false
}

// Clear removes every tag.
func (s *Set) Clear() {
	if s == nil {
		return
	}
	s.ids = s.ids[:0]
}

// Len returns the number of tags held.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.ids)
}

// IsEmpty reports whether the set holds no tags.
func (s *Set) IsEmpty() bool {
	return s.Len() == 0
}

// IDs returns a copy of the held tags in insertion order.
func (s *Set) IDs() []ID {
	if s == nil {
		return []ID{}
	}
	out := make([]ID, len(s.ids))
	copy(out, s.ids)
	return out
}

// Clone returns an independent copy bound to the same registry. Cloning a
// nil Set gives an empty one.
func (s *Set) Clone() *Set {
	if s == nil {
		return NewSet()
	}
	return &Set{ids: s.IDs(), registry: s.registry}
}

// HasTag reports whether the set holds q or any tag below q.
//
// Holding Status.Debuff.Slow satisfies HasTag(Status.Debuff); holding
// Status.Debuff does not satisfy HasTag(Status.Debuff.Slow).
func (s *Set) HasTag(q ID) bool {
	if q == None || s.IsEmpty() {
		return false
	}
	r := s.hierarchy()
	for _, t := range s.ids {
		if r.Matches(t, q) {
			return true
		}
	}
	return false
}

// HasTagExact reports whether q is held verbatim.
func (s *Set) HasTagExact(q ID) bool {
	if q == None || s == nil {
		return false
	}
	for _, t := range s.ids {
		if t == q {
			return true
		}
	}
	return false
}

// HasAny reports whether HasTag holds for at least one tag of other.
func (s *Set) HasAny(other *Set) bool {
	if other.IsEmpty() || s.IsEmpty() {
		return false
	}
	for _, q := range other.ids {
		if s.HasTag(q) {
			return true
		}
	}
	return false
}

// HasAnyExact reports whether at least one tag of other is held verbatim.
func (s *Set) HasAnyExact(other *Set) bool {
	if other.IsEmpty() || s.IsEmpty() {
		return false
	}
	for _, q := range other.ids {
		if s.HasTagExact(q) {
			return true
		}
	}
	return false
}

// HasAll reports whether HasTag holds for every tag of other. It is true
// for an empty other, and false for an empty receiver otherwise.
func (s *Set) HasAll(other *Set) bool {
	if other.IsEmpty() {
		return true
	}
	if s.IsEmpty() {
		return false
	}
	for _, q := range other.ids {
		if !s.HasTag(q) {
			return false
		}
	}
	return true
}

// HasAllExact reports whether every tag of other is held verbatim, with
// the same empty-set rules as HasAll.
func (s *Set) HasAllExact(other *Set) bool {
	if other.IsEmpty() {
		return true
	}
	if s.IsEmpty() {
		return false
	}
	for _, q := range other.ids {
		if !s.HasTagExact(q) {
			return false
		}
	}
	return true
}

// Names renders every held tag through the set's registry.
func (s *Set) Names() []string {
	if s == nil {
		return []string{}
	}
	r := s.hierarchy()
	out := make([]string, len(s.ids))
	for i, id := range s.ids {
		out[i] = r.Display(id)
	}
	return out
}

// String renders the set as "{A.B, C}".
func (s *Set) String() string {
	return "{" + strings.Join(s.Names(), ", ") + "}"
}

// MarshalJSON encodes the set as an array of raw IDs.
func (s *Set) MarshalJSON() ([]byte, error) {
	raw := make([]uint32, s.Len())
	for i, id := range s.IDs() {
		raw[i] = uint32(id)
	}
	return json.Marshal(raw)
}

// UnmarshalJSON decodes an array of raw IDs, dropping None and duplicates.
func (s *Set) UnmarshalJSON(data []byte) error {
	var raw []uint32
	if err := json.Unmarshal(data, &raw); err != nil {
		return NewDecodeError("Set.UnmarshalJSON", err)
	}
	s.ids = s.ids[:0]
	for _, v := range raw {
		s.Add(ID(v))
	}
	return nil
}
