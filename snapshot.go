package gameplaytags

import (
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// snapshot is one immutable build of the registry. Readers load a single
// snapshot pointer, so a rebuild never exposes a partially built index.
type snapshot struct {
	generation uuid.UUID
	builtAt    time.Time

	ids   map[string]ID
	names map[ID]string

	// ancestors holds, for every registered tag, its strict ancestors
	// ordered nearest first. Root tags map to an empty slice.
	ancestors map[ID][]ID

	children map[ID][]ID
	explicit map[ID]struct{}

	collisions int
}

// emptySnapshot is the state of a registry whose source yielded nothing.
func emptySnapshot() *snapshot {
	return &snapshot{
		generation: uuid.New(),
		builtAt:    time.Now(),
		ids:        map[string]ID{},
		names:      map[ID]string{},
		ancestors:  map[ID][]ID{},
		children:   map[ID][]ID{},
		explicit:   map[ID]struct{}{},
	}
}

// snapshotBuilder derives a snapshot from an ordered list of canonical paths.
type snapshotBuilder struct {
	logger   *slog.Logger
	snap     *snapshot
	collided map[string]struct{}
}

func newSnapshotBuilder(logger *slog.Logger, sizeHint int) *snapshotBuilder {
	s := emptySnapshot()
	// Implicit parents roughly double the tag count in typical trees.
	s.ids = make(map[string]ID, 2*sizeHint)
	s.names = make(map[ID]string, 2*sizeHint)
	s.ancestors = make(map[ID][]ID, 2*sizeHint)
	s.explicit = make(map[ID]struct{}, sizeHint)
	return &snapshotBuilder{logger: logger, snap: s, collided: map[string]struct{}{}}
}

// register records name<->id if neither side is taken. It reports whether
// name now owns id.
func (b *snapshotBuilder) register(name string, id ID) bool {
	if owned, ok := b.snap.ids[name]; ok {
		return owned == id
	}
	if existing, ok := b.snap.names[id]; ok {
		if _, seen := b.collided[name]; seen {
			return false
		}
		b.collided[name] = struct{}{}
		b.snap.collisions++
		b.logger.Warn("tag hash collision, keeping first registration",
			"id", uint32(id),
			"kept", existing,
			"ignored", name)
		return false
	}
	b.snap.ids[name] = id
	b.snap.names[id] = name
	b.snap.ancestors[id] = []ID{}
	return true
}

func (b *snapshotBuilder) build(paths []string) *snapshot {
	s := b.snap

	// Explicit tags first so implicit discovery never overrides their names.
	for _, p := range paths {
		if p == "" {
			continue
		}
		id := FromPath(p)
		if b.register(p, id) {
			s.explicit[id] = struct{}{}
		}
	}

	// Walk each path root-first. A prefix's ancestors are complete before
	// any of its children are visited.
	for _, p := range paths {
		if p == "" {
			continue
		}
		parentID := None
		for end := 0; end < len(p); {
			next := strings.Index(p[end:], Separator)
			var prefix string
			if next < 0 {
				prefix = p
				end = len(p)
			} else {
				prefix = p[:end+next]
				end += next + 1
			}

			id := FromPath(prefix)
			if !b.register(prefix, id) {
				// A colliding prefix has no hierarchy of its own; stop here so
				// nothing below it points at the wrong parent.
				break
			}
			if parentID != None {
				anc := make([]ID, 0, len(s.ancestors[parentID])+1)
				anc = append(anc, parentID)
				anc = append(anc, s.ancestors[parentID]...)
				s.ancestors[id] = anc
			}
			parentID = id
		}
	}

	for id, anc := range s.ancestors {
		if len(anc) > 0 {
			s.children[anc[0]] = append(s.children[anc[0]], id)
		}
	}
	for parent, kids := range s.children {
		sort.Slice(kids, func(i, j int) bool {
			return s.names[kids[i]] < s.names[kids[j]]
		})
		s.children[parent] = kids
	}

	s.builtAt = time.Now()
	return s
}

// Stats summarizes a build.
type Stats struct {
	// Generation uniquely identifies the build that produced the current state.
	Generation uuid.UUID `json:"generation"`

	// BuiltAt is when the build completed. Zero if the registry is unbuilt.
	BuiltAt time.Time `json:"built_at"`

	// Explicit counts tags listed by the source.
	Explicit int `json:"explicit"`

	// Implicit counts parent prefixes discovered from explicit tags.
	Implicit int `json:"implicit"`

	// Collisions counts registrations dropped because another name already
	// held the same hash.
	Collisions int `json:"collisions"`
}

func (s *snapshot) stats() Stats {
	return Stats{
		Generation: s.generation,
		BuiltAt:    s.builtAt,
		Explicit:   len(s.explicit),
		Implicit:   len(s.names) - len(s.explicit),
		Collisions: s.collisions,
	}
}
