package gameplaytags

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Registry is the derived index of a tag universe. It maps canonical
// paths to IDs and back, including the implicit parent tags of every
// listed path, and knows the full ancestor chain of each tag.
//
// A Registry is built from an ordered list of paths with Build, or from its
// configured Source with Reload. Querying an unbuilt registry triggers one
// implicit Reload. Rebuilding is allowed at any time.
//
// Reads are safe for concurrent use, including while a build runs: every
// query works on one immutable snapshot, swapped in atomically when a build
// completes. Builds themselves must be serialized by the caller (typically a
// single goroutine at startup or on configuration change); concurrent builds
// do not corrupt state but the last one to finish wins.
type Registry struct {
	cfg     registryConfig
	metrics *otelMetrics

	snap atomic.Pointer[snapshot]

	// lazyMu makes concurrent first readers share one implicit build.
	lazyMu sync.Mutex
}

// NewRegistry creates an unbuilt registry.
//
//	reg := gameplaytags.NewRegistry(
//		gameplaytags.WithPaths("Combat.Damage.Fire", "Status.Debuff.Slow"),
//	)
//	reg.IsDescendantOf(gameplaytags.FromPath("Combat.Damage.Fire"), gameplaytags.FromPath("Combat"))
//	// true
func NewRegistry(opts ...Option) *Registry {
	cfg := registryConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	r := &Registry{cfg: cfg}

	metrics, err := initOTelMetrics(cfg.meterProvider)
	if err != nil {
		cfg.logger.Warn("registry metrics disabled", "error", err)
	}
	r.metrics = metrics

	return r
}

// Build replaces the registry contents with the index derived from paths.
//
// Paths must already be canonical (see Canonicalize). Duplicates and
// colliding names are ignored after their first occurrence. Given the same
// input, Build always produces the same mappings.
func (r *Registry) Build(paths []string) {
	r.BuildContext(context.Background(), paths)
}

// BuildContext is Build with a context for tracing.
func (r *Registry) BuildContext(ctx context.Context, paths []string) Stats {
	return r.build(ctx, paths, nil, false)
}

// build derives a snapshot from paths and installs it. A lazy build only
// installs into a registry that is still unbuilt, so it never replaces the
// result of a concurrent Build or Reload.
func (r *Registry) build(ctx context.Context, paths []string, loadErr error, lazy bool) Stats {
	start := time.Now()
	ctx, span := r.startBuildSpan(ctx, len(paths))

	snap := newSnapshotBuilder(r.cfg.logger, len(paths)).build(paths)
	if lazy {
		if !r.snap.CompareAndSwap(nil, snap) {
			if span != nil {
				span.End()
			}
			r.cfg.logger.Debug("discarding implicit tag registry build, registry was built concurrently")
			return r.snap.Load().stats()
		}
	} else {
		r.snap.Store(snap)
	}

	stats := snap.stats()
	r.recordBuild(ctx, span, stats, time.Since(start), loadErr)

	r.cfg.logger.Info("tag registry built",
		"generation", stats.Generation.String(),
		"explicit", stats.Explicit,
		"implicit", stats.Implicit,
		"collisions", stats.Collisions,
		"duration", time.Since(start))

	return stats
}

// Reload rebuilds the registry from its configured Source.
//
// If the source fails, the registry is rebuilt empty (every query answers
// false or "unknown") and the failure is returned as a KindSource *Error
// wrapping ErrSourceUnavailable. A registry without a source builds empty
// and returns nil.
func (r *Registry) Reload(ctx context.Context) (Stats, error) {
	return r.reload(ctx, false)
}

func (r *Registry) reload(ctx context.Context, lazy bool) (Stats, error) {
	if r.cfg.source == nil {
		return r.build(ctx, nil, nil, lazy), nil
	}

	paths, err := r.cfg.source.Paths(ctx)
	if err != nil {
		srcErr := NewSourceError("Registry.Reload", fmt.Errorf("%w: %w", ErrSourceUnavailable, err))
		return r.build(ctx, nil, srcErr, lazy), srcErr
	}

	return r.build(ctx, paths, nil, lazy), nil
}

// Built reports whether the registry has completed a build.
func (r *Registry) Built() bool {
	return r.snap.Load() != nil
}

// current returns the live snapshot, building from the source first if the
// registry has never been built.
func (r *Registry) current() *snapshot {
	if s := r.snap.Load(); s != nil {
		return s
	}

	r.lazyMu.Lock()
	defer r.lazyMu.Unlock()

	if s := r.snap.Load(); s != nil {
		return s
	}

	if _, err := r.reload(context.Background(), true); err != nil {
		r.cfg.logger.Error("implicit tag registry build failed",
			"error", err)
	}
	return r.snap.Load()
}

// Stats describes the current build.
func (r *Registry) Stats() Stats {
	return r.current().stats()
}

// ResolveName returns the canonical path registered for id.
func (r *Registry) ResolveName(id ID) (string, bool) {
	if id == None {
		return "", false
	}
	name, ok := r.current().names[id]
	return name, ok
}

// ResolveID returns the registered ID for name. Names that are not
// registered still get their deterministic hash, which is stable but has
// no hierarchy until a build includes the name.
func (r *Registry) ResolveID(name string) ID {
	if id, ok := r.current().ids[name]; ok {
		return id
	}
	return FromPath(name)
}

// Request returns the ID of name only if the registry knows it.
func (r *Registry) Request(name string) (ID, bool) {
	id, ok := r.current().ids[name]
	return id, ok
}

// IsDescendantOf reports whether child is parent or lies below it.
//
// Only the last build is consulted: an ID the build did not register has
// no hierarchy and yields false, as does None on either side.
func (r *Registry) IsDescendantOf(child, parent ID) bool {
	if child == None || parent == None {
		return false
	}

	anc, ok := r.current().ancestors[child]
	if !ok {
		return false
	}
	if child == parent {
		return true
	}
	for _, a := range anc {
		if a == parent {
			return true
		}
	}
	return false
}

// Matches reports whether id equals other or is one of its descendants.
// It is false when other is None.
func (r *Registry) Matches(id, other ID) bool {
	if other == None {
		return false
	}
	if id == other {
		return true
	}
	return r.IsDescendantOf(id, other)
}

// Display renders id for humans: its canonical path, "None" for the
// sentinel, or "#<hash>" for IDs the registry does not know. Unknown IDs
// are normal for runtime-only tags and are not an error.
func (r *Registry) Display(id ID) string {
	if id == None {
		return "None"
	}
	if name, ok := r.ResolveName(id); ok {
		return name
	}
	return fmt.Sprintf("#%d", uint32(id))
}

// Parent returns the direct parent of id, or None for root and unknown tags.
func (r *Registry) Parent(id ID) ID {
	anc := r.current().ancestors[id]
	if len(anc) == 0 {
		return None
	}
	return anc[0]
}

// Ancestors returns the strict ancestors of id, nearest first.
func (r *Registry) Ancestors(id ID) []ID {
	anc := r.current().ancestors[id]
	out := make([]ID, len(anc))
	copy(out, anc)
	return out
}

// Children returns the direct children of id ordered by name.
func (r *Registry) Children(id ID) []ID {
	kids := r.current().children[id]
	out := make([]ID, len(kids))
	copy(out, kids)
	return out
}

// Roots returns the single-segment tags ordered by name.
func (r *Registry) Roots() []ID {
	s := r.current()
	var roots []ID
	for id, anc := range s.ancestors {
		if len(anc) == 0 {
			roots = append(roots, id)
		}
	}
	sort.Slice(roots, func(i, j int) bool {
		return s.names[roots[i]] < s.names[roots[j]]
	})
	return roots
}

// Depth returns the number of ancestors of id: 0 for roots, -1 if unknown.
func (r *Registry) Depth(id ID) int {
	anc, ok := r.current().ancestors[id]
	if !ok {
		return -1
	}
	return len(anc)
}

// IsExplicit reports whether id was listed by the source, as opposed to
// being discovered as a parent prefix.
func (r *Registry) IsExplicit(id ID) bool {
	_, ok := r.current().explicit[id]
	return ok
}

// Names returns every registered path, explicit and implicit, sorted.
func (r *Registry) Names() []string {
	s := r.current()
	names := make([]string, 0, len(s.ids))
	for name := range s.ids {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered tags, explicit and implicit.
func (r *Registry) Len() int {
	return len(r.current().ids)
}

var (
	defaultRegistry *Registry
	defaultMu       sync.RWMutex
)

// Default returns the process-wide registry used by ID and Set methods
// that take no explicit registry. It is created on first use without a
// source; install a configured one with SetDefault at startup.
func Default() *Registry {
	defaultMu.RLock()
	r := defaultRegistry
	defaultMu.RUnlock()
	if r != nil {
		return r
	}

	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultRegistry == nil {
		defaultRegistry = NewRegistry()
	}
	return defaultRegistry
}

// SetDefault installs r as the process-wide registry and returns the
// previous one. Passing nil resets to a fresh, sourceless registry on next use.
func SetDefault(r *Registry) *Registry {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	prev := defaultRegistry
	defaultRegistry = r
	return prev
}
