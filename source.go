package gameplaytags

import (
	"context"
)

// Source supplies the tag universe: an ordered list of unique, canonical
// tag paths. Implementations for files, Redis and etcd live in the source
// package.
type Source interface {
	Paths(ctx context.Context) ([]string, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context) ([]string, error)

// Paths calls f(ctx).
func (f SourceFunc) Paths(ctx context.Context) ([]string, error) {
	return f(ctx)
}

// StaticSource is a fixed, in-memory tag universe. Typically populated by
// generated code listing the tags a program declares.
type StaticSource []string

// Paths returns a copy of the static list.
func (s StaticSource) Paths(context.Context) ([]string, error) {
	out := make([]string, len(s))
	copy(out, s)
	return out, nil
}
