package gameplaytags

import (
	"io"
	"log/slog"
	"testing"
)

// discardLogger keeps build chatter out of test output.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newBuiltRegistry returns a registry already built from paths.
func newBuiltRegistry(t *testing.T, paths ...string) *Registry {
	t.Helper()
	r := NewRegistry(WithLogger(discardLogger()))
	r.Build(paths)
	return r
}

// useDefault installs r as the default registry for the duration of the test.
func useDefault(t *testing.T, r *Registry) {
	t.Helper()
	prev := SetDefault(r)
	t.Cleanup(func() { SetDefault(prev) })
}
