package gameplaytags

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "already canonical", raw: "Combat.Damage.Fire", want: "Combat.Damage.Fire"},
		{name: "single segment", raw: "Combat", want: "Combat"},
		{name: "outer whitespace", raw: "  Combat.Damage ", want: "Combat.Damage"},
		{name: "segment whitespace", raw: "Combat . Damage .\tFire", want: "Combat.Damage.Fire"},
		{name: "case preserved", raw: "combat.DAMAGE", want: "combat.DAMAGE"},
		{name: "inner spaces kept", raw: "Status.Slow Down", want: "Status.Slow Down"},
		{name: "empty", raw: "", wantErr: true},
		{name: "blank", raw: "   ", wantErr: true},
		{name: "double dot", raw: "A..B", wantErr: true},
		{name: "leading dot", raw: ".A", wantErr: true},
		{name: "trailing dot", raw: "A.", wantErr: true},
		{name: "blank segment", raw: "A. .B", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Canonicalize(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidPath)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanonicalizeAll(t *testing.T) {
	paths, errs := CanonicalizeAll([]string{
		"Combat.Damage",
		" Combat . Damage ",
		"A..B",
		"Status",
		"Combat.Damage",
	})

	assert.Equal(t, []string{"Combat.Damage", "Status"}, paths)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrInvalidPath)
}

func TestPathHelpers(t *testing.T) {
	assert.Equal(t, []string{"A", "B", "C"}, Segments("A.B.C"))
	assert.Nil(t, Segments(""))

	assert.Equal(t, "A.B", ParentPath("A.B.C"))
	assert.Equal(t, "", ParentPath("A"))

	assert.Equal(t, "C", LeafName("A.B.C"))
	assert.Equal(t, "A", LeafName("A"))
}
