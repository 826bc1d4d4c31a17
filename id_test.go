package gameplaytags

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestFromPath(t *testing.T) {
	assert.Equal(t, None, FromPath(""))
	assert.Equal(t, ID(Hash("Combat.Damage")), FromPath("Combat.Damage"))
	assert.Equal(t, FromPath("Combat.Damage"), FromPath("Combat.Damage"))
	assert.NotEqual(t, FromPath("Combat.Damage"), FromPath("Combat.Damage.Fire"))
}

func TestFromRawID(t *testing.T) {
	assert.Equal(t, None, FromRawID(0))
	assert.Equal(t, ID(42), FromRawID(42))
	// no validation: any value is accepted as-is
	assert.Equal(t, uint32(0xFFFFFFFF), FromRawID(0xFFFFFFFF).Raw())
}

func TestIDValidity(t *testing.T) {
	assert.False(t, None.IsValid())
	assert.True(t, None.IsNone())

	id := FromPath("A")
	assert.True(t, id.IsValid())
	assert.False(t, id.IsNone())
}

func TestIDMatchesOrIsDescendantOf(t *testing.T) {
	useDefault(t, newBuiltRegistry(t, "A.B.C", "X"))

	abc := FromPath("A.B.C")
	tests := []struct {
		name  string
		id    ID
		other ID
		want  bool
	}{
		{name: "equal", id: abc, other: abc, want: true},
		{name: "descendant of root", id: abc, other: FromPath("A"), want: true},
		{name: "descendant of implicit parent", id: abc, other: FromPath("A.B"), want: true},
		{name: "ancestor is not descendant", id: FromPath("A"), other: abc, want: false},
		{name: "unrelated", id: abc, other: FromPath("X"), want: false},
		{name: "other is None", id: abc, other: None, want: false},
		{name: "None against None", id: None, other: None, want: false},
		{name: "unregistered equal ids", id: FromPath("Q"), other: FromPath("Q"), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.id.MatchesOrIsDescendantOf(tt.other))
		})
	}
}

func TestIDString(t *testing.T) {
	useDefault(t, newBuiltRegistry(t, "Combat.Damage.Fire"))

	assert.Equal(t, "Combat.Damage.Fire", FromPath("Combat.Damage.Fire").String())
	assert.Equal(t, "Combat", FromPath("Combat").String())
	assert.Equal(t, "None", None.String())

	unknown := FromRawID(12345)
	assert.Equal(t, "#12345", unknown.String())
	assert.Equal(t, "#12345", fmt.Sprint(unknown))
	assert.Equal(t, "gameplaytags.ID(12345)", fmt.Sprintf("%#v", unknown))

	name, ok := FromPath("Combat.Damage").Name()
	require.True(t, ok)
	assert.Equal(t, "Combat.Damage", name)
}

// TestIDRoundTrip checks that the serialized form is the bare integer and
// survives a round trip without any registry.
func TestIDRoundTrip(t *testing.T) {
	id := FromPath("Status.Debuff.Slow")

	restored := FromRawID(id.Raw())
	assert.Equal(t, id, restored)

	data, err := json.Marshal(struct {
		Tag ID `json:"tag"`
	}{Tag: id})
	require.NoError(t, err)
	assert.JSONEq(t, `{"tag": 2842825728}`, string(data))

	var decoded struct {
		Tag ID `json:"tag"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, id, decoded.Tag)

	out, err := yaml.Marshal(map[string]ID{"tag": id})
	require.NoError(t, err)
	assert.Equal(t, "tag: 2842825728\n", string(out))

	var fromYAML map[string]ID
	require.NoError(t, yaml.Unmarshal(out, &fromYAML))
	assert.Equal(t, id, fromYAML["tag"])
}

func TestIDUnmarshalErrors(t *testing.T) {
	var id ID
	err := json.Unmarshal([]byte(`"Combat"`), &id)
	require.Error(t, err)
	assert.ErrorIs(t, err, &Error{Kind: KindDecode})

	require.NoError(t, json.Unmarshal([]byte(`null`), &id))
	assert.Equal(t, None, id)

	assert.Error(t, id.UnmarshalText([]byte("4294967296")))
}
