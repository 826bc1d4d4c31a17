package gameplaytags

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
)

func TestSetMarshalBinary(t *testing.T) {
	s := NewSet(FromRawID(1), FromRawID(0x01020304))

	data, err := s.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, []byte{
		0x0a, 0x08, // field 1, length-delimited, 8 bytes
		0x01, 0x00, 0x00, 0x00,
		0x04, 0x03, 0x02, 0x01,
	}, data)

	empty, err := NewSet().MarshalBinary()
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestSetBinaryRoundTrip(t *testing.T) {
	s := NewSet(FromPath("Combat.Damage.Fire"), FromPath("Status.Debuff.Slow"), FromPath("A"))

	data, err := s.MarshalBinary()
	require.NoError(t, err)

	decoded := NewSet(FromPath("Stale"))
	require.NoError(t, decoded.UnmarshalBinary(data))
	assert.Equal(t, s.IDs(), decoded.IDs())

	require.NoError(t, decoded.UnmarshalBinary(nil))
	assert.True(t, decoded.IsEmpty())
}

func TestSetUnmarshalBinaryUnpacked(t *testing.T) {
	var b []byte
	b = protowire.AppendTag(b, setIDsField, protowire.Fixed32Type)
	b = protowire.AppendFixed32(b, 7)
	// unknown varint and string fields are skipped
	b = protowire.AppendTag(b, 2, protowire.VarintType)
	b = protowire.AppendVarint(b, 300)
	b = protowire.AppendTag(b, 3, protowire.BytesType)
	b = protowire.AppendString(b, "ignored")
	b = protowire.AppendTag(b, setIDsField, protowire.Fixed32Type)
	b = protowire.AppendFixed32(b, 9)
	// duplicates and None collapse the same way Add does
	b = protowire.AppendTag(b, setIDsField, protowire.Fixed32Type)
	b = protowire.AppendFixed32(b, 7)
	b = protowire.AppendTag(b, setIDsField, protowire.Fixed32Type)
	b = protowire.AppendFixed32(b, 0)

	s := NewSet()
	require.NoError(t, s.UnmarshalBinary(b))
	assert.Equal(t, []ID{7, 9}, s.IDs())
}

func TestSetUnmarshalBinaryErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "truncated tag", data: []byte{0x80}},
		{name: "truncated packed payload", data: []byte{0x0a, 0x08, 0x01, 0x00}},
		{name: "packed length not a multiple of 4", data: []byte{0x0a, 0x03, 0x01, 0x02, 0x03}},
		{name: "truncated fixed32", data: []byte{0x0d, 0x01, 0x02}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSet(FromRawID(5))
			err := s.UnmarshalBinary(tt.data)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedSet)
			assert.ErrorIs(t, err, &Error{Kind: KindDecode, Op: "Set.UnmarshalBinary"})
			assert.True(t, s.IsEmpty())
		})
	}
}
