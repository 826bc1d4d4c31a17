package gameplaytags

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// setIDsField is the field number of the IDs in the binary encoding, which
// is wire-compatible with:
//
//	message TagSet {
//	  repeated fixed32 ids = 1;
//	}
const setIDsField protowire.Number = 1

// MarshalBinary encodes the set in protobuf wire format as a packed
// repeated fixed32 field. Names are not encoded; decoding needs the same
// tag universe to be meaningful.
func (s *Set) MarshalBinary() ([]byte, error) {
	if s.IsEmpty() {
		return []byte{}, nil
	}
	payload := len(s.ids) * protowire.SizeFixed32()
	b := make([]byte, 0, protowire.SizeTag(setIDsField)+protowire.SizeVarint(uint64(payload))+payload)
	b = protowire.AppendTag(b, setIDsField, protowire.BytesType)
	b = protowire.AppendVarint(b, uint64(payload))
	for _, id := range s.ids {
		b = protowire.AppendFixed32(b, uint32(id))
	}
	return b, nil
}

// UnmarshalBinary replaces the set contents with the decoded IDs. Both the
// packed and unpacked encodings of the ids field are accepted; unknown
// fields are skipped.
func (s *Set) UnmarshalBinary(data []byte) error {
	s.ids = s.ids[:0]

	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return s.decodeError(protowire.ParseError(n))
		}
		data = data[n:]

		switch {
		case num == setIDsField && typ == protowire.BytesType:
			packed, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return s.decodeError(protowire.ParseError(n))
			}
			data = data[n:]
			if len(packed)%protowire.SizeFixed32() != 0 {
				return s.decodeError(fmt.Errorf("packed ids length %d is not a multiple of 4", len(packed)))
			}
			for len(packed) > 0 {
				v, n := protowire.ConsumeFixed32(packed)
				if n < 0 {
					return s.decodeError(protowire.ParseError(n))
				}
				packed = packed[n:]
				s.Add(ID(v))
			}

		case num == setIDsField && typ == protowire.Fixed32Type:
			v, n := protowire.ConsumeFixed32(data)
			if n < 0 {
				return s.decodeError(protowire.ParseError(n))
			}
			data = data[n:]
			s.Add(ID(v))

		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return s.decodeError(protowire.ParseError(n))
			}
			data = data[n:]
		}
	}

	return nil
}

func (s *Set) decodeError(cause error) error {
	s.ids = s.ids[:0]
	return NewDecodeError("Set.UnmarshalBinary", fmt.Errorf("%w: %w", ErrMalformedSet, cause))
}
