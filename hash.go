package gameplaytags

// FNV-1a constants for the 32-bit tag hash.
const (
	fnvBasis32 uint32 = 2166136261
	fnvPrime32 uint32 = 16777619
)

// Hash returns the 32-bit FNV-1a hash of a canonical tag path.
//
// The hash runs over the path's bytes in order: h = (h ^ b) * 16777619,
// starting from 2166136261, with uint32 wraparound. It never returns 0,
// which is reserved for None: a path that hashes to 0 is remapped to 1.
// Two distinct paths could therefore share the value 1; that collision is
// accepted and not detected here.
//
// The result is stable across processes, platforms and rebuilds, so it is
// safe to persist.
func Hash(path string) uint32 {
	h := fnvBasis32
	for i := 0; i < len(path); i++ {
		h ^= uint32(path[i])
		h *= fnvPrime32
	}
	if h == 0 {
		return 1
	}
	return h
}
