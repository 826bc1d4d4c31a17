package gameplaytags

import (
	"strings"
)

// Separator joins the segments of a tag path.
const Separator = "."

// Canonicalize returns the canonical form of a raw tag path: every segment
// trimmed of surrounding whitespace and joined with ".".
//
// Comparison stays ordinal and case-sensitive, so no case folding happens.
// An empty path, or one with an empty segment ("A..B", ".A", "A."), is
// rejected with ErrInvalidPath.
func Canonicalize(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", NewValidationError("Canonicalize", ErrInvalidPath).
			WithContext(map[string]any{"path": raw})
	}

	segments := strings.Split(trimmed, Separator)
	for i, seg := range segments {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			return "", NewValidationError("Canonicalize", ErrInvalidPath).
				WithContext(map[string]any{"path": raw})
		}
		segments[i] = seg
	}

	return strings.Join(segments, Separator), nil
}

// CanonicalizeAll canonicalizes raw paths in order, dropping duplicates
// after their first occurrence. Paths that fail to canonicalize are skipped
// and reported in the returned error slice; the remaining paths are still
// returned.
func CanonicalizeAll(raw []string) ([]string, []error) {
	out := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	var errs []error

	for _, r := range raw {
		p, err := Canonicalize(r)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}

	return out, errs
}

// Segments splits a canonical path into its segments.
func Segments(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, Separator)
}

// ParentPath returns the path minus its last segment, or "" for a root tag.
func ParentPath(path string) string {
	i := strings.LastIndex(path, Separator)
	if i < 0 {
		return ""
	}
	return path[:i]
}

// LeafName returns the last segment of a path.
func LeafName(path string) string {
	return path[strings.LastIndex(path, Separator)+1:]
}
