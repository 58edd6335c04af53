package internal

import "strings"

// FoldName reduces a field or key segment to its canonical comparable form:
// lowercase with hyphens and underscores removed. Under this fold
// "DriverClassName", "driver-class-name", "driver_class_name" and
// "driverclassname" are all the same segment.
func FoldName(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '-' || c == '_':
			// dropped
		case c >= 'A' && c <= 'Z':
			b.WriteByte(c + ('a' - 'A'))
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// FoldKey folds every dot-separated segment of a key, preserving the
// segment structure.
func FoldKey(key string) string {
	if key == "" {
		return ""
	}
	segs := strings.Split(key, ".")
	for i, s := range segs {
		segs[i] = FoldName(s)
	}
	return strings.Join(segs, ".")
}

// JoinPath appends a segment to a dot-separated path.
func JoinPath(path, seg string) string {
	if path == "" {
		return seg
	}
	return path + "." + seg
}
