// Package normalize derives deduplication keys from display names.
//
// Two display names that normalize to the same key are treated as the same
// entity. The collapse to lower-cased ASCII alphanumerics is deliberately
// lossy: coincidentally similar names can collide (false merges), and
// distinct transliterations of one group never collide (missed merges).
// That trade-off is a documented limitation of the pipeline, not something
// callers should compensate for.
package normalize

import "strings"

// Key canonicalizes a display name into a comparison key. The input is
// lower-cased and every byte that is not an ASCII letter or digit is
// dropped. Pure function: empty in, empty out.
func Key(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			b.WriteByte(c)
		case c >= 'A' && c <= 'Z':
			b.WriteByte(c + ('a' - 'A'))
		}
	}
	return b.String()
}
