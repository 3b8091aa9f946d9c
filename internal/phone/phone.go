// Package phone canonicalizes free-form phone strings.
//
// A normalized phone is the digit-only form of the input and is the only
// identity rule for phone-keyed records (bonus accounts, reviews). Country code
// variants are not folded: "81234567890" and "71234567890" stay different.
package phone

import "strings"

// Normalize discards every character that is not an ASCII digit.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Equal reports whether a and b refer to the same customer.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

// TrunkAlternate returns the international form of a national number dialled
// with the domestic trunk prefix: an 11-digit sequence starting with 8 maps to
// the same digits starting with 7. ok is false for every other input.
//
// Normalize never applies this rule. Callers opt in explicitly and only after
// an exact normalized match failed.
func TrunkAlternate(normalized string) (alt string, ok bool) {
	if len(normalized) != 11 || normalized[0] != '8' {
		return "", false
	}
	return "7" + normalized[1:], true
}

// Mask hides all digits of s except the first and the last two, keeping the
// original formatting. Inputs with fewer than four digits are fully masked.
func Mask(s string) string {
	total := len(Normalize(s))
	b := []byte(s)
	seen := 0
	for i, c := range b {
		if c < '0' || c > '9' {
			continue
		}
		keep := total >= 4 && (seen == 0 || seen >= total-2)
		if !keep {
			b[i] = '*'
		}
		seen++
	}
	return string(b)
}
