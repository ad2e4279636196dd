package rule

import (
	"regexp"
	"unicode/utf8"

	"github.com/shandysiswandi/formgate/internal/pkg/errstore"
	"github.com/shandysiswandi/formgate/internal/pkg/msgcat"
)

const (
	// DefaultMaxLen is used by MaxLen when maxLen is not positive.
	DefaultMaxLen = 255
	// DefaultMinLen is used by MinLen when minLen is not positive.
	DefaultMinLen = 6
)

var (
	emailPattern     = regexp.MustCompile(`^([A-Za-z0-9])+([A-Za-z0-9._-])*@([A-Za-z0-9_-])+([A-Za-z0-9._-]+)+$`)
	halfWidthPattern = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
	numberPattern    = regexp.MustCompile(`^\d*$`)
	telPattern       = regexp.MustCompile(`^(0\d{9,10})*$`)
)

// Required fails only on the empty string. "0" and whitespace are values.
func Required(es *errstore.Store, key, value string) {
	if value == "" {
		es.Set(key, msgcat.Required)
	}
}

// Email checks the address syntax.
func Email(es *errstore.Store, key, value string) {
	if value == "" {
		return
	}
	if !emailPattern.MatchString(value) {
		es.Set(key, msgcat.InvalidEmail)
	}
}

// MaxLen fails when value has more than maxLen code points.
func MaxLen(es *errstore.Store, key, value string, maxLen int) {
	if value == "" {
		return
	}
	if maxLen <= 0 {
		maxLen = DefaultMaxLen
	}
	if utf8.RuneCountInString(value) > maxLen {
		es.Set(key, msgcat.TooLong)
	}
}

// MinLen fails when value has fewer than minLen code points.
func MinLen(es *errstore.Store, key, value string, minLen int) {
	if value == "" {
		return
	}
	if minLen <= 0 {
		minLen = DefaultMinLen
	}
	if utf8.RuneCountInString(value) < minLen {
		es.Set(key, msgcat.TooShort)
	}
}

// HalfWidth fails unless every character is an ASCII letter or digit.
func HalfWidth(es *errstore.Store, key, value string) {
	if value == "" {
		return
	}
	if !halfWidthPattern.MatchString(value) {
		es.Set(key, msgcat.NotHalfWidth)
	}
}

// Match fails unless a and b are byte-for-byte identical. The error is recorded
// under key, normally the confirmation field.
func Match(es *errstore.Store, key, a, b string) {
	if a != b {
		es.Set(key, msgcat.Mismatch)
	}
}

// Number fails unless value consists of ASCII digits only.
func Number(es *errstore.Store, key, value string) {
	if !numberPattern.MatchString(value) {
		es.Set(key, msgcat.InvalidNumber)
	}
}

// Tel fails unless value is a domestic number: a leading zero and 10 or 11 digits
// in total.
func Tel(es *errstore.Store, key, value string) {
	if !telPattern.MatchString(value) {
		es.Set(key, msgcat.InvalidPhone)
	}
}

// Password applies HalfWidth, MinLen and MaxLen with their defaults, in that
// order. Because the last failing rule wins, "ab!!" ends as TooShort and a long
// value with symbols ends as TooLong.
func Password(es *errstore.Store, key, value string) {
	HalfWidth(es, key, value)
	MinLen(es, key, value, DefaultMinLen)
	MaxLen(es, key, value, DefaultMaxLen)
}
