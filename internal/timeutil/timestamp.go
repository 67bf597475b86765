package timeutil

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ansel1/merry/v2"

	"mkvmux/models"
)

// clockPattern matches H(H):M(M)(:S(S))(.nnnnnnnnn); at least M:S is required.
var clockPattern = regexp.MustCompile(`^[0-9]{1,2}(:[0-9]{1,2}){1,2}(\.[0-9]{1,9})?$`)

type kind int

const (
	kindAbsent kind = iota
	kindSeconds
	kindClock
)

// Timestamp is a point in time as mkvmerge accepts it: either a whole number of
// seconds or a clock literal such as "01:30:00.5". The zero value is absent.
type Timestamp struct {
	kind    kind
	seconds int
	clock   string
}

// Seconds returns a Timestamp of n whole seconds.
func Seconds(n int) Timestamp {
	return Timestamp{kind: kindSeconds, seconds: n}
}

// Clock returns a Timestamp holding a clock literal. The literal is not
// checked until Validate is called.
func Clock(s string) Timestamp {
	return Timestamp{kind: kindClock, clock: s}
}

// IsAbsent reports whether the timestamp is the zero value.
func (t Timestamp) IsAbsent() bool {
	return t.kind == kindAbsent
}

// IsSeconds reports whether the timestamp holds a number of seconds.
func (t Timestamp) IsSeconds() bool {
	return t.kind == kindSeconds
}

// HasPlus reports whether the timestamp carries a leading continuation marker.
func (t Timestamp) HasPlus() bool {
	return t.kind == kindClock && strings.HasPrefix(t.clock, "+")
}

// Validate checks the timestamp. Seconds must not be negative. Clock literals
// must match the mkvmerge clock format; a single leading '+' is accepted only
// when allowPlus is set.
func (t Timestamp) Validate(allowPlus bool) error {
	switch t.kind {
	case kindSeconds:
		if t.seconds < 0 {
			return merry.Wrap(models.ErrInvalidFormat, merry.WithMessagef("timestamp %ds is negative", t.seconds))
		}
		return nil
	case kindClock:
		literal := t.clock
		if allowPlus {
			literal = strings.TrimPrefix(literal, "+")
		}
		if !clockPattern.MatchString(literal) {
			return merry.Wrap(models.ErrInvalidFormat, merry.WithMessagef("%q is not a properly formatted timestamp", t.clock))
		}
		return nil
	default:
		return merry.Wrap(models.ErrInvalidFormat, merry.WithMessage("timestamp is absent"))
	}
}

// String renders the timestamp the way mkvmerge expects it: seconds with an
// "s" suffix, clock literals verbatim, absent as the empty string.
func (t Timestamp) String() string {
	switch t.kind {
	case kindSeconds:
		return strconv.Itoa(t.seconds) + "s"
	case kindClock:
		return t.clock
	default:
		return ""
	}
}

// Parse turns user input into a Timestamp. Plain integers, optionally suffixed
// with "s", become Seconds; anything else becomes a Clock literal. The result
// still has to be validated.
func Parse(s string) Timestamp {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(strings.TrimSuffix(s, "s")); err == nil && !strings.HasPrefix(s, "+") {
		return Seconds(n)
	}
	return Clock(s)
}
