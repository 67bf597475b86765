package split

import (
	"strconv"
	"strings"

	"github.com/ansel1/merry/v2"
	"github.com/samber/lo"

	"mkvmux/internal/timeutil"
	"mkvmux/models"
)

// ParseSize reads a split size from user input. Digits alone are a byte
// count; anything else must be a size with a unit.
func ParseSize(s string) SizeValue {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Bytes(n)
	}
	return HumanSize(s)
}

// ParseDuration reads a split duration: whole seconds, with or without a
// trailing "s", or a clock literal.
func ParseDuration(s string) timeutil.Timestamp {
	return timeutil.Parse(s)
}

// ParseTimestamps reads a comma-separated list of timestamps.
func ParseTimestamps(s string) []timeutil.Item {
	fields := splitList(s)
	return lo.Map(fields, func(f string, _ int) timeutil.Item {
		return timeutil.Parse(f)
	})
}

// ParsePart reads one "<start>-<end>" range. Either side may be empty.
func ParsePart(s string) (Part, error) {
	start, end, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok {
		return Part{}, merry.Wrap(models.ErrInvalidFormat, merry.WithMessagef("%q is not a properly formatted pair", s))
	}
	var p Part
	if start = strings.TrimSpace(start); start != "" {
		p.Start = timeutil.Parse(start)
	}
	if end = strings.TrimSpace(end); end != "" {
		p.End = timeutil.Parse(end)
	}
	return p, nil
}

// ParseParts reads a comma-separated list of "<start>-<end>" ranges.
func ParseParts(s string) ([]Part, error) {
	var parts []Part
	for _, field := range splitList(s) {
		p, err := ParsePart(field)
		if err != nil {
			return nil, err
		}
		parts = append(parts, p)
	}
	return parts, nil
}

func splitList(s string) []string {
	return lo.Filter(lo.Map(strings.Split(s, ","), func(f string, _ int) string {
		return strings.TrimSpace(f)
	}), func(f string, _ int) bool {
		return f != ""
	})
}
