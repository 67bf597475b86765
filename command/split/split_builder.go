// Package split builds mkvmerge "--split" directives.
//
// Four mutually exclusive modes exist: by size, by duration, by timestamps and
// by parts. Each constructor validates its input completely and returns a
// Directive; callers keep at most one Directive per output.
package split

import (
	"strconv"
	"strings"

	"github.com/ansel1/merry/v2"
	"github.com/dustin/go-humanize"
	"github.com/orsinium-labs/enum"
	"github.com/samber/lo"

	"mkvmux/internal/timeutil"
	"mkvmux/models"
)

// Mode identifies how a Directive splits the output.
type Mode enum.Member[string]

var (
	ModeSize       = Mode{Value: "size"}
	ModeDuration   = Mode{Value: "duration"}
	ModeTimestamps = Mode{Value: "timestamps"}
	ModeParts      = Mode{Value: "parts"}
	Modes          = enum.New(ModeSize, ModeDuration, ModeTimestamps, ModeParts)
)

// Directive is a validated split instruction.
type Directive interface {
	// Mode returns the split mode.
	Mode() Mode
	// Spec returns the value passed to --split, e.g. "size:700000000".
	Spec() string
	// Args returns the mkvmerge arguments: "--split" followed by Spec.
	Args() []string
}

type directive struct {
	mode Mode
	spec string
}

func (d directive) Mode() Mode     { return d.mode }
func (d directive) Spec() string   { return d.spec }
func (d directive) Args() []string { return []string{"--split", d.spec} }

func newDirective(mode Mode, values string) Directive {
	return directive{mode: mode, spec: mode.Value + ":" + values}
}

// SizeValue is a split size: a plain byte count or a size with a unit.
type SizeValue interface {
	bytes() (uint64, error)
}

// Bytes is a size given as a number of bytes.
type Bytes int64

// HumanSize is a size with a unit such as "700MB" or "4GiB".
type HumanSize string

func (b Bytes) bytes() (uint64, error) {
	if b <= 0 {
		return 0, merry.Wrap(models.ErrInvalidFormat, merry.WithMessagef("split size must be positive, got %d", int64(b)))
	}
	return uint64(b), nil
}

func (h HumanSize) bytes() (uint64, error) {
	n, err := humanize.ParseBytes(strings.TrimSpace(string(h)))
	if err != nil {
		return 0, merry.Wrap(models.ErrInvalidFormat, merry.WithMessagef("%q is not a size", string(h)))
	}
	if n == 0 {
		return 0, merry.Wrap(models.ErrInvalidFormat, merry.WithMessagef("split size must be positive, got %q", string(h)))
	}
	return n, nil
}

// BySize splits the output into files of at most size bytes.
//
// Example:
//
//	d, _ := split.BySize(split.Bytes(700_000_000))
//	d.Spec() // "size:700000000"
func BySize(size SizeValue) (Directive, error) {
	if size == nil {
		return nil, merry.Wrap(models.ErrInvalidFormat, merry.WithMessage("size is not a byte count or a size with unit"))
	}
	n, err := size.bytes()
	if err != nil {
		return nil, err
	}
	return newDirective(ModeSize, strconv.FormatUint(n, 10)), nil
}

// ByDuration splits the output into files of the given duration, given either
// as whole seconds or as a clock literal of at least M:S.
//
// Example:
//
//	d, _ := split.ByDuration(timeutil.Clock("01:30:00"))
//	d.Spec() // "duration:01:30:00"
func ByDuration(duration timeutil.Timestamp) (Directive, error) {
	if err := duration.Validate(false); err != nil {
		return nil, merry.Prepend(err, "invalid split duration")
	}
	return newDirective(ModeDuration, duration.String()), nil
}

// ByTimestamps splits the output at each timestamp. Items may be single
// timestamps or arbitrarily nested lists; they are flattened in order.
//
// Example:
//
//	d, _ := split.ByTimestamps(timeutil.Clock("00:10:00"), timeutil.List{timeutil.Seconds(1800)})
//	d.Spec() // "timestamps:00:10:00,1800s"
func ByTimestamps(items ...timeutil.Item) (Directive, error) {
	timestamps := timeutil.Flatten(items...)
	if len(timestamps) == 0 {
		return nil, merry.Wrap(models.ErrInvalidFormat, merry.WithMessage("no timestamps given"))
	}
	for _, ts := range timestamps {
		if err := ts.Validate(false); err != nil {
			return nil, err
		}
	}
	values := lo.Map(timestamps, func(ts timeutil.Timestamp, _ int) string {
		return ts.String()
	})
	return newDirective(ModeTimestamps, strings.Join(values, ",")), nil
}

// Part is one range of the output to keep. An absent Start begins at the
// start of the source, an absent End runs to its end. Start may carry a
// leading '+' to append the part to the previous one; End may not.
type Part struct {
	Start timeutil.Timestamp
	End   timeutil.Timestamp
}

// String renders the part as "<start>-<end>".
func (p Part) String() string {
	return p.Start.String() + "-" + p.End.String()
}

// Validate checks both ends of the part and rejects parts whose start and end
// are identical, including a part with neither.
func (p Part) Validate() error {
	if !p.Start.IsAbsent() {
		if err := p.Start.Validate(true); err != nil {
			return merry.Prepend(err, "invalid part "+p.String())
		}
	}
	if !p.End.IsAbsent() {
		if err := p.End.Validate(false); err != nil {
			return merry.Prepend(err, "invalid part "+p.String())
		}
	}
	if p.Start == p.End {
		return merry.Wrap(models.ErrInvalidFormat, merry.WithMessagef("%q is not a properly formatted pair", p.String()))
	}
	return nil
}

// ByParts keeps only the given ranges of the source.
//
// Example:
//
//	d, _ := split.ByParts([]split.Part{
//	    {End: timeutil.Clock("00:05:00")},
//	    {Start: timeutil.Clock("+00:10:00"), End: timeutil.Seconds(900)},
//	})
//	d.Spec() // "parts:-00:05:00,+00:10:00-900s"
func ByParts(parts []Part) (Directive, error) {
	if len(parts) == 0 {
		return nil, merry.Wrap(models.ErrInvalidFormat, merry.WithMessage("no parts given"))
	}
	for _, p := range parts {
		if err := p.Validate(); err != nil {
			return nil, err
		}
	}
	values := lo.Map(parts, func(p Part, _ int) string {
		return p.String()
	})
	return newDirective(ModeParts, strings.Join(values, ",")), nil
}
