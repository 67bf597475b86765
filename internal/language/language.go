package language

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/ansel1/merry/v2"
	"github.com/samber/lo"
	xlanguage "golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"mkvmux/models"
)

//go:embed iso639-2.txt
var embeddedCodes string

// List is an ISO 639-2 code list.
type List struct {
	path string
}

// NewList returns a List backed by the file at path. An empty path selects the
// embedded list.
func NewList(path string) *List {
	return &List{path: strings.TrimSpace(path)}
}

// Default returns the embedded list.
func Default() *List {
	return &List{}
}

// Source describes where codes are read from.
func (l *List) Source() string {
	if l == nil || l.path == "" {
		return "embedded"
	}
	return l.path
}

// Codes returns the codes of the list in file order.
func (l *List) Codes() ([]string, error) {
	raw := embeddedCodes
	if l != nil && l.path != "" {
		data, err := os.ReadFile(l.path)
		if err != nil {
			return nil, fmt.Errorf("read language list %s: %w", l.path, err)
		}
		raw = string(data)
	}
	return parseCodes(raw), nil
}

// Contains reports whether code appears in the list. Matching is exact and
// case-insensitive.
func (l *List) Contains(code string) (bool, error) {
	codes, err := l.Codes()
	if err != nil {
		return false, err
	}
	return lo.Contains(codes, strings.ToLower(strings.TrimSpace(code))), nil
}

// Validate returns an ErrInvalidArgument error if code is not in the list.
func (l *List) Validate(code string) error {
	ok, err := l.Contains(code)
	if err != nil {
		return err
	}
	if !ok {
		return merry.Wrap(models.ErrInvalidArgument, merry.WithMessagef("%q is not an ISO639-2 language code", code))
	}
	return nil
}

func parseCodes(raw string) []string {
	var codes []string
	for _, line := range strings.Split(raw, "\n") {
		if i := strings.Index(line, "#"); i >= 0 {
			line = line[:i]
		}
		for _, field := range strings.Fields(line) {
			codes = append(codes, strings.ToLower(field))
		}
	}
	return codes
}

// DisplayName returns the English name of a language code, or the code itself
// when no name is known. Empty input yields "Unknown".
func DisplayName(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return "Unknown"
	}
	base, err := xlanguage.ParseBase(strings.ToLower(code))
	if err != nil {
		return code
	}
	if name := display.English.Languages().Name(base); name != "" {
		return name
	}
	return code
}
