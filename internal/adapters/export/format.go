package export

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Format is an export file format.
type Format string

// Supported formats.
const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatPDF  Format = "pdf"
)

// Formats lists every supported format in a stable order.
var Formats = []Format{FormatCSV, FormatJSON, FormatYAML, FormatPDF} //nolint:gochecknoglobals // read-only list

// ParseFormats parses a comma separated list such as "csv,pdf".
// Duplicates are dropped; "yml" is accepted for YAML.
func ParseFormats(s string) ([]Format, error) {
	var out []Format
	for _, part := range strings.Split(s, ",") {
		f := Format(strings.ToLower(strings.TrimSpace(part)))
		if f == "" {
			continue
		}
		if f == "yml" {
			f = FormatYAML
		}
		if !lo.Contains(Formats, f) {
			return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, part)
		}
		out = append(out, f)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: empty list", ErrUnsupportedFormat)
	}
	return lo.Uniq(out), nil
}

var printer = message.NewPrinter(language.English) //nolint:gochecknoglobals // printers are safe for concurrent use

// Quantity formats a total with thousands separators, e.g. 12,345.
func Quantity(n int64) string {
	return printer.Sprintf("%d", n)
}

// Medal returns the medal name for podium ranks and "" otherwise.
func Medal(rank int) string {
	switch rank {
	case 1:
		return "Gold"
	case 2:
		return "Silver"
	case 3:
		return "Bronze"
	default:
		return ""
	}
}
