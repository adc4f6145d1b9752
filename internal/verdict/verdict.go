package verdict

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/qrguard/internal/model"
)

// Category is how a result is presented.
type Category int

const (
	// CategoryUnknown covers UNKNOWN and any unrecognized level.
	CategoryUnknown Category = iota

	// CategorySafe is a result with no detected risk.
	CategorySafe

	// CategoryWarning is a suspicious result.
	CategoryWarning

	// CategoryDanger is a confirmed threat.
	CategoryDanger
)

// ForLevel returns the category for level.
func ForLevel(level model.RiskLevel) Category {
	switch level {
	case model.RiskSafe:
		return CategorySafe
	case model.RiskWarning:
		return CategoryWarning
	case model.RiskDanger:
		return CategoryDanger
	default:
		return CategoryUnknown
	}
}

// ForResult returns the category for result.
func ForResult(result model.ScanResult) Category {
	return ForLevel(result.RiskLevel)
}

// String returns the lowercase category name.
func (c Category) String() string {
	switch c {
	case CategorySafe:
		return "safe"
	case CategoryWarning:
		return "warning"
	case CategoryDanger:
		return "danger"
	default:
		return "unknown"
	}
}

// Label returns the title-cased category name, e.g. "Danger".
func (c Category) Label() string {
	return cases.Title(language.English).String(c.String())
}

// Presentation is how a category is shown in a terminal.
type Presentation struct {
	Category Category

	// Label is the title-cased category name.
	Label string

	// Indicator is a short ASCII marker.
	Indicator string

	// Headline is the default headline when the result has no summary.
	Headline string

	// color is the ANSI SGR color code.
	color string
}

// presentations is indexed by Category.
var presentations = map[Category]Presentation{
	CategorySafe: {
		Indicator: "[OK]",
		Headline:  "No threats detected",
		color:     "32",
	},
	CategoryWarning: {
		Indicator: "[!]",
		Headline:  "Proceed with caution",
		color:     "33",
	},
	CategoryDanger: {
		Indicator: "[!!]",
		Headline:  "Threat detected",
		color:     "31",
	},
	CategoryUnknown: {
		Indicator: "[?]",
		Headline:  "Risk could not be determined",
		color:     "90",
	},
}

// Present returns the presentation of c.
func Present(c Category) Presentation {
	p, ok := presentations[c]
	if !ok {
		p = presentations[CategoryUnknown]
		c = CategoryUnknown
	}
	p.Category = c
	p.Label = c.Label()
	return p
}

// PresentResult returns the presentation of result. The headline is the
// result's own summary when it has one.
func PresentResult(result model.ScanResult) Presentation {
	p := Present(ForResult(result))
	if h := strings.TrimSpace(result.Headline()); h != "" {
		p.Headline = h
	}
	return p
}

// Badge returns the indicator and label, e.g. "[!!] Danger". With color
// set the badge is wrapped in ANSI escape codes.
func (p Presentation) Badge(color bool) string {
	badge := p.Indicator + " " + p.Label
	if !color || p.color == "" {
		return badge
	}
	return "\x1b[" + p.color + "m" + badge + "\x1b[0m"
}
