package model

import (
	"fmt"
	"strings"
)

// RiskLevel is the category the classifier assigns to a payload.
// The values are opaque categories, not scores; no ordering is defined
// between them.
type RiskLevel string

const (
	// RiskSafe indicates the payload appears legitimate.
	RiskSafe RiskLevel = "SAFE"

	// RiskWarning indicates the payload has suspicious traits.
	RiskWarning RiskLevel = "WARNING"

	// RiskDanger indicates the payload is likely phishing, malware or a scam.
	RiskDanger RiskLevel = "DANGER"

	// RiskUnknown indicates no assessment could be made. It is also the
	// level of the fallback result produced when classification fails.
	RiskUnknown RiskLevel = "UNKNOWN"
)

// RiskLevels returns all valid risk levels in schema order.
func RiskLevels() []RiskLevel {
	return []RiskLevel{RiskSafe, RiskWarning, RiskDanger, RiskUnknown}
}

// RiskLevelStrings returns the valid risk levels as plain strings.
// It is used to build the enum constraint of the response schema.
func RiskLevelStrings() []string {
	levels := RiskLevels()
	out := make([]string, len(levels))
	for i, l := range levels {
		out[i] = string(l)
	}
	return out
}

// IsValid reports whether r is one of the four defined levels.
func (r RiskLevel) IsValid() bool {
	switch r {
	case RiskSafe, RiskWarning, RiskDanger, RiskUnknown:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (r RiskLevel) String() string {
	return string(r)
}

// ParseRiskLevel converts s into a RiskLevel.
// Surrounding whitespace and letter case are ignored.
func ParseRiskLevel(s string) (RiskLevel, error) {
	level := RiskLevel(strings.ToUpper(strings.TrimSpace(s)))
	if !level.IsValid() {
		return "", fmt.Errorf("invalid risk level %q", s)
	}
	return level, nil
}
