// Package simulation holds the system check presets: fixed URLs with a
// known risk level, sent through the normal text classification to verify
// the service end to end.
package simulation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nao1215/qrguard/internal/model"
)

// ErrUnknownScenario is returned by Lookup for names that are not presets.
var ErrUnknownScenario = errors.New("unknown simulation scenario")

// Scenario names a preset.
type Scenario string

const (
	// Safe is a well-known legitimate site.
	Safe Scenario = "safe"

	// Phishing is a credential-harvesting lookalike domain.
	Phishing Scenario = "phishing"

	// Malware is a direct download of an Android package.
	Malware Scenario = "malware"
)

// Preset is one simulated QR payload.
type Preset struct {
	Scenario Scenario
	Label    string
	Payload  string

	// Expected is the level a working classifier should return.
	Expected model.RiskLevel
}

var presets = []Preset{
	{
		Scenario: Safe,
		Label:    "Safe Link",
		Payload:  "https://www.wikipedia.org",
		Expected: model.RiskSafe,
	},
	{
		Scenario: Phishing,
		Label:    "Phishing Attack",
		Payload:  "http://secure-login-paypal-verify.com.xyz/update",
		Expected: model.RiskDanger,
	},
	{
		Scenario: Malware,
		Label:    "Malware Download",
		Payload:  "http://freigames-download.net/installer.apk",
		Expected: model.RiskDanger,
	},
}

// Presets returns all presets in a fixed order.
func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

// Names returns the scenario names.
func Names() []string {
	names := make([]string, len(presets))
	for i, p := range presets {
		names[i] = string(p.Scenario)
	}
	return names
}

// Lookup returns the preset named name (case-insensitive).
func Lookup(name string) (Preset, error) {
	want := Scenario(strings.ToLower(strings.TrimSpace(name)))
	for _, p := range presets {
		if p.Scenario == want {
			return p, nil
		}
	}
	return Preset{}, fmt.Errorf("%w: %q (choose one of %s)", ErrUnknownScenario, name, strings.Join(Names(), ", "))
}

// Select resolves names to presets. No names selects all presets.
func Select(names ...string) ([]Preset, error) {
	if len(names) == 0 {
		return Presets(), nil
	}

	selected := make([]Preset, 0, len(names))
	for _, name := range names {
		p, err := Lookup(name)
		if err != nil {
			return nil, err
		}
		selected = append(selected, p)
	}
	return selected, nil
}

// Matches reports whether result has the preset's expected level.
func (p Preset) Matches(result model.ScanResult) bool {
	return result.RiskLevel == p.Expected
}
