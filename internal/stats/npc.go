package stats

import (
	"strings"

	"github.com/nereuvjr-br/kills-scum/internal/domain"
)

// Matcher recognizes non-player actor names. The rules come from config
// because the upstream feed identifies NPCs only by naming convention.
type Matcher struct {
	prefixes   []string
	substrings []string
}

// NewMatcher builds a Matcher from prefix and substring rules.
func NewMatcher(prefixes, substrings []string) *Matcher {
	return &Matcher{prefixes: prefixes, substrings: substrings}
}

// DefaultMatcher returns a Matcher with the SCUM feed's NPC naming rules.
func DefaultMatcher() *Matcher {
	return NewMatcher(
		[]string{"NPC "},
		[]string{"NPC Guard Level", "NPC Drifter Level"},
	)
}

// IsNPC reports whether an actor name matches any NPC rule.
func (m *Matcher) IsNPC(name string) bool {
	for _, p := range m.prefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	for _, s := range m.substrings {
		if strings.Contains(name, s) {
			return true
		}
	}
	return false
}

// FilterKills drops every event whose killer or victim is an NPC. The
// returned slice preserves input order.
func (m *Matcher) FilterKills(kills []domain.Kill) []domain.Kill {
	out := make([]domain.Kill, 0, len(kills))
	for _, k := range kills {
		if m.IsNPC(k.Killer) || m.IsNPC(k.Victim) {
			continue
		}
		out = append(out, k)
	}
	return out
}

// isUnknown reports whether an actor name is the placeholder the feed uses
// when the killer could not be attributed. Unknown actors stay in raw
// counts but are excluded from leaderboard rankings.
func isUnknown(name string) bool {
	return strings.EqualFold(name, "unknown")
}
