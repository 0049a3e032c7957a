package stats

import (
	"sort"

	"github.com/nereuvjr-br/kills-scum/internal/domain"
)

// Count is one entry of a frequency ranking.
type Count struct {
	Key   string
	Count int
}

// TopN counts kills by the extracted key and returns the n highest counts
// in descending order. Ties keep first-encountered order (stable sort), so
// rankings are deterministic for a given input order.
func TopN(kills []domain.Kill, n int, key func(domain.Kill) string) []Count {
	counts := make(map[string]int, len(kills))
	order := make([]string, 0, len(kills))
	for _, k := range kills {
		kk := key(k)
		if _, seen := counts[kk]; !seen {
			order = append(order, kk)
		}
		counts[kk]++
	}

	ranked := make([]Count, 0, len(order))
	for _, kk := range order {
		ranked = append(ranked, Count{Key: kk, Count: counts[kk]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

func toWeaponCounts(counts []Count) []domain.WeaponCount {
	out := make([]domain.WeaponCount, len(counts))
	for i, c := range counts {
		out[i] = domain.WeaponCount{Weapon: c.Key, Count: c.Count}
	}
	return out
}

func toNameCounts(counts []Count) []domain.NameCount {
	out := make([]domain.NameCount, len(counts))
	for i, c := range counts {
		out[i] = domain.NameCount{Name: c.Key, Count: c.Count}
	}
	return out
}

func killerOf(k domain.Kill) string { return k.Killer }
func victimOf(k domain.Kill) string { return k.Victim }
func weaponOf(k domain.Kill) string { return k.Weapon }
