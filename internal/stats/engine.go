package stats

import (
	"math"
	"sort"
	"time"

	"github.com/nereuvjr-br/kills-scum/internal/domain"
)

// StringSet is a membership set of actor names.
type StringSet map[string]struct{}

// NewStringSet builds a set from a name list.
func NewStringSet(names []string) StringSet {
	s := make(StringSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Contains reports set membership.
func (s StringSet) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

// Intersects reports whether the two sets share any name.
func (s StringSet) Intersects(other StringSet) bool {
	for n := range s {
		if other.Contains(n) {
			return true
		}
	}
	return false
}

// dayKey formats an event time as the UTC calendar date it belongs to.
func dayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// FilterWindow keeps events inside the inclusive [start, end] window. A nil
// bound is unbounded on that side.
func FilterWindow(kills []domain.Kill, start, end *time.Time) []domain.Kill {
	if start == nil && end == nil {
		return kills
	}
	out := make([]domain.Kill, 0, len(kills))
	for _, k := range kills {
		if start != nil && k.Timestamp.Before(*start) {
			continue
		}
		if end != nil && k.Timestamp.After(*end) {
			continue
		}
		out = append(out, k)
	}
	return out
}

// avgDistance returns the mean parsed distance, rounded to the nearest
// meter. Zero when there are no events.
func avgDistance(kills []domain.Kill) int {
	if len(kills) == 0 {
		return 0
	}
	var sum float64
	for _, k := range kills {
		sum += ParseDistance(k.Distance)
	}
	return int(math.Round(sum / float64(len(kills))))
}

// longestKill returns the event with the maximum parsed distance, nil when
// there are none. Ties keep the earlier event.
func longestKill(kills []domain.Kill) *domain.LongestKill {
	if len(kills) == 0 {
		return nil
	}
	best := kills[0]
	bestDist := ParseDistance(best.Distance)
	for _, k := range kills[1:] {
		if d := ParseDistance(k.Distance); d > bestDist {
			best, bestDist = k, d
		}
	}
	return &domain.LongestKill{
		Distance: bestDist,
		Killer:   best.Killer,
		Victim:   best.Victim,
		Weapon:   best.Weapon,
	}
}

// dailyKills counts kills per UTC calendar date, keeping first-seen date
// order so equal counts rank deterministically.
func dailyKills(kills []domain.Kill) []domain.DayCount {
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, k := range kills {
		key := dayKey(k.Timestamp)
		if _, seen := counts[key]; !seen {
			order = append(order, key)
		}
		counts[key]++
	}
	out := make([]domain.DayCount, 0, len(order))
	for _, d := range order {
		out = append(out, domain.DayCount{Date: d, Kills: counts[d]})
	}
	return out
}

// bestDay returns the date with the most kills, nil when there are none.
func bestDay(daily []domain.DayCount) *domain.DayCount {
	if len(daily) == 0 {
		return nil
	}
	best := daily[0]
	for _, d := range daily[1:] {
		if d.Kills > best.Kills {
			best = d
		}
	}
	return &domain.DayCount{Date: best.Date, Kills: best.Kills}
}

// SideStats computes the full statistics block for one side over an
// already filtered event set. Empty sides and empty event sets produce
// zero-valued blocks, never a panic.
func SideStats(kills []domain.Kill, side StringSet) domain.SideStats {
	var s domain.SideStats

	sideKills := make([]domain.Kill, 0, len(kills))
	for _, k := range kills {
		if side.Contains(k.Killer) {
			sideKills = append(sideKills, k)
		}
		if side.Contains(k.Victim) {
			s.TotalDeaths++
		}
	}
	s.TotalKills = len(sideKills)

	// A side with zero deaths reports its raw kill count as K/D.
	if s.TotalDeaths > 0 {
		s.KD = float64(s.TotalKills) / float64(s.TotalDeaths)
	} else {
		s.KD = float64(s.TotalKills)
	}

	s.TopWeapons = toWeaponCounts(TopN(sideKills, 5, weaponOf))
	s.TopKillers = toNameCounts(TopN(sideKills, 5, killerOf))
	s.AvgDistance = avgDistance(sideKills)
	s.LongestKill = longestKill(sideKills)

	for _, k := range sideKills {
		s.HourlyActivity[k.Timestamp.UTC().Hour()]++
	}
	for h, c := range s.HourlyActivity {
		if c > s.HourlyActivity[s.MostActiveHour] {
			s.MostActiveHour = h
		}
	}

	s.DailyKills = dailyKills(sideKills)
	s.BestDay = bestDay(s.DailyKills)

	return s
}

// MaxStreaks walks a chronologically ordered head-to-head sequence and
// returns each side's longest run of consecutive wins. A kill by one side
// resets the other side's running streak.
func MaxStreaks(battles []domain.Kill, side1 StringSet) (max1, max2 int) {
	var run1, run2 int
	for _, b := range battles {
		if side1.Contains(b.Killer) {
			run1++
			run2 = 0
			if run1 > max1 {
				max1 = run1
			}
		} else {
			run2++
			run1 = 0
			if run2 > max2 {
				max2 = run2
			}
		}
	}
	return max1, max2
}

// sortByTimestamp orders kills ascending (or descending) by timestamp,
// stable so same-second events keep input order.
func sortByTimestamp(kills []domain.Kill, desc bool) []domain.Kill {
	out := make([]domain.Kill, len(kills))
	copy(out, kills)
	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}
