package stats

import (
	"errors"
	"sort"
	"time"

	"github.com/nereuvjr-br/kills-scum/internal/domain"
)

// ErrOverlappingSides is returned when the two comparison sides share actor
// names (including comparing an entity against itself). The result of such
// a comparison would be degenerate, so it is rejected up front.
var ErrOverlappingSides = errors.New("comparison sides overlap")

const recentBattleLimit = 10

// Compare computes the head-to-head comparison between two actor-name
// sides over the full event snapshot. The caller resolves identities
// (clan members or single players); kills must already be NPC-filtered.
func Compare(kills []domain.Kill, side1Names, side2Names []string, start, end *time.Time) (*domain.ComparisonResult, error) {
	side1 := NewStringSet(side1Names)
	side2 := NewStringSet(side2Names)
	if side1.Intersects(side2) {
		return nil, ErrOverlappingSides
	}

	filtered := FilterWindow(kills, start, end)

	res := &domain.ComparisonResult{}
	res.Clan1.SideStats = SideStats(filtered, side1)
	res.Clan2.SideStats = SideStats(filtered, side2)
	res.Clan1.MemberCount = len(side1Names)
	res.Clan2.MemberCount = len(side2Names)

	// Directional subsets.
	var oneVsTwo, twoVsOne []domain.Kill
	for _, k := range filtered {
		switch {
		case side1.Contains(k.Killer) && side2.Contains(k.Victim):
			oneVsTwo = append(oneVsTwo, k)
		case side2.Contains(k.Killer) && side1.Contains(k.Victim):
			twoVsOne = append(twoVsOne, k)
		}
	}

	h2h := &res.HeadToHead
	h2h.Clan1Wins = len(oneVsTwo)
	h2h.Clan2Wins = len(twoVsOne)
	h2h.Clan1Stats = directionStats(oneVsTwo)
	h2h.Clan2Stats = directionStats(twoVsOne)

	h2h.DailyActivity = mergeDaily(res.Clan1.DailyKills, res.Clan2.DailyKills)
	h2h.Daily = mergeDaily(dailyKills(oneVsTwo), dailyKills(twoVsOne))

	battles := sortByTimestamp(append(append([]domain.Kill{}, oneVsTwo...), twoVsOne...), false)
	res.Clan1.MaxStreak, res.Clan2.MaxStreak = MaxStreaks(battles, side1)

	recent := sortByTimestamp(battles, true)
	if len(recent) > recentBattleLimit {
		recent = recent[:recentBattleLimit]
	}
	h2h.RecentBattles = make([]domain.Battle, len(recent))
	for i, k := range recent {
		h2h.RecentBattles[i] = domain.Battle{
			Killer:    k.Killer,
			Victim:    k.Victim,
			Weapon:    k.Weapon,
			Distance:  ParseDistance(k.Distance),
			Timestamp: k.Timestamp,
		}
	}

	return res, nil
}

// directionStats is the reduced block computed over one direction of the
// head-to-head subset.
func directionStats(kills []domain.Kill) domain.DirectionStats {
	return domain.DirectionStats{
		TopWeapons:  toWeaponCounts(TopN(kills, 5, weaponOf)),
		TopKillers:  toNameCounts(TopN(kills, 5, killerOf)),
		AvgDistance: avgDistance(kills),
	}
}

// mergeDaily joins two per-side daily series over the union of their
// dates, ascending, zero-filling the side with no kills that day.
func mergeDaily(side1, side2 []domain.DayCount) []domain.DailyPoint {
	byDate1 := make(map[string]int, len(side1))
	byDate2 := make(map[string]int, len(side2))
	dates := make(map[string]struct{})
	for _, d := range side1 {
		byDate1[d.Date] = d.Kills
		dates[d.Date] = struct{}{}
	}
	for _, d := range side2 {
		byDate2[d.Date] = d.Kills
		dates[d.Date] = struct{}{}
	}

	sorted := make([]string, 0, len(dates))
	for d := range dates {
		sorted = append(sorted, d)
	}
	sort.Strings(sorted)

	out := make([]domain.DailyPoint, len(sorted))
	for i, d := range sorted {
		out[i] = domain.DailyPoint{
			Date:       d,
			Clan1Kills: byDate1[d],
			Clan2Kills: byDate2[d],
		}
	}
	return out
}
