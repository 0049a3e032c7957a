package stats

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/nereuvjr-br/kills-scum/internal/domain"
)

const (
	topActorLimit  = 10
	topWeaponLimit = 8
	topKDLimit     = 10
	topClanLimit   = 5
	minKDKills     = 5
	windowDays     = 7
)

// BuildDashboard computes the server-wide aggregate view over the
// NPC-filtered event set. clanByName resolves an actor name to its clan
// (built from the players table); now anchors the 7-day chart window.
func BuildDashboard(kills []domain.Kill, clanByName map[string]domain.ClanRef, now time.Time) *domain.DashboardStats {
	killerCounts := TopN(kills, len(kills)+1, killerOf)
	victimCounts := TopN(kills, len(kills)+1, victimOf)
	weaponCounts := TopN(kills, len(kills)+1, weaponOf)

	d := &domain.DashboardStats{
		TotalKills:    len(kills),
		UniqueKillers: len(killerCounts),
		UniqueVictims: len(victimCounts),
		UniqueWeapons: len(weaponCounts),
		LastUpdated:   now,
	}

	actors := make(map[string]struct{}, len(killerCounts)+len(victimCounts))
	for _, c := range killerCounts {
		actors[c.Key] = struct{}{}
	}
	for _, c := range victimCounts {
		actors[c.Key] = struct{}{}
	}
	d.UniquePlayers = len(actors)

	d.TopKillers = leaderboard(killerCounts, topActorLimit, clanByName)
	d.TopVictims = leaderboard(victimCounts, topActorLimit, clanByName)

	if len(weaponCounts) > topWeaponLimit {
		weaponCounts = weaponCounts[:topWeaponLimit]
	}
	d.TopWeapons = toWeaponCounts(weaponCounts)

	d.TopKD = kdLeaderboard(killerCounts, victimCounts, clanByName)
	d.TopClans = clanLeaderboard(killerCounts, clanByName)
	d.DistanceStats = distanceStats(kills)
	d.Charts = buildCharts(kills, now)
	d.Charts.WeaponUsage = make([]domain.WeaponUsage, len(d.TopWeapons))
	for i, w := range d.TopWeapons {
		d.Charts.WeaponUsage[i] = domain.WeaponUsage{Weapon: w.Weapon, Kills: w.Count}
	}

	return d
}

// leaderboard truncates a ranking to limit entries, dropping the
// "Unknown" placeholder actor, and resolves each actor's clan.
func leaderboard(ranked []Count, limit int, clanByName map[string]domain.ClanRef) []domain.LeaderboardEntry {
	out := make([]domain.LeaderboardEntry, 0, limit)
	for _, c := range ranked {
		if isUnknown(c.Key) {
			continue
		}
		e := domain.LeaderboardEntry{Name: c.Key, Count: c.Count}
		if ref, ok := clanByName[c.Key]; ok {
			e.ClanTag = &ref.Tag
			e.ClanColor = &ref.Color
		}
		out = append(out, e)
		if len(out) == limit {
			break
		}
	}
	return out
}

// kdLeaderboard ranks actors by K/D, restricted to actors with enough
// kills for the ratio to mean anything.
func kdLeaderboard(killerCounts, victimCounts []Count, clanByName map[string]domain.ClanRef) []domain.KDEntry {
	deaths := make(map[string]int, len(victimCounts))
	for _, c := range victimCounts {
		deaths[c.Key] = c.Count
	}

	entries := make([]domain.KDEntry, 0, len(killerCounts))
	for _, c := range killerCounts {
		if isUnknown(c.Key) || c.Count < minKDKills {
			continue
		}
		e := domain.KDEntry{Name: c.Key, Kills: c.Count, Deaths: deaths[c.Key]}
		if e.Deaths > 0 {
			e.KD = round2(float64(e.Kills) / float64(e.Deaths))
		} else {
			e.KD = float64(e.Kills)
		}
		if ref, ok := clanByName[c.Key]; ok {
			e.ClanTag = &ref.Tag
			e.ClanColor = &ref.Color
		}
		entries = append(entries, e)
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].KD > entries[j].KD })
	if len(entries) > topKDLimit {
		entries = entries[:topKDLimit]
	}
	return entries
}

// clanLeaderboard attributes each killer's kills to their clan, when the
// killer resolves to a player with one.
func clanLeaderboard(killerCounts []Count, clanByName map[string]domain.ClanRef) []domain.ClanKills {
	type clanAgg struct {
		ref   domain.ClanRef
		kills int
	}
	byID := make(map[int64]*clanAgg)
	order := make([]int64, 0)
	for _, c := range killerCounts {
		ref, ok := clanByName[c.Key]
		if !ok {
			continue
		}
		agg, seen := byID[ref.ID]
		if !seen {
			agg = &clanAgg{ref: ref}
			byID[ref.ID] = agg
			order = append(order, ref.ID)
		}
		agg.kills += c.Count
	}

	ranked := make([]domain.ClanKills, 0, len(order))
	for _, id := range order {
		agg := byID[id]
		color := agg.ref.Color
		if color == "" {
			color = domain.DefaultClanColor
		}
		ranked = append(ranked, domain.ClanKills{
			Name:  agg.ref.Name,
			Tag:   agg.ref.Tag,
			Color: color,
			Count: agg.kills,
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Count > ranked[j].Count })
	if len(ranked) > topClanLimit {
		ranked = ranked[:topClanLimit]
	}
	return ranked
}

// distanceStats summarizes parseable distances; unparseable rows are
// excluded entirely rather than counted as zero-meter kills.
func distanceStats(kills []domain.Kill) domain.DistanceStats {
	distances := make([]float64, 0, len(kills))
	for _, k := range kills {
		if d, ok := parseDistance(k.Distance); ok {
			distances = append(distances, d)
		}
	}
	if len(distances) == 0 {
		return domain.DistanceStats{}
	}
	sort.Float64s(distances)

	var sum float64
	for _, d := range distances {
		sum += d
	}
	mid := len(distances) / 2
	median := distances[mid]
	if len(distances)%2 == 0 {
		median = (distances[mid-1] + distances[mid]) / 2
	}

	return domain.DistanceStats{
		Avg:    round2(sum / float64(len(distances))),
		Median: round2(median),
		Min:    distances[0],
		Max:    distances[len(distances)-1],
	}
}

// buildCharts computes the 7-day time series and the distance histogram.
// The window is the last 7 UTC calendar days including today, zero-filled.
func buildCharts(kills []domain.Kill, now time.Time) domain.DashboardCharts {
	today := now.UTC().Truncate(24 * time.Hour)
	windowStart := today.AddDate(0, 0, -(windowDays - 1))

	killsByDay := make(map[string]int)
	var killsByHour [24]int
	buckets := [5]int{}

	for _, k := range kills {
		ts := k.Timestamp.UTC()
		day := ts.Truncate(24 * time.Hour)
		if !day.Before(windowStart) && !day.After(today) {
			killsByDay[dayKey(ts)]++
			killsByHour[ts.Hour()]++
		}

		d, ok := parseDistance(k.Distance)
		if !ok {
			continue
		}
		switch {
		case d < 25:
			buckets[0]++
		case d < 50:
			buckets[1]++
		case d < 100:
			buckets[2]++
		case d < 200:
			buckets[3]++
		default:
			buckets[4]++
		}
	}

	charts := domain.DashboardCharts{
		KillsByDay:  make([]domain.DayCount, windowDays),
		KillsByHour: make([]domain.HourPoint, 24),
		DistanceBuckets: []domain.BucketCount{
			{Bucket: "0-25m", Kills: buckets[0]},
			{Bucket: "25-50m", Kills: buckets[1]},
			{Bucket: "50-100m", Kills: buckets[2]},
			{Bucket: "100-200m", Kills: buckets[3]},
			{Bucket: "200m+", Kills: buckets[4]},
		},
	}

	for i := 0; i < windowDays; i++ {
		day := windowStart.AddDate(0, 0, i)
		key := day.Format("2006-01-02")
		charts.KillsByDay[i] = domain.DayCount{Date: key, Kills: killsByDay[key]}
	}
	for h := 0; h < 24; h++ {
		charts.KillsByHour[h] = domain.HourPoint{
			Hour:    fmt.Sprintf("%02dh", h),
			Kills:   killsByHour[h],
			Average: round1(float64(killsByHour[h]) / windowDays),
		}
	}
	return charts
}

// BuildPlayerStats computes the single-player block over the NPC-filtered
// event set. Name matching is exact, as in the killfeed itself.
func BuildPlayerStats(kills []domain.Kill, name string) *domain.PlayerStats {
	var asKiller, asVictim []domain.Kill
	for _, k := range kills {
		if k.Killer == name {
			asKiller = append(asKiller, k)
		}
		if k.Victim == name {
			asVictim = append(asVictim, k)
		}
	}

	ps := &domain.PlayerStats{
		PlayerName: name,
		Kills:      len(asKiller),
		Deaths:     len(asVictim),
	}
	if ps.Deaths > 0 {
		ps.KD = round2(float64(ps.Kills) / float64(ps.Deaths))
	} else {
		ps.KD = float64(ps.Kills)
	}
	ps.FavoriteWeapons = toWeaponCounts(TopN(asKiller, 5, weaponOf))
	ps.TopVictims = toNameCounts(TopN(asKiller, 5, victimOf))
	ps.KilledBy = toNameCounts(TopN(asVictim, 5, killerOf))
	return ps
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
