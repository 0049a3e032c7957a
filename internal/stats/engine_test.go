package stats

import (
	"testing"
	"time"

	"github.com/nereuvjr-br/kills-scum/internal/domain"
)

// at builds a UTC timestamp on the given March 2026 day.
func at(day, hour int) time.Time {
	return time.Date(2026, 3, day, hour, 0, 0, 0, time.UTC)
}

// kill builds a killfeed event for the aggregation tests.
func kill(killer, victim, weapon, distance string, ts time.Time) domain.Kill {
	return domain.Kill{
		Killer:    killer,
		Victim:    victim,
		Weapon:    weapon,
		Distance:  distance,
		Timestamp: ts,
	}
}

func TestFilterWindowInclusiveBounds(t *testing.T) {
	kills := []domain.Kill{
		kill("a", "b", "AK", "10m", at(1, 0)),
		kill("a", "b", "AK", "10m", at(2, 0)),
		kill("a", "b", "AK", "10m", at(3, 0)),
	}
	start, end := at(2, 0), at(3, 0)

	got := FilterWindow(kills, &start, &end)
	if len(got) != 2 {
		t.Fatalf("got %d kills, want 2 (bounds are inclusive)", len(got))
	}

	if got := FilterWindow(kills, nil, nil); len(got) != 3 {
		t.Errorf("nil bounds should keep everything, got %d", len(got))
	}
	if got := FilterWindow(kills, &start, nil); len(got) != 2 {
		t.Errorf("open end should keep from start on, got %d", len(got))
	}
}

func TestSideStats(t *testing.T) {
	side := NewStringSet([]string{"Alice", "Bob"})
	kills := []domain.Kill{
		kill("Alice", "Carl", "AK-47", "100m", at(1, 10)),
		kill("Alice", "Carl", "AK-47", "50m", at(1, 10)),
		kill("Bob", "Carl", "M82A1", "210m", at(2, 14)),
		kill("Carl", "Alice", "Spear", "2m", at(2, 15)),
	}

	s := SideStats(kills, side)
	if s.TotalKills != 3 {
		t.Errorf("TotalKills = %d, want 3", s.TotalKills)
	}
	if s.TotalDeaths != 1 {
		t.Errorf("TotalDeaths = %d, want 1", s.TotalDeaths)
	}
	if s.KD != 3 {
		t.Errorf("KD = %v, want 3", s.KD)
	}
	if s.AvgDistance != 120 {
		t.Errorf("AvgDistance = %d, want 120", s.AvgDistance)
	}
	if s.LongestKill == nil || s.LongestKill.Distance != 210 || s.LongestKill.Killer != "Bob" {
		t.Errorf("LongestKill = %+v, want Bob at 210", s.LongestKill)
	}
	if s.MostActiveHour != 10 {
		t.Errorf("MostActiveHour = %d, want 10", s.MostActiveHour)
	}
	if s.BestDay == nil || s.BestDay.Date != "2026-03-01" || s.BestDay.Kills != 2 {
		t.Errorf("BestDay = %+v, want 2026-03-01 with 2 kills", s.BestDay)
	}
	if len(s.TopKillers) != 2 || s.TopKillers[0].Name != "Alice" || s.TopKillers[0].Count != 2 {
		t.Errorf("TopKillers = %+v, want Alice first with 2", s.TopKillers)
	}
}

func TestSideStatsZeroDeathsReportsKillsAsKD(t *testing.T) {
	side := NewStringSet([]string{"Alice"})
	kills := []domain.Kill{
		kill("Alice", "Carl", "AK-47", "10m", at(1, 0)),
		kill("Alice", "Carl", "AK-47", "10m", at(1, 1)),
	}
	if s := SideStats(kills, side); s.KD != 2 {
		t.Errorf("KD = %v, want 2 (kill count when deaths are zero)", s.KD)
	}
}

func TestSideStatsEmpty(t *testing.T) {
	s := SideStats(nil, NewStringSet([]string{"Alice"}))
	if s.TotalKills != 0 || s.TotalDeaths != 0 || s.KD != 0 {
		t.Errorf("empty input should produce zero block, got %+v", s)
	}
	if s.LongestKill != nil || s.BestDay != nil {
		t.Errorf("empty input should have nil LongestKill and BestDay, got %+v", s)
	}
}

func TestMaxStreaks(t *testing.T) {
	side1 := NewStringSet([]string{"A"})
	battles := []domain.Kill{
		kill("A", "B", "", "", at(1, 1)),
		kill("A", "B", "", "", at(1, 2)),
		kill("B", "A", "", "", at(1, 3)),
		kill("A", "B", "", "", at(1, 4)),
		kill("A", "B", "", "", at(1, 5)),
		kill("A", "B", "", "", at(1, 6)),
	}

	max1, max2 := MaxStreaks(battles, side1)
	if max1 != 3 {
		t.Errorf("max1 = %d, want 3", max1)
	}
	if max2 != 1 {
		t.Errorf("max2 = %d, want 1", max2)
	}

	if m1, m2 := MaxStreaks(nil, side1); m1 != 0 || m2 != 0 {
		t.Errorf("empty battles should yield 0/0, got %d/%d", m1, m2)
	}
}
