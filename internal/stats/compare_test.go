package stats

import (
	"errors"
	"testing"

	"github.com/nereuvjr-br/kills-scum/internal/domain"
)

// compareFixture is the shared head-to-head scenario: Alice and Bob on one
// side, Carl on the other, Dave an outsider on neither.
func compareFixture() []domain.Kill {
	return []domain.Kill{
		kill("Alice", "Carl", "AK-47", "100m", at(1, 10)),
		kill("Alice", "Carl", "AK-47", "50m", at(1, 11)),
		kill("Bob", "Carl", "M82A1", "200m", at(2, 9)),
		kill("Carl", "Alice", "Spear", "2m", at(2, 12)),
		kill("Alice", "Dave", "Bow", "10m", at(3, 8)),
		kill("Dave", "Carl", "Bow", "15m", at(3, 9)),
	}
}

func TestCompareHeadToHead(t *testing.T) {
	res, err := Compare(compareFixture(), []string{"Alice", "Bob"}, []string{"Carl"}, nil, nil)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}

	if res.Clan1.TotalKills != 4 || res.Clan1.TotalDeaths != 1 {
		t.Errorf("clan1 = %d kills / %d deaths, want 4/1", res.Clan1.TotalKills, res.Clan1.TotalDeaths)
	}
	if res.Clan2.TotalKills != 1 || res.Clan2.TotalDeaths != 4 {
		t.Errorf("clan2 = %d kills / %d deaths, want 1/4", res.Clan2.TotalKills, res.Clan2.TotalDeaths)
	}
	if res.Clan2.KD != 0.25 {
		t.Errorf("clan2 KD = %v, want 0.25", res.Clan2.KD)
	}

	h2h := res.HeadToHead
	if h2h.Clan1Wins != 3 || h2h.Clan2Wins != 1 {
		t.Errorf("wins = %d/%d, want 3/1", h2h.Clan1Wins, h2h.Clan2Wins)
	}
	// (100+50+200)/3 rounds to 117.
	if h2h.Clan1Stats.AvgDistance != 117 {
		t.Errorf("clan1 direction avg distance = %d, want 117", h2h.Clan1Stats.AvgDistance)
	}
	if res.Clan1.MaxStreak != 3 || res.Clan2.MaxStreak != 1 {
		t.Errorf("streaks = %d/%d, want 3/1", res.Clan1.MaxStreak, res.Clan2.MaxStreak)
	}
}

func TestCompareRecentBattlesNewestFirst(t *testing.T) {
	res, err := Compare(compareFixture(), []string{"Alice", "Bob"}, []string{"Carl"}, nil, nil)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}

	battles := res.HeadToHead.RecentBattles
	if len(battles) != 4 {
		t.Fatalf("got %d recent battles, want 4 (outsider kills excluded)", len(battles))
	}
	if battles[0].Killer != "Carl" || battles[0].Weapon != "Spear" {
		t.Errorf("newest battle = %+v, want Carl's spear kill", battles[0])
	}
	if battles[3].Killer != "Alice" || battles[3].Distance != 100 {
		t.Errorf("oldest battle = %+v, want Alice at 100m", battles[3])
	}
}

func TestCompareDailySeries(t *testing.T) {
	res, err := Compare(compareFixture(), []string{"Alice", "Bob"}, []string{"Carl"}, nil, nil)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}

	// All side kills, including those against outsiders.
	activity := res.HeadToHead.DailyActivity
	if len(activity) != 3 {
		t.Fatalf("got %d activity days, want 3", len(activity))
	}
	if activity[0].Date != "2026-03-01" || activity[0].Clan1Kills != 2 || activity[0].Clan2Kills != 0 {
		t.Errorf("day 1 activity = %+v", activity[0])
	}
	if activity[1].Clan1Kills != 1 || activity[1].Clan2Kills != 1 {
		t.Errorf("day 2 activity = %+v", activity[1])
	}

	// Head-to-head kills only.
	daily := res.HeadToHead.Daily
	if len(daily) != 2 {
		t.Fatalf("got %d head-to-head days, want 2", len(daily))
	}
	if daily[0].Clan1Kills != 2 || daily[1].Clan1Kills != 1 || daily[1].Clan2Kills != 1 {
		t.Errorf("head-to-head daily = %+v", daily)
	}
}

func TestCompareWindowFilter(t *testing.T) {
	start, end := at(2, 0), at(2, 23)
	res, err := Compare(compareFixture(), []string{"Alice", "Bob"}, []string{"Carl"}, &start, &end)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if res.HeadToHead.Clan1Wins != 1 || res.HeadToHead.Clan2Wins != 1 {
		t.Errorf("windowed wins = %d/%d, want 1/1", res.HeadToHead.Clan1Wins, res.HeadToHead.Clan2Wins)
	}
}

func TestCompareSymmetry(t *testing.T) {
	forward, err := Compare(compareFixture(), []string{"Alice", "Bob"}, []string{"Carl"}, nil, nil)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	reverse, err := Compare(compareFixture(), []string{"Carl"}, []string{"Alice", "Bob"}, nil, nil)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}

	if forward.HeadToHead.Clan1Wins != reverse.HeadToHead.Clan2Wins {
		t.Errorf("forward clan1 wins %d != reverse clan2 wins %d",
			forward.HeadToHead.Clan1Wins, reverse.HeadToHead.Clan2Wins)
	}
	if forward.Clan1.TotalKills != reverse.Clan2.TotalKills {
		t.Errorf("forward clan1 kills %d != reverse clan2 kills %d",
			forward.Clan1.TotalKills, reverse.Clan2.TotalKills)
	}
	if forward.Clan1.MaxStreak != reverse.Clan2.MaxStreak {
		t.Errorf("forward clan1 streak %d != reverse clan2 streak %d",
			forward.Clan1.MaxStreak, reverse.Clan2.MaxStreak)
	}
}

func TestCompareOverlappingSidesRejected(t *testing.T) {
	_, err := Compare(compareFixture(), []string{"Alice", "Bob"}, []string{"Bob"}, nil, nil)
	if !errors.Is(err, ErrOverlappingSides) {
		t.Fatalf("got %v, want ErrOverlappingSides", err)
	}

	_, err = Compare(compareFixture(), []string{"Alice"}, []string{"Alice"}, nil, nil)
	if !errors.Is(err, ErrOverlappingSides) {
		t.Fatalf("self comparison: got %v, want ErrOverlappingSides", err)
	}
}

func TestCompareEmptySnapshot(t *testing.T) {
	res, err := Compare(nil, []string{"Alice"}, []string{"Carl"}, nil, nil)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if res.HeadToHead.Clan1Wins != 0 || res.HeadToHead.Clan2Wins != 0 {
		t.Errorf("empty snapshot should have zero wins, got %+v", res.HeadToHead)
	}
	if len(res.HeadToHead.RecentBattles) != 0 {
		t.Errorf("empty snapshot should have no battles, got %d", len(res.HeadToHead.RecentBattles))
	}
}
