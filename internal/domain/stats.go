package domain

import "time"

// WeaponCount is one row of a weapon frequency ranking.
type WeaponCount struct {
	Weapon string `json:"weapon"`
	Count  int    `json:"count"`
}

// NameCount is one row of an actor frequency ranking (top killers, top
// victims, killed-by).
type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// DayCount is a per-calendar-date (UTC, YYYY-MM-DD) kill count.
type DayCount struct {
	Date  string `json:"date"`
	Kills int    `json:"kills"`
}

// LongestKill describes the single farthest kill of a side.
type LongestKill struct {
	Distance float64 `json:"distance"`
	Killer   string  `json:"killer"`
	Victim   string  `json:"victim"`
	Weapon   string  `json:"weapon"`
}

// SideStats is the full statistics block computed for one side of a
// comparison (a clan's member names, or a single player).
type SideStats struct {
	TotalKills     int           `json:"total_kills"`
	TotalDeaths    int           `json:"total_deaths"`
	KD             float64       `json:"kd"`
	TopWeapons     []WeaponCount `json:"top_weapons"`
	TopKillers     []NameCount   `json:"top_killers"`
	AvgDistance    int           `json:"avg_distance"`
	LongestKill    *LongestKill  `json:"longest_kill"`
	MostActiveHour int           `json:"most_active_hour"`
	BestDay        *DayCount     `json:"best_day"`
	MaxStreak      int           `json:"max_streak"`
	HourlyActivity [24]int       `json:"hourly_activity"`
	DailyKills     []DayCount    `json:"daily_kills"`
}

// CompareSide is one side of a comparison result: the resolved identity
// plus its statistics block.
type CompareSide struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Tag         string `json:"tag,omitempty"`
	Color       string `json:"color,omitempty"`
	MemberCount int    `json:"member_count"`
	SideStats
}

// DirectionStats is the reduced statistics block for one direction of the
// head-to-head subset.
type DirectionStats struct {
	TopWeapons  []WeaponCount `json:"top_weapons"`
	TopKillers  []NameCount   `json:"top_killers"`
	AvgDistance int           `json:"avg_distance"`
}

// DailyPoint is a per-date pair of kill counts for the comparison charts.
type DailyPoint struct {
	Date       string `json:"date"`
	Clan1Kills int    `json:"clan1_kills"`
	Clan2Kills int    `json:"clan2_kills"`
}

// Battle is one head-to-head kill in the recent-battles feed.
type Battle struct {
	Killer    string    `json:"killer"`
	Victim    string    `json:"victim"`
	Weapon    string    `json:"weapon"`
	Distance  float64   `json:"distance"`
	Timestamp time.Time `json:"timestamp"`
}

// HeadToHead holds the directional subset statistics of a comparison.
type HeadToHead struct {
	Clan1Wins     int            `json:"clan1_wins"`
	Clan2Wins     int            `json:"clan2_wins"`
	Clan1Stats    DirectionStats `json:"clan1_stats"`
	Clan2Stats    DirectionStats `json:"clan2_stats"`
	DailyActivity []DailyPoint   `json:"daily_activity"`
	Daily         []DailyPoint   `json:"daily"`
	RecentBattles []Battle       `json:"recent_battles"`
}

// ComparisonResult is the full clan-vs-clan (or player-vs-player)
// comparison payload.
type ComparisonResult struct {
	Clan1      CompareSide `json:"clan1"`
	Clan2      CompareSide `json:"clan2"`
	HeadToHead HeadToHead  `json:"head_to_head"`
}
