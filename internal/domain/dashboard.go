package domain

import "time"

// LeaderboardEntry is one row of the dashboard killer/victim leaderboards,
// with the actor's clan tag resolved when a matching player row exists.
type LeaderboardEntry struct {
	Name      string  `json:"name"`
	Count     int     `json:"count"`
	ClanTag   *string `json:"clan_tag"`
	ClanColor *string `json:"clan_color"`
}

// KDEntry is one row of the K/D leaderboard.
type KDEntry struct {
	Name      string  `json:"name"`
	Kills     int     `json:"kills"`
	Deaths    int     `json:"deaths"`
	KD        float64 `json:"kd"`
	ClanTag   *string `json:"clan_tag"`
	ClanColor *string `json:"clan_color"`
}

// ClanKills is one row of the per-clan kill leaderboard.
type ClanKills struct {
	Name  string `json:"name"`
	Tag   string `json:"tag"`
	Color string `json:"color"`
	Count int    `json:"count"`
}

// DistanceStats summarizes parsed kill distances across the whole event set.
type DistanceStats struct {
	Avg    float64 `json:"avg"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// BucketCount is one bar of the distance distribution chart.
type BucketCount struct {
	Bucket string `json:"bucket"`
	Kills  int    `json:"kills"`
}

// HourPoint is one bar of the kills-per-hour chart. Average is the per-day
// mean over the 7-day window, rounded to one decimal.
type HourPoint struct {
	Hour    string  `json:"hour"`
	Kills   int     `json:"kills"`
	Average float64 `json:"average"`
}

// WeaponUsage is one slice of the weapon usage chart.
type WeaponUsage struct {
	Weapon string `json:"weapon"`
	Kills  int    `json:"kills"`
}

// DashboardCharts holds the dashboard time-series and distribution data.
type DashboardCharts struct {
	KillsByDay      []DayCount    `json:"kills_by_day"`
	KillsByHour     []HourPoint   `json:"kills_by_hour"`
	DistanceBuckets []BucketCount `json:"distance_buckets"`
	WeaponUsage     []WeaponUsage `json:"weapon_usage"`
}

// DashboardStats is the server-wide aggregate view.
type DashboardStats struct {
	TotalKills    int                `json:"total_kills"`
	UniquePlayers int                `json:"unique_players"`
	UniqueKillers int                `json:"unique_killers"`
	UniqueVictims int                `json:"unique_victims"`
	UniqueWeapons int                `json:"unique_weapons"`
	DistanceStats DistanceStats      `json:"distance_stats"`
	TopKillers    []LeaderboardEntry `json:"top_killers"`
	TopVictims    []LeaderboardEntry `json:"top_victims"`
	TopWeapons    []WeaponCount      `json:"top_weapons"`
	TopKD         []KDEntry          `json:"top_kd"`
	TopClans      []ClanKills        `json:"top_clans"`
	Charts        DashboardCharts    `json:"charts"`
	LastUpdated   time.Time          `json:"last_updated"`
}

// PlayerStats is the single-player statistics block.
type PlayerStats struct {
	PlayerName      string        `json:"player_name"`
	Kills           int           `json:"kills"`
	Deaths          int           `json:"deaths"`
	KD              float64       `json:"kd"`
	FavoriteWeapons []WeaponCount `json:"favorite_weapons"`
	TopVictims      []NameCount   `json:"top_victims"`
	KilledBy        []NameCount   `json:"killed_by"`
}
