package domain

import "time"

// DefaultClanColor is the display color assigned when a clan is created
// without one.
const DefaultClanColor = "#3b82f6"

// Clan is a tracked player group. Name and tag are unique.
type Clan struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Tag         string    `json:"tag"`
	Description string    `json:"description,omitempty"`
	Color       string    `json:"color"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ClanSummary is a clan with its current member count, as returned by the
// clan list endpoint.
type ClanSummary struct {
	Clan
	MemberCount int `json:"member_count"`
}

// ClanDetail is a clan with its full member list.
type ClanDetail struct {
	Clan
	Members []Player `json:"members"`
}

// ClanRef is the resolved clan identity for a killfeed actor name, used to
// decorate leaderboard entries. Keyed by player name in lookup maps.
type ClanRef struct {
	ID    int64
	Name  string
	Tag   string
	Color string
}
