package domain

import "time"

// Kill is one recorded PvP elimination from the server killfeed.
// Rows are append-only: import creates them and nothing updates them.
// Distance is kept as the raw feed text (it usually carries an "m" suffix);
// parse it before doing arithmetic.
type Kill struct {
	ID         int64     `json:"id"`
	Killer     string    `json:"killer"`
	Victim     string    `json:"victim"`
	Distance   string    `json:"distance"`
	Weapon     string    `json:"weapon"`
	Timestamp  time.Time `json:"timestamp"`
	ExternalID *string   `json:"id_discord,omitempty"`
	Clan       *string   `json:"clan,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// RecentKill is a killfeed row decorated with the clan tags resolved for
// both actors, as shown on the dashboard's recent-kills card.
type RecentKill struct {
	ID              int64     `json:"id"`
	Killer          string    `json:"killer"`
	KillerClanTag   *string   `json:"killer_clan_tag"`
	KillerClanColor *string   `json:"killer_clan_color"`
	Victim          string    `json:"victim"`
	VictimClanTag   *string   `json:"victim_clan_tag"`
	VictimClanColor *string   `json:"victim_clan_color"`
	Distance        string    `json:"distance"`
	Weapon          string    `json:"weapon"`
	Timestamp       time.Time `json:"timestamp"`
}
