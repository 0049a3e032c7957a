package domain

import "time"

// Player is a registered identity for a killfeed actor name. Killfeed rows
// reference actors by free-text name only; a Player row is what links a
// name to a clan.
type Player struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	ClanID    *int64    `json:"clan_id"`
	DiscordID *string   `json:"discord_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PlayerWithClan is a player joined with its clan (nil when unaffiliated).
type PlayerWithClan struct {
	Player
	Clan *Clan `json:"clan"`
}

// SyncResult reports the outcome of synthesizing players from killfeed
// actor names.
type SyncResult struct {
	Total    int `json:"total"`
	Created  int `json:"created"`
	Existing int `json:"existing"`
}
