package storage

import (
	"database/sql"

	"github.com/nereuvjr-br/kills-scum/internal/domain"
)

// Null scanner helpers - reduce repetitive nil-checking code

func scanNullString(ns sql.NullString) *string {
	if ns.Valid {
		return &ns.String
	}
	return nil
}

func scanNullStringValue(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

func scanNullInt64Ptr(ni sql.NullInt64) *int64 {
	if ni.Valid {
		return &ni.Int64
	}
	return nil
}

// scanner is an interface satisfied by both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

// scanKill scans a killfeed row
func scanKill(s scanner) (domain.Kill, error) {
	var k domain.Kill
	var externalID, clan sql.NullString
	err := s.Scan(&k.ID, &k.Killer, &k.Victim, &k.Distance, &k.Weapon,
		&k.Timestamp, &externalID, &clan, &k.CreatedAt, &k.UpdatedAt)
	if err != nil {
		return k, err
	}
	k.ExternalID = scanNullString(externalID)
	k.Clan = scanNullString(clan)
	return k, nil
}

// scanClan scans a clan row
func scanClan(s scanner) (domain.Clan, error) {
	var c domain.Clan
	var description sql.NullString
	err := s.Scan(&c.ID, &c.Name, &c.Tag, &description, &c.Color, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return c, err
	}
	c.Description = scanNullStringValue(description)
	return c, nil
}

// scanPlayer scans a player row
func scanPlayer(s scanner) (domain.Player, error) {
	var p domain.Player
	var clanID sql.NullInt64
	var discordID sql.NullString
	err := s.Scan(&p.ID, &p.Name, &clanID, &discordID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return p, err
	}
	p.ClanID = scanNullInt64Ptr(clanID)
	p.DiscordID = scanNullString(discordID)
	return p, nil
}
