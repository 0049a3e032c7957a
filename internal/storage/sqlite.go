package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/nereuvjr-br/kills-scum/internal/domain"
	_ "modernc.org/sqlite"
)

// formatTimestamp converts time.Time to SQLite-compatible UTC ISO8601 string
// The Z suffix ensures the Go sqlite driver parses it back as UTC
func formatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05Z")
}

//go:embed schema.sql
var schema string

// Store provides database access
type Store struct {
	db *sql.DB
}

// New creates a new Store with the given database path
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	// Enable foreign keys, WAL mode for better performance, and busy timeout for concurrency
	if _, err := db.Exec("PRAGMA foreign_keys = ON; PRAGMA journal_mode = WAL; PRAGMA busy_timeout = 5000;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting pragmas: %w", err)
	}

	// Create tables
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks database connectivity, used by the health endpoint.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure on
// the given column (modernc sqlite has no typed error for this).
func isUniqueViolation(err error, column string) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed: "+column)
}

// --- Killfeed methods ---

// KillFilter enumerates the optional killfeed query predicates. All fields
// are optional; nil means unbounded. Bounds are inclusive.
type KillFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
}

// ListKills returns kill events matching the filter, ordered by timestamp
// ascending (ties by insertion order).
func (s *Store) ListKills(ctx context.Context, filter KillFilter) ([]domain.Kill, error) {
	query := `
		SELECT id, killer, victim, distance, weapon, timestamp, id_discord, clan, created_at, updated_at
		FROM killfeeds`
	var conds []string
	var args []any
	if filter.StartDate != nil {
		conds = append(conds, "timestamp >= ?")
		args = append(args, formatTimestamp(*filter.StartDate))
	}
	if filter.EndDate != nil {
		conds = append(conds, "timestamp <= ?")
		args = append(args, formatTimestamp(*filter.EndDate))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY timestamp ASC, id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var kills []domain.Kill
	for rows.Next() {
		k, err := scanKill(rows)
		if err != nil {
			return nil, err
		}
		kills = append(kills, k)
	}
	return kills, rows.Err()
}

// InsertKill inserts one kill event. A collision on the external dedup id
// returns ErrDuplicate; the UNIQUE constraint is the authoritative check,
// the pre-select just keeps the common case cheap.
func (s *Store) InsertKill(ctx context.Context, k *domain.Kill) error {
	if k.ExternalID != nil {
		var existing int64
		err := s.db.QueryRowContext(ctx,
			"SELECT id FROM killfeeds WHERE id_discord = ? LIMIT 1", *k.ExternalID,
		).Scan(&existing)
		if err == nil {
			return ErrDuplicate
		}
		if err != sql.ErrNoRows {
			return err
		}
	}

	now := formatTimestamp(time.Now())
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO killfeeds (killer, victim, distance, weapon, timestamp, id_discord, clan, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, k.Killer, k.Victim, k.Distance, k.Weapon, formatTimestamp(k.Timestamp), k.ExternalID, k.Clan, now, now)
	if isUniqueViolation(err, "killfeeds.id_discord") {
		return ErrDuplicate
	}
	if err != nil {
		return err
	}
	k.ID, _ = result.LastInsertId()
	return nil
}

// ExternalIDs returns the set of external dedup ids already stored.
func (s *Store) ExternalIDs(ctx context.Context) (map[string]struct{}, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id_discord FROM killfeeds WHERE id_discord IS NOT NULL")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = struct{}{}
	}
	return ids, rows.Err()
}

// FirstKillTimestamp returns the oldest event timestamp, nil when the
// store is empty.
func (s *Store) FirstKillTimestamp(ctx context.Context) (*time.Time, error) {
	var ts time.Time
	err := s.db.QueryRowContext(ctx,
		"SELECT timestamp FROM killfeeds ORDER BY timestamp ASC LIMIT 1",
	).Scan(&ts)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ts, nil
}

// DistinctActorNames returns every distinct killer and victim name.
func (s *Store) DistinctActorNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT killer AS name FROM killfeeds
		UNION
		SELECT victim AS name FROM killfeeds
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

// --- Clan methods ---

// ListClans returns all clans with their member counts, ordered by name.
func (s *Store) ListClans(ctx context.Context) ([]domain.ClanSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.tag, c.description, c.color, c.created_at, c.updated_at,
			(SELECT COUNT(*) FROM players p WHERE p.clan_id = c.id) AS member_count
		FROM clans c ORDER BY c.name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clans []domain.ClanSummary
	for rows.Next() {
		var cs domain.ClanSummary
		var description sql.NullString
		if err := rows.Scan(&cs.ID, &cs.Name, &cs.Tag, &description, &cs.Color,
			&cs.CreatedAt, &cs.UpdatedAt, &cs.MemberCount); err != nil {
			return nil, err
		}
		cs.Description = scanNullStringValue(description)
		clans = append(clans, cs)
	}
	return clans, rows.Err()
}

// CreateClan inserts a new clan. Name and tag collisions return ErrConflict.
func (s *Store) CreateClan(ctx context.Context, c *domain.Clan) error {
	if c.Color == "" {
		c.Color = domain.DefaultClanColor
	}
	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO clans (name, tag, description, color, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, c.Name, c.Tag, c.Description, c.Color, formatTimestamp(now), formatTimestamp(now))
	if isUniqueViolation(err, "clans.name") || isUniqueViolation(err, "clans.tag") {
		return ErrConflict
	}
	if err != nil {
		return err
	}
	c.ID, _ = result.LastInsertId()
	c.CreatedAt = now
	c.UpdatedAt = now
	return nil
}

// GetClanByID returns a clan by id, or ErrNotFound.
func (s *Store) GetClanByID(ctx context.Context, id int64) (*domain.Clan, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, tag, description, color, created_at, updated_at
		FROM clans WHERE id = ?
	`, id)
	c, err := scanClan(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetClanDetail returns a clan together with its members.
func (s *Store) GetClanDetail(ctx context.Context, id int64) (*domain.ClanDetail, error) {
	clan, err := s.GetClanByID(ctx, id)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, clan_id, discord_id, created_at, updated_at
		FROM players WHERE clan_id = ? ORDER BY name
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	detail := &domain.ClanDetail{Clan: *clan, Members: []domain.Player{}}
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		detail.Members = append(detail.Members, p)
	}
	return detail, rows.Err()
}

// ClanUpdate enumerates the optional clan fields a partial update may set.
type ClanUpdate struct {
	Name        *string
	Tag         *string
	Description *string
	Color       *string
}

// UpdateClan applies a partial update and returns the updated clan.
func (s *Store) UpdateClan(ctx context.Context, id int64, upd ClanUpdate) (*domain.Clan, error) {
	var sets []string
	var args []any
	if upd.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *upd.Name)
	}
	if upd.Tag != nil {
		sets = append(sets, "tag = ?")
		args = append(args, *upd.Tag)
	}
	if upd.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *upd.Description)
	}
	if upd.Color != nil {
		sets = append(sets, "color = ?")
		args = append(args, *upd.Color)
	}
	if len(sets) == 0 {
		return s.GetClanByID(ctx, id)
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, formatTimestamp(time.Now()), id)

	result, err := s.db.ExecContext(ctx,
		"UPDATE clans SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if isUniqueViolation(err, "clans.name") || isUniqueViolation(err, "clans.tag") {
		return nil, ErrConflict
	}
	if err != nil {
		return nil, err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.GetClanByID(ctx, id)
}

// DeleteClan detaches all member players, then deletes the clan. Players
// are never cascade-deleted.
func (s *Store) DeleteClan(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"UPDATE players SET clan_id = NULL, updated_at = ? WHERE clan_id = ?",
		formatTimestamp(time.Now()), id); err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM clans WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}

// ClanMemberNames returns the player names belonging to a clan.
func (s *Store) ClanMemberNames(ctx context.Context, clanID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name FROM players WHERE clan_id = ? ORDER BY name", clanID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

// --- Player methods ---

// PlayerFilter enumerates the optional player list predicates.
type PlayerFilter struct {
	ClanID     *int64
	Search     string
	Unassigned bool
}

// ListPlayers returns players (with their clan, when any) matching the
// filter, ordered by name. Search is a case-insensitive substring match.
func (s *Store) ListPlayers(ctx context.Context, filter PlayerFilter) ([]domain.PlayerWithClan, error) {
	query := `
		SELECT p.id, p.name, p.clan_id, p.discord_id, p.created_at, p.updated_at,
			c.id, c.name, c.tag, c.description, c.color, c.created_at, c.updated_at
		FROM players p
		LEFT JOIN clans c ON p.clan_id = c.id`
	var conds []string
	var args []any
	if filter.ClanID != nil {
		conds = append(conds, "p.clan_id = ?")
		args = append(args, *filter.ClanID)
	}
	if filter.Unassigned {
		conds = append(conds, "p.clan_id IS NULL")
	}
	if filter.Search != "" {
		conds = append(conds, "p.name LIKE ? COLLATE NOCASE")
		args = append(args, "%"+filter.Search+"%")
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY p.name"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := []domain.PlayerWithClan{}
	for rows.Next() {
		var pw domain.PlayerWithClan
		var clanID sql.NullInt64
		var discordID sql.NullString
		var cID sql.NullInt64
		var cName, cTag, cDescription, cColor sql.NullString
		var cCreated, cUpdated sql.NullTime
		if err := rows.Scan(&pw.ID, &pw.Name, &clanID, &discordID, &pw.CreatedAt, &pw.UpdatedAt,
			&cID, &cName, &cTag, &cDescription, &cColor, &cCreated, &cUpdated); err != nil {
			return nil, err
		}
		pw.ClanID = scanNullInt64Ptr(clanID)
		pw.DiscordID = scanNullString(discordID)
		if cID.Valid {
			pw.Clan = &domain.Clan{
				ID:          cID.Int64,
				Name:        cName.String,
				Tag:         cTag.String,
				Description: scanNullStringValue(cDescription),
				Color:       cColor.String,
				CreatedAt:   cCreated.Time,
				UpdatedAt:   cUpdated.Time,
			}
		}
		players = append(players, pw)
	}
	return players, rows.Err()
}

// CreatePlayer inserts a new player. Name collisions return ErrConflict;
// a nonexistent clan id returns ErrNotFound.
func (s *Store) CreatePlayer(ctx context.Context, p *domain.Player) error {
	if p.ClanID != nil {
		if _, err := s.GetClanByID(ctx, *p.ClanID); err != nil {
			return err
		}
	}
	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO players (name, clan_id, discord_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, p.Name, p.ClanID, p.DiscordID, formatTimestamp(now), formatTimestamp(now))
	if isUniqueViolation(err, "players.name") {
		return ErrConflict
	}
	if err != nil {
		return err
	}
	p.ID, _ = result.LastInsertId()
	p.CreatedAt = now
	p.UpdatedAt = now
	return nil
}

// GetPlayerByID returns a player by id, or ErrNotFound.
func (s *Store) GetPlayerByID(ctx context.Context, id int64) (*domain.Player, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, clan_id, discord_id, created_at, updated_at
		FROM players WHERE id = ?
	`, id)
	p, err := scanPlayer(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// PlayerUpdate enumerates the optional player fields a partial update may
// set. SetClan distinguishes "change clan (possibly to none)" from "leave
// clan untouched".
type PlayerUpdate struct {
	Name      *string
	DiscordID *string
	ClanID    *int64
	SetClan   bool
}

// UpdatePlayer applies a partial update and returns the updated player.
func (s *Store) UpdatePlayer(ctx context.Context, id int64, upd PlayerUpdate) (*domain.Player, error) {
	if upd.SetClan && upd.ClanID != nil {
		if _, err := s.GetClanByID(ctx, *upd.ClanID); err != nil {
			return nil, err
		}
	}

	var sets []string
	var args []any
	if upd.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *upd.Name)
	}
	if upd.DiscordID != nil {
		sets = append(sets, "discord_id = ?")
		args = append(args, *upd.DiscordID)
	}
	if upd.SetClan {
		sets = append(sets, "clan_id = ?")
		args = append(args, upd.ClanID)
	}
	if len(sets) == 0 {
		return s.GetPlayerByID(ctx, id)
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, formatTimestamp(time.Now()), id)

	result, err := s.db.ExecContext(ctx,
		"UPDATE players SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if isUniqueViolation(err, "players.name") {
		return nil, ErrConflict
	}
	if err != nil {
		return nil, err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.GetPlayerByID(ctx, id)
}

// DeletePlayer removes a player row.
func (s *Store) DeletePlayer(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM players WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// AssignPlayersToClan sets (or clears, when clanID is nil) the clan of the
// given players. Returns the number of players updated.
func (s *Store) AssignPlayersToClan(ctx context.Context, playerIDs []int64, clanID *int64) (int, error) {
	if len(playerIDs) == 0 {
		return 0, nil
	}
	if clanID != nil {
		if _, err := s.GetClanByID(ctx, *clanID); err != nil {
			return 0, err
		}
	}

	placeholders := strings.Repeat("?,", len(playerIDs))
	placeholders = placeholders[:len(placeholders)-1]
	args := []any{clanID, formatTimestamp(time.Now())}
	for _, id := range playerIDs {
		args = append(args, id)
	}

	result, err := s.db.ExecContext(ctx,
		"UPDATE players SET clan_id = ?, updated_at = ? WHERE id IN ("+placeholders+")", args...)
	if err != nil {
		return 0, err
	}
	n, _ := result.RowsAffected()
	return int(n), nil
}

// ClanRefsByPlayerName returns a lookup from player name to resolved clan
// identity, for decorating killfeed actor names. Players without a clan
// are omitted.
func (s *Store) ClanRefsByPlayerName(ctx context.Context) (map[string]domain.ClanRef, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.name, c.id, c.name, c.tag, c.color
		FROM players p
		JOIN clans c ON p.clan_id = c.id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	refs := make(map[string]domain.ClanRef)
	for rows.Next() {
		var player string
		var ref domain.ClanRef
		if err := rows.Scan(&player, &ref.ID, &ref.Name, &ref.Tag, &ref.Color); err != nil {
			return nil, err
		}
		refs[player] = ref
	}
	return refs, rows.Err()
}

// SyncPlayers creates player rows for every distinct killfeed actor name
// that is not an NPC and does not already exist.
func (s *Store) SyncPlayers(ctx context.Context, isNPC func(string) bool) (*domain.SyncResult, error) {
	names, err := s.DistinctActorNames(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, "SELECT name FROM players")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	existing := make(map[string]struct{})
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		existing[n] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := &domain.SyncResult{}
	now := formatTimestamp(time.Now())
	for _, name := range names {
		if isNPC(name) {
			continue
		}
		result.Total++
		if _, ok := existing[name]; ok {
			result.Existing++
			continue
		}
		if _, err := s.db.ExecContext(ctx, `
			INSERT INTO players (name, created_at, updated_at) VALUES (?, ?, ?)
		`, name, now, now); err != nil {
			return nil, fmt.Errorf("creating player %q: %w", name, err)
		}
		result.Created++
	}
	return result, nil
}
