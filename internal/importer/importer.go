package importer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nereuvjr-br/kills-scum/internal/domain"
	"github.com/nereuvjr-br/kills-scum/internal/storage"
)

// Status is the per-record outcome of an import.
type Status string

const (
	StatusImported  Status = "imported"
	StatusDuplicate Status = "duplicate"
	StatusError     Status = "error"
)

// Outcome records what happened to one input row.
type Outcome struct {
	RowNumber  int    `json:"row_number"`
	ExternalID string `json:"id_discord"`
	Killer     string `json:"killer"`
	Victim     string `json:"victim"`
	Status     Status `json:"status"`
	Message    string `json:"message,omitempty"`
}

// Result aggregates a batch import. Outcomes keep input order.
type Result struct {
	BatchID    string    `json:"batch_id"`
	Total      int       `json:"total"`
	Imported   int       `json:"imported"`
	Duplicates int       `json:"duplicates"`
	Errors     int       `json:"errors"`
	Outcomes   []Outcome `json:"outcomes"`
}

// Pipeline drives a batch of killfeed records into the store. Submission
// is sequential; one bad row never aborts the batch. Imported kills are
// passed to the optional notify hook (live feed, metrics).
type Pipeline struct {
	store  *storage.Store
	notify func(domain.Kill)
}

// New creates an import pipeline. notify may be nil.
func New(store *storage.Store, notify func(domain.Kill)) *Pipeline {
	return &Pipeline{store: store, notify: notify}
}

// Run imports a parsed batch. Duplicates are detected first within the
// batch (first occurrence wins) using the pre-fetched set of stored
// external ids, then again by the store's uniqueness constraint at insert
// time - the pre-check is an optimization, the constraint is the truth.
func (p *Pipeline) Run(ctx context.Context, records []Record) (*Result, error) {
	existing, err := p.store.ExternalIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading existing external ids: %w", err)
	}

	result := &Result{
		BatchID:  uuid.NewString(),
		Total:    len(records),
		Outcomes: make([]Outcome, 0, len(records)),
	}
	seenInBatch := make(map[string]struct{}, len(records))

	for _, rec := range records {
		outcome := Outcome{
			RowNumber:  rec.RowNumber,
			ExternalID: rec.ExternalID,
			Killer:     rec.Killer,
			Victim:     rec.Victim,
		}

		switch {
		case rec.ExternalID == "":
			outcome.Status = StatusError
			outcome.Message = "missing idDiscord"
		case hasKey(existing, rec.ExternalID):
			outcome.Status = StatusDuplicate
			outcome.Message = "already in database"
		case hasKey(seenInBatch, rec.ExternalID):
			outcome.Status = StatusDuplicate
			outcome.Message = "duplicate within batch"
		default:
			seenInBatch[rec.ExternalID] = struct{}{}
			outcome.Status, outcome.Message = p.upload(ctx, rec)
		}

		switch outcome.Status {
		case StatusImported:
			result.Imported++
		case StatusDuplicate:
			result.Duplicates++
		case StatusError:
			result.Errors++
		}
		result.Outcomes = append(result.Outcomes, outcome)
	}

	return result, nil
}

// upload validates and inserts one record.
func (p *Pipeline) upload(ctx context.Context, rec Record) (Status, string) {
	kill, err := ToKill(rec)
	if err != nil {
		return StatusError, err.Error()
	}

	err = p.store.InsertKill(ctx, kill)
	if errors.Is(err, storage.ErrDuplicate) {
		return StatusDuplicate, "already in database"
	}
	if err != nil {
		return StatusError, err.Error()
	}

	if p.notify != nil {
		p.notify(*kill)
	}
	return StatusImported, ""
}

// ToKill converts a processed record into a storable kill event,
// normalizing the timestamp. Killer and victim are required.
func ToKill(rec Record) (*domain.Kill, error) {
	if rec.Killer == "" || rec.Victim == "" {
		return nil, fmt.Errorf("row %d: killer and victim are required", rec.RowNumber)
	}
	ts, err := NormalizeTimestamp(rec.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("row %d: invalid timestamp %q", rec.RowNumber, rec.Timestamp)
	}

	externalID := rec.ExternalID
	kill := &domain.Kill{
		Killer:    rec.Killer,
		Victim:    rec.Victim,
		Distance:  rec.Distance,
		Weapon:    rec.Weapon,
		Timestamp: ts,
	}
	if externalID != "" {
		kill.ExternalID = &externalID
	}
	return kill, nil
}

// Timestamp layouts seen in killfeed exports.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// NormalizeTimestamp parses an export timestamp into UTC.
func NormalizeTimestamp(raw string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp format")
}

func hasKey(set map[string]struct{}, key string) bool {
	_, ok := set[key]
	return ok
}
