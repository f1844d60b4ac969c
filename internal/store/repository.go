package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/uaplan/eventradar/internal/model"
)

// ErrNotFound is returned when a requested event does not exist.
var ErrNotFound = errors.New("event not found")

// Repository handles persistence for discovered events. The events.url
// column carries a unique constraint, so Upsert doubles as the
// last-writer-wins merge point for re-discovered events.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const eventColumns = `id, title, event_date, event_time, organizer, url,
	registration_url, category, is_online, audience, summary, created_at, updated_at`

// Upsert inserts a validated event, or refreshes the existing row when
// the URL is already known. The original id and created_at survive an
// update.
func (r *Repository) Upsert(ctx context.Context, ev model.CandidateEvent) (model.StoredEvent, error) {
	now := time.Now().UTC()
	row := r.db.QueryRow(ctx,
		`INSERT INTO events (id, title, event_date, event_time, organizer, url,
		                     registration_url, category, is_online, audience, summary,
		                     created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)
		 ON CONFLICT (url) DO UPDATE SET
		   title            = EXCLUDED.title,
		   event_date       = EXCLUDED.event_date,
		   event_time       = EXCLUDED.event_time,
		   organizer        = EXCLUDED.organizer,
		   registration_url = EXCLUDED.registration_url,
		   category         = EXCLUDED.category,
		   is_online        = EXCLUDED.is_online,
		   audience         = EXCLUDED.audience,
		   summary          = EXCLUDED.summary,
		   updated_at       = EXCLUDED.updated_at
		 RETURNING `+eventColumns,
		uuid.New().String(), ev.Title, ev.Date.Time(), ev.Time, ev.Organizer, ev.URL,
		ev.RegistrationURL, string(ev.Category), ev.Online, ev.Audience, ev.Summary, now,
	)
	stored, err := scanEvent(row)
	if err != nil {
		return model.StoredEvent{}, fmt.Errorf("upsert event: %w", err)
	}
	return stored, nil
}

// Filter narrows a List call. Zero values mean "no constraint".
type Filter struct {
	From        model.Date
	To          model.Date
	Category    model.Category
	IncludePast bool
}

// List returns events ordered by date ascending. Unless IncludePast is
// set, events dated before From (or before today when From is zero) are
// omitted.
func (r *Repository) List(ctx context.Context, f Filter) ([]model.StoredEvent, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE 1=1`
	var args []any

	from := f.From
	if from.IsZero() && !f.IncludePast {
		from = model.DateOf(time.Now())
	}
	if !from.IsZero() {
		args = append(args, from.Time())
		query += fmt.Sprintf(" AND event_date >= $%d", len(args))
	}
	if !f.To.IsZero() {
		args = append(args, f.To.Time())
		query += fmt.Sprintf(" AND event_date <= $%d", len(args))
	}
	if f.Category != "" {
		args = append(args, string(f.Category))
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	query += " ORDER BY event_date ASC, title ASC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []model.StoredEvent
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// Snapshot returns every stored event, past ones included. The
// validation pipeline diffs candidates against this full set.
func (r *Repository) Snapshot(ctx context.Context) ([]model.StoredEvent, error) {
	return r.List(ctx, Filter{IncludePast: true})
}

// GetByID returns a single event or ErrNotFound.
func (r *Repository) GetByID(ctx context.Context, id string) (model.StoredEvent, error) {
	row := r.db.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id)
	ev, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.StoredEvent{}, ErrNotFound
		}
		return model.StoredEvent{}, fmt.Errorf("get event: %w", err)
	}
	return ev, nil
}

// Delete removes an event by id. Deleting an absent id returns
// ErrNotFound.
func (r *Repository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanEvent(row pgx.Row) (model.StoredEvent, error) {
	var ev model.StoredEvent
	var date time.Time
	var category string
	err := row.Scan(&ev.ID, &ev.Title, &date, &ev.Time, &ev.Organizer, &ev.URL,
		&ev.RegistrationURL, &category, &ev.Online, &ev.Audience, &ev.Summary,
		&ev.CreatedAt, &ev.UpdatedAt)
	if err != nil {
		return model.StoredEvent{}, err
	}
	ev.Date = model.DateOf(date)
	ev.Category = model.ParseCategory(category)
	return ev, nil
}
