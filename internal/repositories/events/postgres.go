// Package events stores calendar events in PostgreSQL.
package events

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/healthcal/internal/common"
	"github.com/dmitrijs2005/healthcal/internal/dbx"
	"github.com/dmitrijs2005/healthcal/internal/models"
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectColumns = `id, user_id, title, description, to_char(event_date, 'YYYY-MM-DD'), category,
	is_all_day, start_time, end_time, repeat, to_char(repeat_end_date, 'YYYY-MM-DD'), group_id, tags,
	created_at, updated_at`

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func groupArg(m models.Membership) any {
	if id, ok := m.GroupID(); ok {
		return id
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEvent(row scanner) (models.Event, error) {
	var (
		e       models.Event
		repeat  string
		endDate sql.NullString
		groupID sql.NullString
		tags    dbx.JSONStrings
	)
	if err := row.Scan(
		&e.ID, &e.UserID, &e.Title, &e.Description, &e.Date, &e.Category,
		&e.IsAllDay, &e.StartTime, &e.EndTime, &repeat, &endDate, &groupID, &tags,
		&e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return models.Event{}, err
	}
	e.Repeat = models.Repeat(repeat)
	e.RepeatEndDate = endDate.String
	if groupID.Valid {
		e.Group = models.MemberOf(groupID.String)
	}
	e.Tags = tags
	return e, nil
}

// Create inserts e.
func (r *PostgresRepository) Create(ctx context.Context, e *models.Event) error {
	query := `
		INSERT INTO events (id, user_id, title, description, event_date, category, is_all_day,
			start_time, end_time, repeat, repeat_end_date, group_id, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := r.db.ExecContext(ctx, query,
		e.ID, e.UserID, e.Title, e.Description, e.Date, string(e.Category), e.IsAllDay,
		e.StartTime, e.EndTime, string(e.Repeat), nullable(e.RepeatEndDate), groupArg(e.Group),
		dbx.JSONStrings(e.Tags), e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Update overwrites every mutable column of e.
func (r *PostgresRepository) Update(ctx context.Context, e *models.Event) error {
	query := `
		UPDATE events SET title = $3, description = $4, event_date = $5, category = $6,
			is_all_day = $7, start_time = $8, end_time = $9, repeat = $10, repeat_end_date = $11,
			group_id = $12, tags = $13, updated_at = $14
		WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query,
		e.ID, e.UserID, e.Title, e.Description, e.Date, string(e.Category), e.IsAllDay,
		e.StartTime, e.EndTime, string(e.Repeat), nullable(e.RepeatEndDate), groupArg(e.Group),
		dbx.JSONStrings(e.Tags), e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOne(res, e.ID)
}

// Delete removes one event.
func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOne(res, id)
}

// Get loads one event of userID.
func (r *PostgresRepository) Get(ctx context.Context, userID, id string) (*models.Event, error) {
	query := `SELECT ` + selectColumns + ` FROM events WHERE id = $1 AND user_id = $2`

	e, err := scanEvent(r.db.QueryRowContext(ctx, query, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("event %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &e, nil
}

// ListByUser returns every event of userID ordered by date.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]models.Event, error) {
	query := `SELECT ` + selectColumns + ` FROM events WHERE user_id = $1 ORDER BY event_date, start_time, id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	list, err := dbx.Collect(rows, func(rows *sql.Rows) (models.Event, error) { return scanEvent(rows) })
	if err != nil {
		return nil, fmt.Errorf("scan events: %w", err)
	}
	return list, nil
}

func expectOne(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return fmt.Errorf("event %s: %w", id, common.ErrNotFound)
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}
