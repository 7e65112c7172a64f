// Package diaries stores daily journal entries in PostgreSQL.
package diaries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/healthcal/internal/common"
	"github.com/dmitrijs2005/healthcal/internal/dbx"
	"github.com/dmitrijs2005/healthcal/internal/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectColumns = `id, user_id, to_char(entry_date, 'YYYY-MM-DD'), mood, content, tags, activities, photos,
	created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (models.DiaryEntry, error) {
	var (
		d                        models.DiaryEntry
		mood                     string
		tags, activities, photos dbx.JSONStrings
	)
	if err := row.Scan(&d.ID, &d.UserID, &d.Date, &mood, &d.Content, &tags, &activities, &photos,
		&d.CreatedAt, &d.UpdatedAt); err != nil {
		return models.DiaryEntry{}, err
	}
	d.Mood = models.Mood(mood)
	d.Tags, d.Activities, d.Photos = tags, activities, photos
	return d, nil
}

func (r *PostgresRepository) Create(ctx context.Context, d *models.DiaryEntry) error {
	query := `
		INSERT INTO diary_entries (id, user_id, entry_date, mood, content, tags, activities, photos, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.ExecContext(ctx, query, d.ID, d.UserID, d.Date, string(d.Mood), d.Content,
		dbx.JSONStrings(d.Tags), dbx.JSONStrings(d.Activities), dbx.JSONStrings(d.Photos), d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, d *models.DiaryEntry) error {
	query := `
		UPDATE diary_entries SET mood = $3, content = $4, tags = $5, activities = $6, photos = $7, updated_at = $8
		WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query, d.ID, d.UserID, string(d.Mood), d.Content,
		dbx.JSONStrings(d.Tags), dbx.JSONStrings(d.Activities), dbx.JSONStrings(d.Photos), d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOne(res, d.ID)
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM diary_entries WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOne(res, id)
}

// FindByDate returns the most recently updated entry of the day.
func (r *PostgresRepository) FindByDate(ctx context.Context, userID, date string) (*models.DiaryEntry, error) {
	query := `SELECT ` + selectColumns + ` FROM diary_entries
		WHERE user_id = $1 AND entry_date = $2 ORDER BY updated_at DESC LIMIT 1`

	d, err := scanEntry(r.db.QueryRowContext(ctx, query, userID, date))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("diary %s: %w", date, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &d, nil
}

// ListByUser orders entries so that, per day, the last written comes last.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]models.DiaryEntry, error) {
	query := `SELECT ` + selectColumns + ` FROM diary_entries WHERE user_id = $1 ORDER BY entry_date, updated_at, id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	list, err := dbx.Collect(rows, func(rows *sql.Rows) (models.DiaryEntry, error) { return scanEntry(rows) })
	if err != nil {
		return nil, fmt.Errorf("scan diary entries: %w", err)
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
		return fmt.Errorf("diary entry %s: %w", id, common.ErrNotFound)
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}
