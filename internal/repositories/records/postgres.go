// Package records stores health measurements in PostgreSQL.
package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/healthcal/internal/common"
	"github.com/dmitrijs2005/healthcal/internal/datekey"
	"github.com/dmitrijs2005/healthcal/internal/dbx"
	"github.com/dmitrijs2005/healthcal/internal/models"
)

// PostgresRepository keeps only the day of a record (record_date DATE) and
// rebuilds HealthRecord.Date as midnight in loc on read, so the day survives
// the round trip regardless of the server's time zone.
type PostgresRepository struct {
	db  dbx.DBTX
	loc *time.Location
}

// NewPostgresRepository binds the repository to db; a nil loc means time.Local.
func NewPostgresRepository(db dbx.DBTX, loc *time.Location) *PostgresRepository {
	if loc == nil {
		loc = time.Local
	}
	return &PostgresRepository{db: db, loc: loc}
}

const selectColumns = `id, user_id, to_char(record_date, 'YYYY-MM-DD'), weight, systolic, diastolic,
	heart_rate, blood_sugar, steps, calories, walking_time, notes, created_at`

func floatArg(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func intArg(v *int) any {
	if v == nil {
		return nil
	}
	return int64(*v)
}

// metricArgs flattens the optional measurements in column order.
func metricArgs(r *models.HealthRecord) []any {
	var sys, dia, hr any
	if bp := r.BloodPressure; bp != nil {
		sys, dia, hr = int64(bp.Systolic), int64(bp.Diastolic), intArg(bp.HeartRate)
	}
	return []any{floatArg(r.Weight), sys, dia, hr, floatArg(r.BloodSugar), intArg(r.Steps), intArg(r.Calories), intArg(r.WalkingTime)}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

type scanner interface {
	Scan(dest ...any) error
}

func (r *PostgresRepository) scanRecord(row scanner) (models.HealthRecord, error) {
	var (
		rec                                models.HealthRecord
		day                                string
		weight, sugar                      sql.NullFloat64
		sys, dia, hr, steps, kcal, walking sql.NullInt64
	)
	if err := row.Scan(&rec.ID, &rec.UserID, &day, &weight, &sys, &dia, &hr, &sugar, &steps, &kcal, &walking,
		&rec.Notes, &rec.CreatedAt); err != nil {
		return models.HealthRecord{}, err
	}
	date, err := datekey.Parse(day, r.loc)
	if err != nil {
		return models.HealthRecord{}, err
	}
	rec.Date = date
	rec.Weight = floatPtr(weight)
	rec.BloodSugar = floatPtr(sugar)
	if sys.Valid && dia.Valid {
		rec.BloodPressure = &models.BloodPressure{Systolic: int(sys.Int64), Diastolic: int(dia.Int64), HeartRate: intPtr(hr)}
	}
	rec.Steps = intPtr(steps)
	rec.Calories = intPtr(kcal)
	rec.WalkingTime = intPtr(walking)
	return rec, nil
}

// Create inserts rec.
func (r *PostgresRepository) Create(ctx context.Context, rec *models.HealthRecord) error {
	query := `
		INSERT INTO health_records (id, user_id, record_date, weight, systolic, diastolic, heart_rate,
			blood_sugar, steps, calories, walking_time, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	args := append([]any{rec.ID, rec.UserID, datekey.ToDateKey(rec.Date)}, metricArgs(rec)...)
	args = append(args, rec.Notes, rec.CreatedAt)
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Update overwrites the day, metrics and notes of rec.
func (r *PostgresRepository) Update(ctx context.Context, rec *models.HealthRecord) error {
	query := `
		UPDATE health_records SET record_date = $3, weight = $4, systolic = $5, diastolic = $6,
			heart_rate = $7, blood_sugar = $8, steps = $9, calories = $10, walking_time = $11, notes = $12
		WHERE id = $1 AND user_id = $2`

	args := append([]any{rec.ID, rec.UserID, datekey.ToDateKey(rec.Date)}, metricArgs(rec)...)
	args = append(args, rec.Notes)
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOne(res, rec.ID)
}

// Delete removes one record.
func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM health_records WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOne(res, id)
}

// Get loads one record of userID.
func (r *PostgresRepository) Get(ctx context.Context, userID, id string) (*models.HealthRecord, error) {
	query := `SELECT ` + selectColumns + ` FROM health_records WHERE id = $1 AND user_id = $2`

	rec, err := r.scanRecord(r.db.QueryRowContext(ctx, query, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("record %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &rec, nil
}

// ListByUser returns the records of userID in insertion order per day.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]models.HealthRecord, error) {
	query := `SELECT ` + selectColumns + ` FROM health_records WHERE user_id = $1 ORDER BY record_date, created_at, id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	list, err := dbx.Collect(rows, func(rows *sql.Rows) (models.HealthRecord, error) { return r.scanRecord(rows) })
	if err != nil {
		return nil, fmt.Errorf("scan records: %w", err)
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
		return fmt.Errorf("record %s: %w", id, common.ErrNotFound)
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}
