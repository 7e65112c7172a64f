// Package repomanager wires the repositories to a storage backend:
// PostgreSQL (with goose migrations) or the in-memory store.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/healthcal/internal/dbx"
	"github.com/dmitrijs2005/healthcal/internal/migrations"
	"github.com/dmitrijs2005/healthcal/internal/repositories/diaries"
	"github.com/dmitrijs2005/healthcal/internal/repositories/events"
	"github.com/dmitrijs2005/healthcal/internal/repositories/records"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

type pgRepos struct {
	db  dbx.DBTX
	loc *time.Location
}

func (r pgRepos) Events() events.Repository { return events.NewPostgresRepository(r.db) }

func (r pgRepos) Records() records.Repository { return records.NewPostgresRepository(r.db, r.loc) }

func (r pgRepos) Diaries() diaries.Repository { return diaries.NewPostgresRepository(r.db) }

// PostgresManager serves PostgreSQL-backed repositories.
type PostgresManager struct {
	pgRepos
	conn *sql.DB
}

// sqlOpen is a seam for tests.
var sqlOpen = sql.Open

// NewPostgresManager opens dsn with the pgx driver and checks connectivity.
// Health record days are rebuilt in loc.
func NewPostgresManager(ctx context.Context, dsn string, loc *time.Location) (*PostgresManager, error) {
	conn, err := sqlOpen("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return newPostgresManager(conn, loc), nil
}

func newPostgresManager(conn *sql.DB, loc *time.Location) *PostgresManager {
	return &PostgresManager{pgRepos: pgRepos{db: conn, loc: loc}, conn: conn}
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded schema migrations.
func (m *PostgresManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, m.conn, "."); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// WithTx runs fn against repositories bound to one transaction.
func (m *PostgresManager) WithTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error {
	return dbx.WithTx(ctx, m.conn, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, pgRepos{db: tx, loc: m.loc})
	})
}

func (m *PostgresManager) Close() error {
	return m.conn.Close()
}
