package repomanager

import (
	"context"

	"github.com/dmitrijs2005/healthcal/internal/repositories/diaries"
	"github.com/dmitrijs2005/healthcal/internal/repositories/events"
	"github.com/dmitrijs2005/healthcal/internal/repositories/records"
)

// Repositories is one consistent view of the storage: either the shared
// handle or a single running transaction.
type Repositories interface {
	Events() events.Repository
	Records() records.Repository
	Diaries() diaries.Repository
}

// Manager vends repositories and runs multi-row mutations atomically.
type Manager interface {
	Repositories
	RunMigrations(ctx context.Context) error
	// WithTx commits only when fn returns nil.
	WithTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
	Close() error
}
