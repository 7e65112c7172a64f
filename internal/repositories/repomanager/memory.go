package repomanager

import (
	"context"

	"github.com/dmitrijs2005/healthcal/internal/repositories/diaries"
	"github.com/dmitrijs2005/healthcal/internal/repositories/events"
	"github.com/dmitrijs2005/healthcal/internal/repositories/memory"
	"github.com/dmitrijs2005/healthcal/internal/repositories/records"
)

// MemoryManager serves repositories from a memory.Store.
type MemoryManager struct {
	store *memory.Store
}

func NewMemoryManager(store *memory.Store) *MemoryManager {
	if store == nil {
		store = memory.NewStore()
	}
	return &MemoryManager{store: store}
}

func (m *MemoryManager) Events() events.Repository { return m.store.Events() }

func (m *MemoryManager) Records() records.Repository { return m.store.Records() }

func (m *MemoryManager) Diaries() diaries.Repository { return m.store.Diaries() }

// RunMigrations is a no-op: the store has no schema.
func (m *MemoryManager) RunMigrations(context.Context) error { return nil }

func (m *MemoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error {
	return m.store.WithTx(ctx, func(ctx context.Context, tx *memory.Tx) error {
		return fn(ctx, memTx{tx})
	})
}

func (m *MemoryManager) Close() error { return nil }

type memTx struct {
	tx *memory.Tx
}

func (t memTx) Events() events.Repository { return t.tx.Events() }

func (t memTx) Records() records.Repository { return t.tx.Records() }

func (t memTx) Diaries() diaries.Repository { return t.tx.Diaries() }
