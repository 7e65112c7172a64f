// Package memory is the process-local backend used when no database DSN is
// configured. All repositories share one Store guarded by a RWMutex; WithTx
// holds the write lock for the whole callback and restores a snapshot when
// the callback fails, which gives the same all-or-nothing behavior as a
// PostgreSQL transaction.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/dmitrijs2005/healthcal/internal/models"
)

type row[T any] struct {
	v   T
	seq uint64
}

type data struct {
	events  map[string]row[models.Event]
	records map[string]row[models.HealthRecord]
	diaries map[string]row[models.DiaryEntry]
	seq     uint64
}

func newData() *data {
	return &data{
		events:  make(map[string]row[models.Event]),
		records: make(map[string]row[models.HealthRecord]),
		diaries: make(map[string]row[models.DiaryEntry]),
	}
}

func (d *data) next() uint64 {
	d.seq++
	return d.seq
}

func (d *data) clone() *data {
	c := &data{
		events:  make(map[string]row[models.Event], len(d.events)),
		records: make(map[string]row[models.HealthRecord], len(d.records)),
		diaries: make(map[string]row[models.DiaryEntry], len(d.diaries)),
		seq:     d.seq,
	}
	for k, r := range d.events {
		c.events[k] = row[models.Event]{v: r.v.Clone(), seq: r.seq}
	}
	for k, r := range d.records {
		c.records[k] = row[models.HealthRecord]{v: r.v.Clone(), seq: r.seq}
	}
	for k, r := range d.diaries {
		c.diaries[k] = row[models.DiaryEntry]{v: r.v.Clone(), seq: r.seq}
	}
	return c
}

// Store holds every user's entities in memory.
type Store struct {
	mu sync.RWMutex
	d  *data
}

func NewStore() *Store {
	return &Store{d: newData()}
}

// handle routes repository calls either through the store lock or, inside
// WithTx, straight to the data the transaction already holds.
type handle struct {
	s    *Store
	inTx bool
}

func (h handle) read(ctx context.Context, fn func(d *data) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !h.inTx {
		h.s.mu.RLock()
		defer h.s.mu.RUnlock()
	}
	return fn(h.s.d)
}

func (h handle) write(ctx context.Context, fn func(d *data) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !h.inTx {
		h.s.mu.Lock()
		defer h.s.mu.Unlock()
	}
	return fn(h.s.d)
}

// Tx exposes the repositories bound to a running WithTx callback.
type Tx struct {
	h handle
}

func (t *Tx) Events() *EventRepository { return &EventRepository{t.h} }

func (t *Tx) Records() *RecordRepository { return &RecordRepository{t.h} }

func (t *Tx) Diaries() *DiaryRepository { return &DiaryRepository{t.h} }

// Events returns a repository that locks per call.
func (s *Store) Events() *EventRepository { return &EventRepository{handle{s: s}} }

func (s *Store) Records() *RecordRepository { return &RecordRepository{handle{s: s}} }

func (s *Store) Diaries() *DiaryRepository { return &DiaryRepository{handle{s: s}} }

// WithTx runs fn under the store's write lock. Any error or panic from fn
// discards every change fn made.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, tx *Tx) error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.d.clone()
	defer func() {
		if p := recover(); p != nil {
			s.d = snapshot
			panic(p)
		}
		if err != nil {
			s.d = snapshot
		}
	}()

	return fn(ctx, &Tx{h: handle{s: s, inTx: true}})
}

// sorted returns the rows of one user ordered by less, ties by insertion.
func sorted[T any](rows map[string]row[T], keep func(T) bool, clone func(T) T, less func(a, b T) int) []T {
	picked := make([]row[T], 0)
	for _, r := range rows {
		if keep(r.v) {
			picked = append(picked, r)
		}
	}
	sort.Slice(picked, func(i, j int) bool {
		if c := less(picked[i].v, picked[j].v); c != 0 {
			return c < 0
		}
		return picked[i].seq < picked[j].seq
	})
	out := make([]T, 0, len(picked))
	for _, r := range picked {
		out = append(out, clone(r.v))
	}
	return out
}
