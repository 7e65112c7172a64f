package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/dmitrijs2005/healthcal/internal/common"
	"github.com/dmitrijs2005/healthcal/internal/logging"
	"github.com/dmitrijs2005/healthcal/internal/models"
	"github.com/dmitrijs2005/healthcal/internal/recurrence"
	"github.com/dmitrijs2005/healthcal/internal/repositories/events"
	"github.com/dmitrijs2005/healthcal/internal/repositories/memory"
	"github.com/dmitrijs2005/healthcal/internal/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

var fixed = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%02d", n)
	}
}

func newEventService(t *testing.T, max int) (*EventService, *repomanager.MemoryManager) {
	t.Helper()
	mgr := repomanager.NewMemoryManager(memory.NewStore())
	svc := NewEventService(mgr, recurrence.Expander{MaxOccurrences: max, NewID: seqIDs()}, logging.Nop())
	svc.now = func() time.Time { return fixed }
	return svc, mgr
}

func physio() models.Event {
	return models.Event{
		UserID: "u1", Title: " Physio ", Date: "2024-03-04", Category: models.CategoryExercise,
		StartTime: "09:00", EndTime: "10:00", Repeat: models.RepeatWeekly, RepeatEndDate: "2024-03-25",
		Tags: []string{"knee", " knee", ""},
	}
}

func TestEventService_CreateSeries(t *testing.T) {
	svc, _ := newEventService(t, 0)
	ctx := context.Background()

	series, err := svc.Create(ctx, physio())
	require.NoError(t, err)
	require.Len(t, series, 4)

	stored, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, stored, 4)

	gid, ok := stored[0].Group.GroupID()
	require.True(t, ok)
	for i, e := range stored {
		assert.True(t, e.Group.In(gid))
		assert.Equal(t, "Physio", e.Title)
		assert.Equal(t, []string{"knee"}, e.Tags)
		assert.Equal(t, "2024-03-25", e.RepeatEndDate)
		assert.Equal(t, fixed, e.CreatedAt)
		assert.Equal(t, []string{"2024-03-04", "2024-03-11", "2024-03-18", "2024-03-25"}[i], e.Date)
	}
}

func TestEventService_CreateRejectsInvalidAndOversized(t *testing.T) {
	svc, _ := newEventService(t, 10)
	ctx := context.Background()

	bad := physio()
	bad.Title = "  "
	_, err := svc.Create(ctx, bad)
	assert.ErrorIs(t, err, common.ErrValidation)

	long := physio()
	long.Repeat = models.RepeatDaily
	long.RepeatEndDate = "2024-12-31"
	_, err = svc.Create(ctx, long)
	assert.ErrorIs(t, err, common.ErrValidation)

	before := physio()
	before.RepeatEndDate = "2024-03-01"
	_, err = svc.Create(ctx, before)
	assert.ErrorIs(t, err, common.ErrValidation)

	list, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

// failingEvents fails the n-th Create inside a transaction.
type failingEvents struct {
	events.Repository
	calls, failAt int
}

func (f *failingEvents) Create(ctx context.Context, e *models.Event) error {
	f.calls++
	if f.calls == f.failAt {
		return errors.New("disk full")
	}
	return f.Repository.Create(ctx, e)
}

type failingTx struct {
	repomanager.Repositories
	events *failingEvents
}

func (f failingTx) Events() events.Repository { return f.events }

type failingManager struct {
	*repomanager.MemoryManager
	failAt int
}

func (m *failingManager) WithTx(ctx context.Context, fn func(context.Context, repomanager.Repositories) error) error {
	return m.MemoryManager.WithTx(ctx, func(ctx context.Context, repos repomanager.Repositories) error {
		return fn(ctx, failingTx{Repositories: repos, events: &failingEvents{Repository: repos.Events(), failAt: m.failAt}})
	})
}

func TestEventService_CreateIsAllOrNothing(t *testing.T) {
	mgr := &failingManager{MemoryManager: repomanager.NewMemoryManager(nil), failAt: 3}
	svc := NewEventService(mgr, recurrence.Expander{}, logging.Nop())
	ctx := context.Background()

	_, err := svc.Create(ctx, physio())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	list, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, list, "no occurrence of a failed series may persist")
}

func TestEventService_UpdateSingleDetaches(t *testing.T) {
	svc, _ := newEventService(t, 0)
	ctx := context.Background()

	series, err := svc.Create(ctx, physio())
	require.NoError(t, err)
	gid, _ := series[0].Group.GroupID()

	updated, err := svc.UpdateSingle(ctx, "u1", series[1].ID, models.EventPatch{Title: ptr("Physio (moved)"), Date: ptr("2024-03-12")})
	require.NoError(t, err)
	assert.Equal(t, models.RepeatNone, updated.Repeat)
	assert.False(t, updated.Group.Grouped())
	assert.Equal(t, "2024-03-12", updated.Date)

	list, _ := svc.List(ctx, "u1")
	members := 0
	for _, e := range list {
		if e.Group.In(gid) {
			members++
			assert.Equal(t, "Physio", e.Title)
		}
	}
	assert.Equal(t, 3, members)

	// a later group edit no longer reaches the detached occurrence
	_, err = svc.UpdateGroup(ctx, "u1", gid, models.EventPatch{Category: ptr(models.CategoryMedical)})
	require.NoError(t, err)
	got, err := svc.Get(ctx, "u1", series[1].ID)
	require.NoError(t, err)
	assert.Equal(t, models.CategoryExercise, got.Category)
}

func TestEventService_UpdateGroup(t *testing.T) {
	svc, _ := newEventService(t, 0)
	ctx := context.Background()
	series, err := svc.Create(ctx, physio())
	require.NoError(t, err)
	gid, _ := series[0].Group.GroupID()

	updated, err := svc.UpdateGroup(ctx, "u1", gid, models.EventPatch{IsAllDay: ptr(true), Date: ptr("2030-01-01")})
	require.NoError(t, err)
	require.Len(t, updated, 4)
	for i, e := range updated {
		assert.True(t, e.IsAllDay)
		assert.Empty(t, e.StartTime)
		assert.Equal(t, series[i].Date, e.Date, "group edits never move dates")
		assert.Equal(t, models.RepeatWeekly, e.Repeat)
	}

	_, err = svc.UpdateGroup(ctx, "u1", gid, models.EventPatch{StartTime: ptr("25:00"), IsAllDay: ptr(false)})
	assert.ErrorIs(t, err, common.ErrValidation)
	list, _ := svc.List(ctx, "u1")
	for _, e := range list {
		assert.True(t, e.IsAllDay, "a rejected group patch changes nothing")
	}

	_, err = svc.UpdateGroup(ctx, "u1", "nope", models.EventPatch{Title: ptr("x")})
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestEventService_UpdateGroupInconsistent(t *testing.T) {
	svc, mgr := newEventService(t, 0)
	ctx := context.Background()

	broken := []models.Event{
		{ID: "a", UserID: "u1", Title: "x", Date: "2024-03-01", Category: models.CategoryOther, IsAllDay: true, Repeat: models.RepeatDaily, Group: models.MemberOf("g")},
		{ID: "b", UserID: "u1", Title: "x", Date: "2024-03-02", Category: models.CategoryOther, IsAllDay: true, Repeat: models.RepeatNone, Group: models.MemberOf("g")},
	}
	for i := range broken {
		require.NoError(t, mgr.Events().Create(ctx, &broken[i]))
	}

	_, err := svc.UpdateGroup(ctx, "u1", "g", models.EventPatch{Title: ptr("y")})
	assert.ErrorIs(t, err, common.ErrInconsistentState)
}

func TestEventService_Delete(t *testing.T) {
	svc, _ := newEventService(t, 0)
	ctx := context.Background()
	series, err := svc.Create(ctx, physio())
	require.NoError(t, err)
	gid, _ := series[0].Group.GroupID()

	require.NoError(t, svc.DeleteSingle(ctx, "u1", series[0].ID))
	assert.ErrorIs(t, svc.DeleteSingle(ctx, "u1", series[0].ID), common.ErrNotFound)

	n, err := svc.DeleteGroup(ctx, "u1", gid)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	list, _ := svc.List(ctx, "u1")
	assert.Empty(t, list)

	_, err = svc.DeleteGroup(ctx, "u1", gid)
	assert.ErrorIs(t, err, common.ErrNotFound)
}
