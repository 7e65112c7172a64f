package eventgroup

import (
	"fmt"
	"testing"
	"time"

	"github.com/dmitrijs2005/healthcal/internal/common"
	"github.com/dmitrijs2005/healthcal/internal/models"
	"github.com/dmitrijs2005/healthcal/internal/recurrence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func weeklyGroup(t *testing.T) []models.Event {
	t.Helper()
	n := 0
	x := recurrence.Expander{NewID: func() string {
		n++
		return fmt.Sprintf("w-%d", n)
	}}
	out, err := x.Expand(models.Event{
		UserID:        "u1",
		Title:         "Physio",
		Date:          "2024-01-01",
		Category:      models.CategoryExercise,
		StartTime:     "18:00",
		EndTime:       "19:00",
		Repeat:        models.RepeatWeekly,
		RepeatEndDate: "2024-01-15",
	})
	require.NoError(t, err)
	require.Len(t, out, 3)
	return out
}

func collection(t *testing.T) []models.Event {
	group := weeklyGroup(t)
	other := models.Event{ID: "solo", UserID: "u1", Title: "Dentist", Date: "2024-01-03", Category: models.CategoryMedical, IsAllDay: true, Repeat: models.RepeatNone}
	return append(group, other)
}

func TestUpdateSingle_DetachesOnlyTarget(t *testing.T) {
	events := collection(t)
	occ2 := events[1]
	gid, _ := occ2.Group.GroupID()

	updated, err := UpdateSingle(events, occ2.ID, models.EventPatch{Title: ptr("X")}, now)
	require.NoError(t, err)

	assert.Equal(t, "X", updated.Title)
	assert.Equal(t, models.RepeatNone, updated.Repeat)
	assert.False(t, updated.Group.Grouped())
	assert.Empty(t, updated.RepeatEndDate)
	assert.Equal(t, now, updated.UpdatedAt)
	assert.Equal(t, occ2.Date, updated.Date)

	after := Apply(events, []models.Event{updated}, nil)
	assert.Equal(t, events[0], after[0])
	assert.Equal(t, events[2], after[2])
	assert.Equal(t, events[3], after[3])
	assert.True(t, after[0].Group.In(gid))
	assert.True(t, after[2].Group.In(gid))
	assert.Len(t, Members(after, gid), 2)

	assert.Equal(t, "Physio", events[1].Title, "input collection untouched")
}

func TestUpdateSingle_EmptyPatchStillDetaches(t *testing.T) {
	events := collection(t)
	updated, err := UpdateSingle(events, events[0].ID, models.EventPatch{}, now)
	require.NoError(t, err)
	assert.False(t, updated.Group.Grouped())
	assert.Equal(t, models.RepeatNone, updated.Repeat)
}

func TestUpdateSingle_CanMoveDate(t *testing.T) {
	events := collection(t)
	updated, err := UpdateSingle(events, events[0].ID, models.EventPatch{Date: ptr("2024-01-02")}, now)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-02", updated.Date)
}

func TestUpdateSingle_Errors(t *testing.T) {
	events := collection(t)

	_, err := UpdateSingle(events, "missing", models.EventPatch{}, now)
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = UpdateSingle(events, events[0].ID, models.EventPatch{EndTime: ptr("17:00")}, now)
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = UpdateSingle(events, events[0].ID, models.EventPatch{Date: ptr("2024-13-01")}, now)
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestUpdateGroup_PatchesAllMembersKeepsRecurrence(t *testing.T) {
	events := collection(t)
	gid, _ := events[0].Group.GroupID()

	cat := models.CategoryMedical
	out, err := UpdateGroup(events, gid, models.EventPatch{Title: ptr("Rehab"), Category: &cat, Date: ptr("2030-01-01")}, now)
	require.NoError(t, err)
	require.Len(t, out, 3)

	for i, e := range out {
		assert.Equal(t, "Rehab", e.Title)
		assert.Equal(t, models.CategoryMedical, e.Category)
		assert.Equal(t, events[i].Date, e.Date, "group edits never move dates")
		assert.Equal(t, models.RepeatWeekly, e.Repeat)
		assert.True(t, e.Group.In(gid))
		assert.Equal(t, now, e.UpdatedAt)
	}
	assert.Equal(t, "Dentist", Apply(events, out, nil)[3].Title)
}

func TestUpdateGroup_AllOrNothingOnValidation(t *testing.T) {
	events := collection(t)
	gid, _ := events[0].Group.GroupID()

	out, err := UpdateGroup(events, gid, models.EventPatch{StartTime: ptr("25:00")}, now)
	assert.ErrorIs(t, err, common.ErrValidation)
	assert.Nil(t, out)
}

func TestUpdateGroup_NotFound(t *testing.T) {
	_, err := UpdateGroup(collection(t), "nope", models.EventPatch{}, now)
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = UpdateGroup(collection(t), "", models.EventPatch{}, now)
	assert.ErrorIs(t, err, common.ErrNotFound, "standalone events never match the empty group")
}

func TestUpdateGroup_InconsistentMember(t *testing.T) {
	events := collection(t)
	gid, _ := events[0].Group.GroupID()
	events[1].Repeat = models.RepeatNone

	_, err := UpdateGroup(events, gid, models.EventPatch{Title: ptr("x")}, now)
	assert.ErrorIs(t, err, common.ErrInconsistentState)
}

func TestCheckGroup(t *testing.T) {
	events := weeklyGroup(t)
	require.NoError(t, CheckGroup(events))
	require.NoError(t, CheckGroup(events[:1]), "a lone member is fine")
	require.NoError(t, CheckGroup(nil))

	mixed := append([]models.Event(nil), events...)
	mixed[2].Repeat = models.RepeatDaily
	assert.ErrorIs(t, CheckGroup(mixed), common.ErrInconsistentState)

	foreign := append([]models.Event(nil), events...)
	foreign[1].Group = models.MemberOf("other")
	assert.ErrorIs(t, CheckGroup(foreign), common.ErrInconsistentState)
}

func TestDeleteSingle(t *testing.T) {
	events := collection(t)

	id, err := DeleteSingle(events, events[1].ID)
	require.NoError(t, err)
	after := Apply(events, nil, []string{id})
	assert.Len(t, after, 3)
	for _, e := range after {
		assert.NotEqual(t, events[1].ID, e.ID)
	}

	_, err = DeleteSingle(events, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestDeleteGroup_RemovesAllAndOnlyMembers(t *testing.T) {
	events := collection(t)
	gid, _ := events[0].Group.GroupID()

	ids, err := DeleteGroup(events, gid)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{events[0].ID, events[1].ID, events[2].ID}, ids)

	after := Apply(events, nil, ids)
	require.Len(t, after, 1)
	assert.Equal(t, "solo", after[0].ID)
	assert.Empty(t, Members(after, gid))

	_, err = DeleteGroup(after, gid)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestDeleteGroup_SkipsDetachedOccurrence(t *testing.T) {
	events := collection(t)
	gid, _ := events[0].Group.GroupID()

	detached, err := UpdateSingle(events, events[1].ID, models.EventPatch{}, now)
	require.NoError(t, err)
	events = Apply(events, []models.Event{detached}, nil)

	ids, err := DeleteGroup(events, gid)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{events[0].ID, events[2].ID}, ids)
	assert.Len(t, Apply(events, nil, ids), 2)
}
