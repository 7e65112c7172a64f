// Package eventgroup applies edits and deletions to a user's events while
// keeping recurrence-group semantics: a single-occurrence edit detaches the
// occurrence for good, a group edit touches every member and nothing else.
//
// The functions are pure. They take the current collection and return the
// events to write or remove, leaving persistence (and its atomicity) to the
// caller.
package eventgroup

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/healthcal/internal/common"
	"github.com/dmitrijs2005/healthcal/internal/models"
)

// Find returns the event with id.
func Find(events []models.Event, id string) (models.Event, error) {
	for _, e := range events {
		if e.ID == id {
			return e, nil
		}
	}
	return models.Event{}, fmt.Errorf("event %s: %w", id, common.ErrNotFound)
}

// Members returns the events of group groupID in collection order.
func Members(events []models.Event, groupID string) []models.Event {
	var out []models.Event
	for _, e := range events {
		if e.Group.In(groupID) {
			out = append(out, e)
		}
	}
	return out
}

// UpdateSingle patches the event with id and detaches it from its group:
// Repeat becomes none and the membership standalone whatever the patch says.
// The patch may move the event to another date. Only the returned event
// changes; siblings keep their group.
func UpdateSingle(events []models.Event, id string, patch models.EventPatch, now time.Time) (models.Event, error) {
	target, err := Find(events, id)
	if err != nil {
		return models.Event{}, err
	}

	updated := target.Clone()
	patch.Apply(&updated, true)
	updated.Repeat = models.RepeatNone
	updated.RepeatEndDate = ""
	updated.Group = models.Standalone()
	updated.UpdatedAt = now

	if err := models.ValidateEvent(updated); err != nil {
		return models.Event{}, err
	}
	return updated, nil
}

// UpdateGroup patches every member of groupID. Dates, cadence and membership
// are left as they are. Every member is validated before any is returned.
func UpdateGroup(events []models.Event, groupID string, patch models.EventPatch, now time.Time) ([]models.Event, error) {
	members := Members(events, groupID)
	if len(members) == 0 {
		return nil, fmt.Errorf("group %s: %w", groupID, common.ErrNotFound)
	}
	if err := CheckGroup(members); err != nil {
		return nil, err
	}

	out := make([]models.Event, 0, len(members))
	for _, m := range members {
		updated := m.Clone()
		patch.Apply(&updated, false)
		updated.UpdatedAt = now
		if err := models.ValidateEvent(updated); err != nil {
			return nil, err
		}
		out = append(out, updated)
	}
	return out, nil
}

// DeleteSingle returns the id to remove, or ErrNotFound.
func DeleteSingle(events []models.Event, id string) (string, error) {
	if _, err := Find(events, id); err != nil {
		return "", err
	}
	return id, nil
}

// DeleteGroup returns the ids of every member of groupID, or ErrNotFound
// when the group has no members.
func DeleteGroup(events []models.Event, groupID string) ([]string, error) {
	members := Members(events, groupID)
	if len(members) == 0 {
		return nil, fmt.Errorf("group %s: %w", groupID, common.ErrNotFound)
	}
	ids := make([]string, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.ID)
	}
	return ids, nil
}

// CheckGroup verifies that members describe one live series: each carries a
// cadence and they all agree on it. A member with Repeat none still holding
// a group id means a detachment was only half applied.
//
// A group with a single member is accepted: short bounds and deletion or
// detachment of siblings produce one legitimately.
func CheckGroup(members []models.Event) error {
	if len(members) == 0 {
		return nil
	}
	gid, _ := members[0].Group.GroupID()
	cadence := members[0].Repeat
	for _, m := range members {
		if !m.Group.In(gid) {
			return fmt.Errorf("%w: event %s is not in group %s", common.ErrInconsistentState, m.ID, gid)
		}
		if m.Repeat == models.RepeatNone {
			return fmt.Errorf("%w: event %s is in group %s without a cadence", common.ErrInconsistentState, m.ID, gid)
		}
		if m.Repeat != cadence {
			return fmt.Errorf("%w: group %s mixes %s and %s", common.ErrInconsistentState, gid, cadence, m.Repeat)
		}
	}
	return nil
}

// Apply returns a new collection with replacements swapped in by id and the
// removed ids dropped. The input slice is not modified.
func Apply(events []models.Event, replacements []models.Event, removed []string) []models.Event {
	byID := make(map[string]models.Event, len(replacements))
	for _, r := range replacements {
		byID[r.ID] = r
	}
	drop := make(map[string]struct{}, len(removed))
	for _, id := range removed {
		drop[id] = struct{}{}
	}

	out := make([]models.Event, 0, len(events))
	for _, e := range events {
		if _, ok := drop[e.ID]; ok {
			continue
		}
		if r, ok := byID[e.ID]; ok {
			out = append(out, r)
			continue
		}
		out = append(out, e)
	}
	return out
}
