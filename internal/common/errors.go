// Package common defines sentinel errors shared by the HealthCal core,
// repositories and services. Callers should match them with errors.Is;
// producers wrap them with fmt.Errorf("...: %w", ...) to add context.
package common

import "errors"

var (
	// ErrValidation reports malformed input: missing fields, a repeat bound
	// before the anchor date, an unsupported cadence, a series above the
	// occurrence cap or a health record without any metric.
	ErrValidation = errors.New("validation error")

	// ErrNotFound reports that a mutation target (event id, group id,
	// record id) does not exist in the user's collection.
	ErrNotFound = errors.New("not found")

	// ErrInconsistentState reports broken recurrence-group membership.
	ErrInconsistentState = errors.New("inconsistent state")
)
