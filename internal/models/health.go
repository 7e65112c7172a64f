package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/healthcal/internal/common"
)

// BloodPressure is a single cuff reading in mmHg with an optional pulse.
type BloodPressure struct {
	Systolic  int
	Diastolic int
	HeartRate *int
}

// HealthRecord is one set of measurements for a day. Several records may
// share a day (morning and evening readings); every metric is optional but a
// record must carry at least one.
type HealthRecord struct {
	ID     string
	UserID string

	// Date is the measured day, stored as midnight in the user's location.
	Date time.Time

	Weight        *float64 // kg
	BloodPressure *BloodPressure
	BloodSugar    *float64 // mg/dL
	Steps         *int
	Calories      *int
	WalkingTime   *int // minutes
	Notes         string

	CreatedAt time.Time
}

// HasMetric reports whether at least one measurement is populated.
func (r HealthRecord) HasMetric() bool {
	return r.Weight != nil || r.BloodPressure != nil || r.BloodSugar != nil ||
		r.Steps != nil || r.Calories != nil || r.WalkingTime != nil
}

// Clone returns a deep copy of r.
func (r HealthRecord) Clone() HealthRecord {
	if r.Weight != nil {
		v := *r.Weight
		r.Weight = &v
	}
	if r.BloodPressure != nil {
		bp := *r.BloodPressure
		if bp.HeartRate != nil {
			hr := *bp.HeartRate
			bp.HeartRate = &hr
		}
		r.BloodPressure = &bp
	}
	if r.BloodSugar != nil {
		v := *r.BloodSugar
		r.BloodSugar = &v
	}
	if r.Steps != nil {
		v := *r.Steps
		r.Steps = &v
	}
	if r.Calories != nil {
		v := *r.Calories
		r.Calories = &v
	}
	if r.WalkingTime != nil {
		v := *r.WalkingTime
		r.WalkingTime = &v
	}
	return r
}

// ValidateRecord rejects records without metrics and readings outside
// physically plausible ranges.
func ValidateRecord(r HealthRecord) error {
	if strings.TrimSpace(r.UserID) == "" {
		return fmt.Errorf("%w: user id is required", common.ErrValidation)
	}
	if r.Date.IsZero() {
		return fmt.Errorf("%w: record date is required", common.ErrValidation)
	}
	if !r.HasMetric() {
		return fmt.Errorf("%w: record has no metric", common.ErrValidation)
	}
	if r.Weight != nil && (*r.Weight <= 0 || *r.Weight > 500) {
		return fmt.Errorf("%w: weight %.1f out of range", common.ErrValidation, *r.Weight)
	}
	if bp := r.BloodPressure; bp != nil {
		if bp.Systolic <= 0 || bp.Systolic > 300 || bp.Diastolic <= 0 || bp.Diastolic > 300 {
			return fmt.Errorf("%w: blood pressure %d/%d out of range", common.ErrValidation, bp.Systolic, bp.Diastolic)
		}
		if bp.Diastolic >= bp.Systolic {
			return fmt.Errorf("%w: diastolic %d must be below systolic %d", common.ErrValidation, bp.Diastolic, bp.Systolic)
		}
		if bp.HeartRate != nil && (*bp.HeartRate <= 0 || *bp.HeartRate > 300) {
			return fmt.Errorf("%w: heart rate %d out of range", common.ErrValidation, *bp.HeartRate)
		}
	}
	if r.BloodSugar != nil && (*r.BloodSugar <= 0 || *r.BloodSugar > 1000) {
		return fmt.Errorf("%w: blood sugar %.1f out of range", common.ErrValidation, *r.BloodSugar)
	}
	for name, v := range map[string]*int{"steps": r.Steps, "calories": r.Calories, "walking time": r.WalkingTime} {
		if v != nil && *v < 0 {
			return fmt.Errorf("%w: %s must not be negative", common.ErrValidation, name)
		}
	}
	return nil
}

// Mood is the diary's self-reported mood.
type Mood string

const (
	MoodGreat    Mood = "great"
	MoodGood     Mood = "good"
	MoodOkay     Mood = "okay"
	MoodBad      Mood = "bad"
	MoodTerrible Mood = "terrible"
)

// Valid reports whether m is a known mood.
func (m Mood) Valid() bool {
	switch m {
	case MoodGreat, MoodGood, MoodOkay, MoodBad, MoodTerrible:
		return true
	}
	return false
}

// DiaryEntry is the free-text journal for one day. By convention a user has
// at most one entry per date.
type DiaryEntry struct {
	ID         string
	UserID     string
	Date       string // day key
	Mood       Mood
	Content    string
	Tags       []string
	Activities []string
	Photos     []string // object storage keys

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Clone returns a deep copy of d.
func (d DiaryEntry) Clone() DiaryEntry {
	d.Tags = append([]string(nil), d.Tags...)
	d.Activities = append([]string(nil), d.Activities...)
	d.Photos = append([]string(nil), d.Photos...)
	return d
}
