package aggregate

import (
	"github.com/dmitrijs2005/healthcal/internal/models"
	"github.com/dmitrijs2005/healthcal/internal/timeline"
)

// Status is the heat-map classification of a day.
type Status string

const (
	StatusNoData  Status = "no-data"
	StatusGood    Status = "good"
	StatusWarning Status = "warning"
	StatusDanger  Status = "danger"
)

// Reading weights. Each blood-pressure and each blood-sugar reading adds one
// weight; the day's status comes from their average.
const (
	weightDanger  = -2
	weightWarning = -1
	weightGood    = 2

	goodThreshold    = 1.5
	warningThreshold = 0.0
)

// bloodPressureWeight grades a cuff reading: stage 2 hypertension is danger,
// elevated readings are a warning.
func bloodPressureWeight(bp models.BloodPressure) int {
	switch {
	case bp.Systolic >= 140 || bp.Diastolic >= 90:
		return weightDanger
	case bp.Systolic >= 130 || bp.Diastolic >= 85:
		return weightWarning
	default:
		return weightGood
	}
}

// bloodSugarWeight grades a fasting glucose reading in mg/dL. Readings below
// 70 weigh 0: hypoglycemia is neither rewarded nor penalized.
func bloodSugarWeight(v float64) int {
	switch {
	case v >= 126:
		return weightDanger
	case v >= 110:
		return weightWarning
	case v >= 70:
		return weightGood
	default:
		return 0
	}
}

// Classify grades one day's records. Days without any blood-pressure or
// blood-sugar reading are no-data, never good.
func Classify(records []models.HealthRecord) Status {
	sum, n := 0, 0
	for _, r := range records {
		if r.BloodPressure != nil {
			sum += bloodPressureWeight(*r.BloodPressure)
			n++
		}
		if r.BloodSugar != nil {
			sum += bloodSugarWeight(*r.BloodSugar)
			n++
		}
	}
	if n == 0 {
		return StatusNoData
	}

	avg := float64(sum) / float64(n)
	switch {
	case avg >= goodThreshold:
		return StatusGood
	case avg >= warningThreshold:
		return StatusWarning
	default:
		return StatusDanger
	}
}

// DayStatus classifies the records stored under key.
func DayStatus(idx *timeline.Index, key string) Status {
	return Classify(idx.RecordsOn(key))
}

// HeatMap classifies every day of p.
func HeatMap(idx *timeline.Index, p Period) (map[string]Status, error) {
	keys, err := p.Keys()
	if err != nil {
		return nil, err
	}
	out := make(map[string]Status, len(keys))
	for _, k := range keys {
		out[k] = DayStatus(idx, k)
	}
	return out, nil
}
