package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/healthcal/internal/common"
	"github.com/dmitrijs2005/healthcal/internal/datekey"
	"github.com/dmitrijs2005/healthcal/internal/models"
)

// AddRecord prompts for a set of measurements. Blank answers leave a
// metric out.
func (a *App) AddRecord(ctx context.Context) error {
	r := models.HealthRecord{UserID: a.userID}

	date, err := GetWithDefault(a.reader, "Date", a.view.Selected(), a.out)
	if err != nil {
		return err
	}
	if r.Date, err = datekey.Parse(date, a.view.Location()); err != nil {
		return err
	}

	ask := func(prompt string) (string, error) {
		return GetSimpleText(a.reader, prompt, a.out)
	}

	s, err := ask("Weight (kg)")
	if err != nil {
		return err
	}
	if r.Weight, err = optionalFloat(s, "weight"); err != nil {
		return err
	}

	if s, err = ask("Blood pressure (120/80)"); err != nil {
		return err
	}
	sys, dia, ok, err := parsePressure(s)
	if err != nil {
		return err
	}
	if ok {
		r.BloodPressure = &models.BloodPressure{Systolic: sys, Diastolic: dia}
		if s, err = ask("Heart rate (bpm)"); err != nil {
			return err
		}
		if r.BloodPressure.HeartRate, err = optionalInt(s, "heart rate"); err != nil {
			return err
		}
	}

	if s, err = ask("Blood sugar (mg/dL)"); err != nil {
		return err
	}
	if r.BloodSugar, err = optionalFloat(s, "blood sugar"); err != nil {
		return err
	}
	for _, f := range []struct {
		prompt string
		dst    **int
	}{
		{"Steps", &r.Steps},
		{"Calories (kcal)", &r.Calories},
		{"Walking time (minutes)", &r.WalkingTime},
	} {
		if s, err = ask(f.prompt); err != nil {
			return err
		}
		if *f.dst, err = optionalInt(s, f.prompt); err != nil {
			return err
		}
	}
	if r.Notes, err = ask("Notes"); err != nil {
		return err
	}

	created, err := a.records.Create(ctx, r)
	if err != nil {
		return err
	}
	a.printf("Record added on %s.\n", datekey.ToDateKey(created.Date))
	return a.Render(ctx)
}

func (a *App) DeleteRecord(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: usage: deleterecord <id>", common.ErrValidation)
	}
	if err := a.records.Delete(ctx, a.userID, args[0]); err != nil {
		return err
	}
	printlnFn("Record deleted.")
	return a.Render(ctx)
}
