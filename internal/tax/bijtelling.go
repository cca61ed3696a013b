package tax

import (
	"fmt"
	"math"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/autokosten/autokosten-cli/internal/model"
)

// ErrInvalidVehicleData marks vehicle facts that cannot be assessed, such as
// a missing first-registration date. Never defaulted to "now": the date
// decides which rate year applies.
var ErrInvalidVehicleData = eris.New("invalid vehicle data")

const (
	// youngtimerRate applies to the estimated current market value instead of
	// the catalog price.
	youngtimerRate = 0.35

	// marketValueFactor estimates the youngtimer market value from catalog
	// price when no appraisal exists.
	marketValueFactor = 0.6

	// protectionMonths is the statutory rate lock: 60 months plus one month
	// of grace, counted from first registration.
	protectionMonths = 61
)

// Assessment is the outcome of a bijtelling evaluation. Percentage is the
// single effective rate; Schedule carries the two-band form for threshold
// years so callers can render the statutory wording as well.
type Assessment struct {
	Percentage          float64       `json:"percentage"` // effective, 0-1
	Schedule            *RateSchedule `json:"schedule,omitempty"`
	RuleApplied         string        `json:"rule_applied"`
	TaxableBase         float64       `json:"taxable_base"`
	GrossAnnualBenefit  float64       `json:"gross_annual_benefit"`
	GrossMonthlyBenefit float64       `json:"gross_monthly_benefit"`
	ProtectionEnd       *time.Time    `json:"protection_end,omitempty"`
}

// Assess evaluates the bijtelling for a vehicle at the given date.
//
// Decision order, each step terminal: oldtimer exemption, youngtimer regime,
// then the registration-year table row subject to the 61-month lock. After
// the lock expires the prevailing (current-year) row applies instead, which
// is how early electric registrations lose their locked-in low rate.
func Assess(v *model.Vehicle, now time.Time) (*Assessment, error) {
	if v == nil {
		return nil, eris.Wrap(ErrInvalidVehicleData, "no vehicle facts")
	}
	if v.FirstRegistration.IsZero() {
		return nil, eris.Wrap(ErrInvalidVehicleData, "first registration date is missing")
	}
	if v.FirstRegistration.After(now) {
		return nil, eris.Wrap(ErrInvalidVehicleData, "first registration date is in the future")
	}

	switch v.Classify(now) {
	case model.ClassOldtimer:
		return &Assessment{
			Percentage:  0,
			RuleApplied: "oldtimer (over 30 years): no bijtelling",
		}, nil
	case model.ClassYoungtimer:
		// Re-evaluated every year as the vehicle ages, so deliberately outside
		// the 60-month lock.
		base := float64(catalogPrice(v)) * marketValueFactor
		return &Assessment{
			Percentage:          youngtimerRate,
			RuleApplied:         "youngtimer (15-30 years): 35% of estimated market value",
			TaxableBase:         base,
			GrossAnnualBenefit:  base * youngtimerRate,
			GrossMonthlyBenefit: base * youngtimerRate / 12,
		}, nil
	}

	regYear := v.FirstRegistration.Year()
	protectionEnd := v.FirstRegistration.AddDate(0, protectionMonths, 0)

	ruleYear := regYear
	locked := now.Before(protectionEnd)
	if !locked {
		ruleYear = now.Year()
	}

	rule := ruleForYear(ruleYear)
	schedule := scheduleFor(rule, v.FuelCategory)

	price := catalogPrice(v)
	effective := effectiveRate(schedule, price)
	base := float64(price)

	a := &Assessment{
		Percentage:          effective,
		TaxableBase:         base,
		GrossAnnualBenefit:  base * effective,
		GrossMonthlyBenefit: base * effective / 12,
		RuleApplied:         ruleText(ruleYear, schedule, locked),
		ProtectionEnd:       &protectionEnd,
	}
	if !schedule.Flat() {
		s := schedule
		a.Schedule = &s
	}
	return a, nil
}

// scheduleFor picks the rate column for the fuel category. Unknown fuels fall
// back to the fossil column: misreading a rare fuel as fossil overstates tax
// slightly, misreading it as electric would understate it.
func scheduleFor(rule yearRule, fuel model.FuelCategory) RateSchedule {
	switch fuel {
	case model.FuelElectric:
		return rule.electric
	case model.FuelHydrogen:
		if rule.hydrogen != nil {
			return *rule.hydrogen
		}
		return rule.electric
	case model.FuelPetrol, model.FuelDiesel, model.FuelLPG, model.FuelCNG,
		model.FuelHybrid, model.FuelPlugInHybrid:
		return flat(rule.fossil)
	default:
		zap.L().Warn("tax: unrecognized fuel category, assessing as fossil",
			zap.String("fuel", string(fuel)),
		)
		return flat(rule.fossil)
	}
}

// effectiveRate blends a two-band schedule over the catalog price. With no
// price to blend over, the low rate is reported; the monetary effect is zero
// anyway since the base is zero.
func effectiveRate(s RateSchedule, price int) float64 {
	if s.Flat() || price <= 0 {
		return s.LowRate
	}
	low := math.Min(float64(price), float64(s.Threshold))
	high := math.Max(0, float64(price)-float64(s.Threshold))
	return (low*s.LowRate + high*s.HighRate) / float64(price)
}

func ruleText(year int, s RateSchedule, locked bool) string {
	var text string
	if s.Flat() {
		text = fmt.Sprintf("rate year %d: %.0f%% flat", year, s.LowRate*100)
	} else {
		text = fmt.Sprintf("rate year %d: %.0f%% up to EUR %d, %.0f%% above",
			year, s.LowRate*100, s.Threshold, s.HighRate*100)
	}
	if locked {
		return text + " (60-month lock active)"
	}
	return text + " (60-month lock expired)"
}

func catalogPrice(v *model.Vehicle) int {
	if v.CatalogPrice == nil {
		return 0
	}
	return *v.CatalogPrice
}
