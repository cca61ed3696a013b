// Package model holds the core domain types: vehicle facts resolved from the
// RDW registry, user-supplied cost inputs, and the calculated cost breakdown.
package model

import "time"

// Classification is the age-based statutory class of a vehicle.
type Classification string

const (
	ClassStandard   Classification = "standard"
	ClassYoungtimer Classification = "youngtimer" // 15-30 years, taxed on market value
	ClassOldtimer   Classification = "oldtimer"   // over 30 years, exempt
)

// Vehicle holds the facts for one registered vehicle, merged from the RDW
// open-data datasets. Instances are immutable once returned by the resolver.
type Vehicle struct {
	PlateID string `json:"plate_id"` // normalized, no dashes
	Make    string `json:"make"`
	Model   string `json:"model"`

	// FirstRegistration is the "datum eerste toelating": the date that anchors
	// which statutory rate year applies. Zero means the registry had no date.
	FirstRegistration time.Time `json:"first_registration"`

	CatalogPrice *int         `json:"catalog_price,omitempty"` // euros, as registered
	BPM          int          `json:"bpm,omitempty"`
	WeightKg     int          `json:"weight_kg"`
	MaxWeightKg  int          `json:"max_weight_kg,omitempty"`
	Seats        int          `json:"seats,omitempty"`
	FuelCategory FuelCategory `json:"fuel_category"`

	// CombinedConsumption is fuel units per 100 km (l or kWh depending on the
	// fuel category). ConsumptionSource records which test cycle produced it.
	CombinedConsumption *float64 `json:"combined_consumption,omitempty"`
	ConsumptionSource   string   `json:"consumption_source,omitempty"` // "nedc" or "wltp"
	CO2Combined         int      `json:"co2_combined,omitempty"`       // g/km

	// MRBMonthly is the resolver's weight-based road tax estimate per month.
	MRBMonthly int `json:"mrb_monthly,omitempty"`

	HasRecalls  bool `json:"has_recalls"`
	DataQuality int  `json:"data_quality"` // 0-100
}

// AgeYears returns the number of whole years since first registration,
// counted by anniversary date, not calendar year. Returns 0 for vehicles
// without a registration date.
func (v *Vehicle) AgeYears(now time.Time) int {
	if v == nil || v.FirstRegistration.IsZero() {
		return 0
	}
	r := v.FirstRegistration
	years := now.Year() - r.Year()
	if now.Month() < r.Month() || (now.Month() == r.Month() && now.Day() < r.Day()) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

// Classify returns the statutory age class at the given date. Oldtimer starts
// strictly after the 30th registration anniversary; youngtimer runs from the
// 15th anniversary through the 30th, both inclusive.
func (v *Vehicle) Classify(now time.Time) Classification {
	if v == nil || v.FirstRegistration.IsZero() {
		return ClassStandard
	}
	if now.After(v.FirstRegistration.AddDate(30, 0, 0)) {
		return ClassOldtimer
	}
	if !now.Before(v.FirstRegistration.AddDate(15, 0, 0)) {
		return ClassYoungtimer
	}
	return ClassStandard
}

// Summary returns a short display string like "VOLKSWAGEN GOLF (2019)".
func (v *Vehicle) Summary() string {
	if v == nil {
		return ""
	}
	s := v.Make
	if v.Model != "" {
		if s != "" {
			s += " "
		}
		s += v.Model
	}
	if !v.FirstRegistration.IsZero() {
		s += " (" + v.FirstRegistration.Format("2006") + ")"
	}
	return s
}
