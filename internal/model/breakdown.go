package model

import "time"

// FixedCosts are the annual costs that do not scale with distance driven.
type FixedCosts struct {
	Depreciation float64 `json:"depreciation"`
	Insurance    float64 `json:"insurance"`
	RoadTax      float64 `json:"road_tax"`
	Inspection   float64 `json:"inspection"`
	Maintenance  float64 `json:"maintenance"`
	Total        float64 `json:"total"`
}

// VariableCosts are the annual costs driven by kilometres.
type VariableCosts struct {
	Fuel    float64 `json:"fuel"`
	Tires   float64 `json:"tires"`
	Repairs float64 `json:"repairs"`
	Total   float64 `json:"total"`
}

// TaxRelief is the monetized business-kilometre deduction.
type TaxRelief struct {
	BusinessKm         float64 `json:"business_km"`
	KilometreAllowance float64 `json:"km_allowance"`       // business km x statutory rate
	Benefit            float64 `json:"benefit"`            // allowance x marginal rate
	MarginalRate       float64 `json:"marginal_rate_pct"`
}

// Totals aggregates the breakdown. Gross is before the tax relief, net after.
type Totals struct {
	GrossAnnual  float64 `json:"gross_annual"`
	GrossMonthly float64 `json:"gross_monthly"`
	NetAnnual    float64 `json:"net_annual"`
	NetMonthly   float64 `json:"net_monthly"`
	NetPerKm     float64 `json:"net_per_km"`
}

// CostBreakdown is the full output of one calculation. All amounts are
// unrounded euros per year; rounding happens only at the presentation layer
// so intermediate formulas never compound rounding error.
type CostBreakdown struct {
	Fixed    FixedCosts    `json:"fixed"`
	Variable VariableCosts `json:"variable"`
	Relief   TaxRelief     `json:"relief"`
	Totals   Totals        `json:"totals"`
}

// Comparison is one saved calculation in the comparison list. Entries are
// deduplicated on (PlateID, Method).
type Comparison struct {
	ID             string        `json:"id"`
	PlateID        string        `json:"plate_id"`
	Method         string        `json:"method"` // calculation method tag
	VehicleSummary string        `json:"vehicle_summary"`
	Vehicle        *Vehicle      `json:"vehicle,omitempty"`
	Breakdown      CostBreakdown `json:"breakdown"`
	CreatedAt      time.Time     `json:"created_at"`
}
