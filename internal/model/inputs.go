package model

import "github.com/rotisserie/eris"

// ErrInvalidInput marks a cost input that fails validation. Validation runs
// before any formula so a calculation never fails halfway through.
var ErrInvalidInput = eris.New("invalid input")

// InsuranceTier is the coverage level used for the insurance estimate.
type InsuranceTier string

const (
	TierLiability     InsuranceTier = "wa"
	TierLiabilityPlus InsuranceTier = "wa-plus"
	TierComprehensive InsuranceTier = "allrisk"
)

// ValidTier reports whether t is one of the three known tiers.
func ValidTier(t InsuranceTier) bool {
	switch t {
	case TierLiability, TierLiabilityPlus, TierComprehensive:
		return true
	}
	return false
}

// CostInputs are the user-supplied parameters for one calculation. Vehicle is
// optional; every vehicle-dependent formula has a documented default.
type CostInputs struct {
	PurchasePrice  float64       `json:"purchase_price"`
	ResidualValue  float64       `json:"residual_value"`
	OwnershipYears int           `json:"ownership_years"`
	AnnualKm       float64       `json:"annual_km"`
	BusinessShare  float64       `json:"business_share_pct"` // 0-100
	FuelUnitPrice  float64       `json:"fuel_unit_price"`    // euro per litre or kWh
	InsuranceTier  InsuranceTier `json:"insurance_tier"`
	MarginalRate   float64       `json:"marginal_rate_pct"` // 0-100
	Vehicle        *Vehicle      `json:"vehicle,omitempty"`
}

// Validate checks every input range. All violations return ErrInvalidInput in
// the error chain so callers can distinguish them from engine failures.
func (in CostInputs) Validate() error {
	switch {
	case in.OwnershipYears < 1:
		return eris.Wrap(ErrInvalidInput, "ownership years must be at least 1")
	case in.PurchasePrice < 0:
		return eris.Wrap(ErrInvalidInput, "purchase price must not be negative")
	case in.ResidualValue < 0:
		return eris.Wrap(ErrInvalidInput, "residual value must not be negative")
	case in.AnnualKm <= 0:
		return eris.Wrap(ErrInvalidInput, "annual distance must be positive")
	case in.BusinessShare < 0 || in.BusinessShare > 100:
		return eris.Wrap(ErrInvalidInput, "business share must be between 0 and 100")
	case in.MarginalRate < 0 || in.MarginalRate > 100:
		return eris.Wrap(ErrInvalidInput, "marginal tax rate must be between 0 and 100")
	case in.FuelUnitPrice < 0:
		return eris.Wrap(ErrInvalidInput, "fuel price must not be negative")
	case !ValidTier(in.InsuranceTier):
		return eris.Wrapf(ErrInvalidInput, "unknown insurance tier %q", in.InsuranceTier)
	}
	return nil
}
