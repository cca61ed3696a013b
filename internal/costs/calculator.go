// Package costs computes the annual cost-of-ownership breakdown for a
// privately bought, partly business-used vehicle. Every function here is
// pure: identical inputs always yield an identical breakdown, and nothing
// reads or writes shared state.
package costs

import (
	"math"
	"time"

	"github.com/rotisserie/eris"

	"github.com/autokosten/autokosten-cli/internal/model"
)

// DefaultKmAllowance is the statutory deductible rate per business
// kilometre. It changes periodically by law, so it is a named default that
// config can override, never an inlined literal.
const DefaultKmAllowance = 0.23

// Defaults used when no vehicle facts are available.
const (
	defaultWeightKg = 1500
	defaultAgeYears = 5

	// l/100km for unknown combustion vehicles; kWh/100km for electric. The
	// two differ materially because the units differ.
	defaultConsumption         = 7.0
	defaultElectricConsumption = 18.0
)

// Sub-formula constants, annual euros unless noted.
const (
	insuranceRefPrice = 25_000 // tier base applies at this purchase price
	insuranceValueCap = 2.0    // stops scaling for very expensive vehicles

	roadTaxPerHundredKg = 8.0  // euro per 100 kg per month
	evRoadTaxDiscount   = 0.25 // electric/hydrogen discount, current policy

	inspectionFee         = 50.0
	inspectionExemptYears = 3 // no periodic inspection in the first 3 years

	maintenanceBase      = 800.0
	maintenanceAgeFactor = 0.10 // +10% per year of age
	maintenanceRefKm     = 15_000.0

	tireSetCost    = 800.0
	tireLifetimeKm = 50_000.0

	repairBase       = 300.0
	repairGrowthRate = 1.2 // per year beyond the grace period
	repairGraceYears = 5
)

// insuranceBase maps tier to the annual premium at the reference price.
var insuranceBase = map[model.InsuranceTier]float64{
	model.TierLiability:     600,
	model.TierLiabilityPlus: 800,
	model.TierComprehensive: 1200,
}

// Params carries the statutory knobs threaded in from configuration.
type Params struct {
	KmAllowance float64 // euro per business km
}

// DefaultParams returns the current statutory parameters.
func DefaultParams() Params {
	return Params{KmAllowance: DefaultKmAllowance}
}

// Calculate validates the inputs and produces the full cost breakdown at the
// given date. The date only matters for age-derived sub-formulas; it is a
// parameter rather than time.Now() so results are reproducible.
func Calculate(in model.CostInputs, p Params, now time.Time) (*model.CostBreakdown, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if p.KmAllowance <= 0 {
		return nil, eris.Wrap(model.ErrInvalidInput, "km allowance must be positive")
	}

	v := in.Vehicle
	age := vehicleAge(v, now)

	fixed := model.FixedCosts{
		Depreciation: Depreciation(in.PurchasePrice, in.ResidualValue, in.OwnershipYears),
		Insurance:    Insurance(in.InsuranceTier, in.PurchasePrice),
		RoadTax:      AnnualRoadTax(v),
		Inspection:   Inspection(v, now),
		Maintenance:  Maintenance(age, in.AnnualKm),
	}
	fixed.Total = fixed.Depreciation + fixed.Insurance + fixed.RoadTax + fixed.Inspection + fixed.Maintenance

	variable := model.VariableCosts{
		Fuel:    FuelCost(v, in.AnnualKm, in.FuelUnitPrice),
		Tires:   Tires(in.AnnualKm),
		Repairs: Repairs(age),
	}
	variable.Total = variable.Fuel + variable.Tires + variable.Repairs

	relief := Relief(in.AnnualKm, in.BusinessShare, in.MarginalRate, p.KmAllowance)

	gross := fixed.Total + variable.Total
	net := gross - relief.Benefit

	return &model.CostBreakdown{
		Fixed:    fixed,
		Variable: variable,
		Relief:   relief,
		Totals: model.Totals{
			GrossAnnual:  gross,
			GrossMonthly: gross / 12,
			NetAnnual:    net,
			NetMonthly:   net / 12,
			NetPerKm:     net / in.AnnualKm,
		},
	}, nil
}

// Depreciation spreads the value loss linearly over the ownership period.
func Depreciation(purchase, residual float64, years int) float64 {
	if years <= 0 {
		return 0 // rejected by Validate; guarded to keep the function total
	}
	return (purchase - residual) / float64(years)
}

// Insurance scales the tier base with vehicle value, capped so very
// expensive vehicles do not scale without bound.
func Insurance(tier model.InsuranceTier, purchase float64) float64 {
	base, ok := insuranceBase[tier]
	if !ok {
		base = insuranceBase[model.TierLiabilityPlus]
	}
	factor := math.Min(insuranceValueCap, purchase/insuranceRefPrice)
	return base * factor
}

// AnnualRoadTax prefers the resolver's monthly MRB estimate; otherwise it
// estimates from weight. The electric/hydrogen discount is already folded
// into the resolver estimate, so it only applies on the fallback path here.
func AnnualRoadTax(v *model.Vehicle) float64 {
	if v != nil && v.MRBMonthly > 0 {
		return float64(v.MRBMonthly) * 12
	}
	weight := defaultWeightKg
	electric := false
	if v != nil {
		if v.WeightKg > 0 {
			weight = v.WeightKg
		}
		electric = v.FuelCategory.IsElectricDrive()
	}
	monthly := EstimateMRBMonthly(weight, electric)
	return float64(monthly) * 12
}

// EstimateMRBMonthly is the shared weight-based road tax estimate: EUR 8 per
// 100 kg per month, with the 25% electric/hydrogen discount.
func EstimateMRBMonthly(weightKg int, electricDrive bool) int {
	monthly := math.Round(float64(weightKg) / 100 * roadTaxPerHundredKg)
	if electricDrive {
		monthly = math.Round(monthly * (1 - evRoadTaxDiscount))
	}
	return int(monthly)
}

// Inspection is the flat periodic inspection fee once a vehicle is older
// than the exemption window. Without vehicle facts the age is unknown and
// the inspection is treated as not yet due.
func Inspection(v *model.Vehicle, now time.Time) float64 {
	if v == nil || v.FirstRegistration.IsZero() {
		return 0
	}
	if v.AgeYears(now) > inspectionExemptYears {
		return inspectionFee
	}
	return 0
}

// Maintenance scales the base linearly with age and with usage intensity
// relative to the reference annual distance.
func Maintenance(ageYears int, annualKm float64) float64 {
	ageFactor := 1 + float64(ageYears)*maintenanceAgeFactor
	kmFactor := annualKm / maintenanceRefKm
	return maintenanceBase * ageFactor * kmFactor
}

// FuelCost resolves consumption by priority: the vehicle's documented
// combined figure first, then the category default.
func FuelCost(v *model.Vehicle, annualKm, unitPrice float64) float64 {
	consumption := defaultConsumption
	if v != nil {
		switch {
		case v.CombinedConsumption != nil && *v.CombinedConsumption > 0:
			consumption = *v.CombinedConsumption
		case v.FuelCategory == model.FuelElectric:
			consumption = defaultElectricConsumption
		}
	}
	return consumption * (annualKm / 100) * unitPrice
}

// Tires amortizes one tire-set replacement over its lifetime distance.
func Tires(annualKm float64) float64 {
	return math.Round(annualKm / tireLifetimeKm * tireSetCost)
}

// Repairs grow exponentially only after the grace period, modeling the
// accelerating repair incidence of older vehicles.
func Repairs(ageYears int) float64 {
	excess := ageYears - repairGraceYears
	if excess <= 0 {
		return repairBase
	}
	return repairBase * math.Pow(repairGrowthRate, float64(excess))
}

// Relief monetizes the business-kilometre deduction at the marginal rate.
func Relief(annualKm, businessSharePct, marginalRatePct, kmAllowance float64) model.TaxRelief {
	businessKm := annualKm * businessSharePct / 100
	allowance := businessKm * kmAllowance
	return model.TaxRelief{
		BusinessKm:         businessKm,
		KilometreAllowance: allowance,
		Benefit:            allowance * marginalRatePct / 100,
		MarginalRate:       marginalRatePct,
	}
}

func vehicleAge(v *model.Vehicle, now time.Time) int {
	if v == nil || v.FirstRegistration.IsZero() {
		return defaultAgeYears
	}
	return v.AgeYears(now)
}
