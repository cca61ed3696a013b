package costs

import (
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autokosten/autokosten-cli/internal/model"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func baseInputs() model.CostInputs {
	return model.CostInputs{
		PurchasePrice:  25000,
		ResidualValue:  10000,
		OwnershipYears: 5,
		AnnualKm:       15000,
		BusinessShare:  60,
		FuelUnitPrice:  1.85,
		InsuranceTier:  model.TierComprehensive,
		MarginalRate:   37,
	}
}

func TestCalculate_EndToEndWithoutVehicle(t *testing.T) {
	b, err := Calculate(baseInputs(), DefaultParams(), date(2025, 6, 1))
	require.NoError(t, err)

	assert.InDelta(t, 3000.0, b.Fixed.Depreciation, 1e-9)
	assert.InDelta(t, 1200.0, b.Fixed.Insurance, 1e-9, "allrisk base at the reference price")
	assert.InDelta(t, 1440.0, b.Fixed.RoadTax, 1e-9, "default 1500 kg: round(15*8)*12")
	assert.Zero(t, b.Fixed.Inspection, "no vehicle age known, inspection not yet due")
	assert.InDelta(t, 1200.0, b.Fixed.Maintenance, 1e-9, "default age 5: 800*1.5*1.0")
	assert.InDelta(t, 1942.5, b.Variable.Fuel, 1e-9, "7.0 l/100km * 150 * 1.85")
	assert.InDelta(t, 240.0, b.Variable.Tires, 1e-9)
	assert.InDelta(t, 300.0, b.Variable.Repairs, 1e-9)

	assert.InDelta(t, 9322.5, b.Totals.GrossAnnual, 1e-9)
	assert.InDelta(t, 9000.0, b.Relief.BusinessKm, 1e-9)
	assert.InDelta(t, 765.90, b.Relief.Benefit, 1e-6, "9000 * 0.23 * 0.37")
	assert.InDelta(t, 8556.60, b.Totals.NetAnnual, 1e-6)
	assert.InDelta(t, 713.05, b.Totals.NetMonthly, 1e-6)
	assert.InDelta(t, 8556.60/15000, b.Totals.NetPerKm, 1e-9)
}

func TestCalculate_AggregationIdentities(t *testing.T) {
	b, err := Calculate(baseInputs(), DefaultParams(), date(2025, 6, 1))
	require.NoError(t, err)

	assert.InDelta(t, b.Fixed.Depreciation+b.Fixed.Insurance+b.Fixed.RoadTax+b.Fixed.Inspection+b.Fixed.Maintenance,
		b.Fixed.Total, 1e-9)
	assert.InDelta(t, b.Variable.Fuel+b.Variable.Tires+b.Variable.Repairs, b.Variable.Total, 1e-9)
	assert.InDelta(t, b.Fixed.Total+b.Variable.Total, b.Totals.GrossAnnual, 1e-9)
	assert.InDelta(t, b.Totals.GrossAnnual-b.Relief.Benefit, b.Totals.NetAnnual, 1e-9)
	assert.InDelta(t, b.Totals.NetAnnual/12, b.Totals.NetMonthly, 1e-9)
}

func TestCalculate_Deterministic(t *testing.T) {
	in := baseInputs()
	now := date(2025, 6, 1)

	first, err := Calculate(in, DefaultParams(), now)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Calculate(in, DefaultParams(), now)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestCalculate_ZeroDistanceRejected(t *testing.T) {
	in := baseInputs()
	in.AnnualKm = 0
	_, err := Calculate(in, DefaultParams(), date(2025, 6, 1))
	require.Error(t, err)
	assert.True(t, eris.Is(err, model.ErrInvalidInput))
}

func TestCalculate_InvalidParams(t *testing.T) {
	_, err := Calculate(baseInputs(), Params{KmAllowance: 0}, date(2025, 6, 1))
	require.Error(t, err)
	assert.True(t, eris.Is(err, model.ErrInvalidInput))
}

func TestCalculate_ZeroBusinessShare(t *testing.T) {
	in := baseInputs()
	in.BusinessShare = 0
	b, err := Calculate(in, DefaultParams(), date(2025, 6, 1))
	require.NoError(t, err)
	assert.Zero(t, b.Relief.Benefit)
	assert.InDelta(t, b.Totals.GrossAnnual, b.Totals.NetAnnual, 1e-9)
}

func TestInsurance(t *testing.T) {
	assert.InDelta(t, 1200.0, Insurance(model.TierComprehensive, 25000), 1e-9)
	assert.InDelta(t, 600.0, Insurance(model.TierLiability, 25000), 1e-9)
	assert.InDelta(t, 800.0, Insurance(model.TierLiabilityPlus, 25000), 1e-9)
	assert.InDelta(t, 600.0, Insurance(model.TierComprehensive, 12500), 1e-9, "value factor 0.5")
	assert.InDelta(t, 2400.0, Insurance(model.TierComprehensive, 100000), 1e-9, "value factor capped at 2.0")
}

func TestAnnualRoadTax(t *testing.T) {
	// Resolver estimate wins when present.
	v := &model.Vehicle{WeightKg: 1200, MRBMonthly: 96}
	assert.InDelta(t, 1152.0, AnnualRoadTax(v), 1e-9)

	// Fallback from weight.
	v = &model.Vehicle{WeightKg: 1200}
	assert.InDelta(t, 96.0*12, AnnualRoadTax(v), 1e-9)

	// Electric discount on the fallback path.
	v = &model.Vehicle{WeightKg: 2000, FuelCategory: model.FuelElectric}
	assert.InDelta(t, 120.0*12, AnnualRoadTax(v), 1e-9, "round(160*0.75)=120 per month")

	// No vehicle: default weight 1500.
	assert.InDelta(t, 120.0*12, AnnualRoadTax(nil), 1e-9)
}

func TestEstimateMRBMonthly(t *testing.T) {
	assert.Equal(t, 120, EstimateMRBMonthly(1500, false))
	assert.Equal(t, 90, EstimateMRBMonthly(1500, true))
	assert.Equal(t, 116, EstimateMRBMonthly(1450, false))
}

func TestInspection(t *testing.T) {
	now := date(2025, 6, 1)
	assert.Zero(t, Inspection(nil, now))

	young := &model.Vehicle{FirstRegistration: date(2023, 1, 1)}
	assert.Zero(t, Inspection(young, now), "within the exemption window")

	old := &model.Vehicle{FirstRegistration: date(2019, 1, 1)}
	assert.InDelta(t, 50.0, Inspection(old, now), 1e-9)
}

func TestMaintenance(t *testing.T) {
	assert.InDelta(t, 800.0, Maintenance(0, 15000), 1e-9)
	assert.InDelta(t, 1200.0, Maintenance(5, 15000), 1e-9)
	assert.InDelta(t, 600.0, Maintenance(5, 7500), 1e-9, "half the reference distance")
}

func TestFuelCost(t *testing.T) {
	// Documented consumption beats the category default.
	cons := 5.2
	v := &model.Vehicle{CombinedConsumption: &cons, FuelCategory: model.FuelPetrol}
	assert.InDelta(t, 5.2*150*1.85, FuelCost(v, 15000, 1.85), 1e-9)

	// Electric default when no figure is documented.
	ev := &model.Vehicle{FuelCategory: model.FuelElectric}
	assert.InDelta(t, 18.0*150*0.35, FuelCost(ev, 15000, 0.35), 1e-9)

	// Combustion default.
	assert.InDelta(t, 7.0*150*1.85, FuelCost(nil, 15000, 1.85), 1e-9)
}

func TestTires(t *testing.T) {
	assert.InDelta(t, 240.0, Tires(15000), 1e-9)
	assert.InDelta(t, 800.0, Tires(50000), 1e-9)
	assert.Zero(t, Tires(0))
}

func TestRepairs(t *testing.T) {
	assert.InDelta(t, 300.0, Repairs(0), 1e-9)
	assert.InDelta(t, 300.0, Repairs(5), 1e-9, "grace period")
	assert.InDelta(t, 360.0, Repairs(6), 1e-9)
	assert.InDelta(t, 300.0*1.2*1.2, Repairs(7), 1e-9)
}

func TestRelief(t *testing.T) {
	r := Relief(15000, 60, 37, 0.23)
	assert.InDelta(t, 9000.0, r.BusinessKm, 1e-9)
	assert.InDelta(t, 2070.0, r.KilometreAllowance, 1e-9)
	assert.InDelta(t, 765.90, r.Benefit, 1e-6)
	assert.InDelta(t, 37.0, r.MarginalRate, 1e-9)
}

func TestDepreciation(t *testing.T) {
	assert.InDelta(t, 3000.0, Depreciation(25000, 10000, 5), 1e-9)
	assert.Zero(t, Depreciation(25000, 10000, 0))
}
