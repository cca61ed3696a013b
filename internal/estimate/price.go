// Package estimate provides purchase-price and fuel-price suggestions used
// to pre-fill cost inputs after a registry lookup.
package estimate

import (
	"math"
	"strings"
	"time"

	"github.com/autokosten/autokosten-cli/internal/model"
)

// brandNewPrices approximates a typical new price per make, used only when
// the registry has no catalog price for the vehicle.
var brandNewPrices = map[string]int{
	"BMW":           45_000,
	"MERCEDES-BENZ": 50_000,
	"AUDI":          43_000,
	"VOLKSWAGEN":    35_000,
	"TOYOTA":        30_000,
	"VOLVO":         38_000,
	"FORD":          28_000,
	"OPEL":          25_000,
	"PEUGEOT":       27_000,
	"RENAULT":       26_000,
	"NISSAN":        29_000,
	"HYUNDAI":       25_000,
	"KIA":           24_000,
	"SKODA":         26_000,
	"SEAT":          25_000,
}

const brandFallbackPrice = 30_000

// Depreciation curves. The catalog-price path uses a steeper rate with a
// higher floor because catalog prices include BPM and options.
const (
	catalogDepreciationPerYear = 0.12
	catalogResidualFloor       = 0.20
	brandDepreciationPerYear   = 0.10
	brandResidualFloor         = 0.15

	residualValueShare = 0.60 // suggested residual after the ownership period
)

// PurchasePrice estimates what the vehicle would cost to buy today, from the
// registered catalog price when present, else from the per-brand table.
func PurchasePrice(v *model.Vehicle, now time.Time) int {
	if v == nil {
		return 0
	}
	age := float64(v.AgeYears(now))

	if v.CatalogPrice != nil && *v.CatalogPrice > 0 {
		factor := math.Max(catalogResidualFloor, 1-age*catalogDepreciationPerYear)
		return int(math.Round(float64(*v.CatalogPrice) * factor))
	}

	base := brandFallbackPrice
	if p, ok := brandNewPrices[strings.ToUpper(strings.TrimSpace(v.Make))]; ok {
		base = p
	}
	factor := math.Max(brandResidualFloor, 1-age*brandDepreciationPerYear)
	return int(math.Round(float64(base) * factor))
}

// ResidualValue suggests a residual value after the ownership period.
func ResidualValue(purchasePrice int) int {
	return int(math.Round(float64(purchasePrice) * residualValueShare))
}

// fuelPrices are default pump prices per category. Electric is per kWh.
var fuelPrices = map[model.FuelCategory]float64{
	model.FuelPetrol:   1.85,
	model.FuelDiesel:   1.65,
	model.FuelElectric: 0.35,
	model.FuelHydrogen: 0.35,
	model.FuelLPG:      0.85,
	model.FuelCNG:      1.25,
	model.FuelHybrid:   1.75,
}

const fallbackFuelPrice = 1.75

// DefaultFuelPrice returns the default unit price for a fuel category.
func DefaultFuelPrice(cat model.FuelCategory) float64 {
	if p, ok := fuelPrices[cat]; ok {
		return p
	}
	return fallbackFuelPrice
}
