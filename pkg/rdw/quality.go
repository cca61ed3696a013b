package rdw

import "github.com/autokosten/autokosten-cli/internal/model"

// qualityScore grades how complete the merged record is, as a percentage.
// Base registration facts weigh heaviest, then the fiscal fields, then the
// consumption figure (full credit for NEDC, half for WLTP).
func qualityScore(v *model.Vehicle) int {
	const maxPoints = 7
	points := 0

	if v.Make != "" {
		points++
	}
	if !v.FirstRegistration.IsZero() {
		points++
	}
	if v.WeightKg > 0 {
		points++
	}

	if v.CatalogPrice != nil && *v.CatalogPrice > 0 {
		points++
	}
	if v.FuelCategory != model.FuelUnknown {
		points++
	}

	if v.CombinedConsumption != nil {
		switch v.ConsumptionSource {
		case "nedc":
			points += 2
		case "wltp":
			points++
		}
	}

	return points * 100 / maxPoints
}
