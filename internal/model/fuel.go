package model

import "strings"

// FuelCategory is the normalized fuel type of a vehicle. The string values
// are the Dutch display labels used by the RDW and in rendered output.
type FuelCategory string

const (
	FuelPetrol       FuelCategory = "Benzine"
	FuelDiesel       FuelCategory = "Diesel"
	FuelElectric     FuelCategory = "Elektrisch"
	FuelHydrogen     FuelCategory = "Waterstof"
	FuelLPG          FuelCategory = "LPG"
	FuelCNG          FuelCategory = "CNG"
	FuelHybrid       FuelCategory = "Hybride"
	FuelPlugInHybrid FuelCategory = "Plug-in Hybride"
	FuelUnknown      FuelCategory = "Onbekend"
)

// IsElectricDrive reports whether the category is taxed under the
// electric column of the rate table. Hydrogen counts as electric drive.
func (f FuelCategory) IsElectricDrive() bool {
	return f == FuelElectric || f == FuelHydrogen
}

// ParseFuelCategory normalizes an RDW brandstof_omschrijving value. Exact
// matches are tried before substring variants because the registry uses a
// handful of canonical terms but older records carry free-text variations.
func ParseFuelCategory(raw string) FuelCategory {
	fuel := strings.ToLower(strings.TrimSpace(raw))
	if fuel == "" || fuel == "onbekend" || fuel == "unknown" {
		return FuelUnknown
	}

	switch fuel {
	case "benzine", "euro 95 benzine", "super benzine":
		return FuelPetrol
	case "diesel", "gasolie":
		return FuelDiesel
	case "elektriciteit", "elektrisch", "electric":
		return FuelElectric
	case "waterstof", "hydrogen":
		return FuelHydrogen
	case "lpg", "autogas":
		return FuelLPG
	case "cng", "aardgas":
		return FuelCNG
	}

	// Hybrids before the plain-fuel substrings: "plug-in hybride benzine"
	// must not land on Benzine.
	if strings.Contains(fuel, "hybride") || strings.Contains(fuel, "hybrid") {
		if strings.Contains(fuel, "plug") {
			return FuelPlugInHybrid
		}
		return FuelHybrid
	}

	switch {
	case strings.Contains(fuel, "benzine"), strings.Contains(fuel, "euro 95"), strings.Contains(fuel, "super"):
		return FuelPetrol
	case strings.Contains(fuel, "diesel"), strings.Contains(fuel, "gasolie"), strings.Contains(fuel, "tdi"):
		return FuelDiesel
	case strings.Contains(fuel, "elektr"), strings.Contains(fuel, "battery"), strings.Contains(fuel, "accu"), strings.Contains(fuel, "stroom"):
		return FuelElectric
	case strings.Contains(fuel, "waterstof"), strings.Contains(fuel, "hydrogen"), strings.Contains(fuel, "h2"):
		return FuelHydrogen
	case strings.Contains(fuel, "lpg"), strings.Contains(fuel, "autogas"):
		return FuelLPG
	case strings.Contains(fuel, "cng"), strings.Contains(fuel, "aardgas"), strings.Contains(fuel, "methaan"):
		return FuelCNG
	}

	return FuelUnknown
}

// electricModels maps make substrings to model-line substrings that are
// electric-only. An empty model matches every model of that make. Kept apart
// from ParseFuelCategory so new overrides never touch the parser.
var electricModels = []struct {
	make, model string
}{
	{"tesla", ""},
	{"nissan", "leaf"},
	{"bmw", "i3"},
	{"volkswagen", "id."},
	{"audi", "e-tron"},
	{"polestar", ""},
}

// ResolveFuelCategory classifies the upstream fuel text and applies the
// make/model override table. The registry leaves the fuel description blank
// or garbled for several electric-only manufacturers, so a recognized
// electric model line forces Electric regardless of the upstream text.
func ResolveFuelCategory(raw, vehicleMake, vehicleModel string) FuelCategory {
	if MatchesElectricModel(vehicleMake, vehicleModel) {
		return FuelElectric
	}
	return ParseFuelCategory(raw)
}

// MatchesElectricModel reports whether the make/model pair is a known
// electric-only model line.
func MatchesElectricModel(vehicleMake, vehicleModel string) bool {
	mk := strings.ToLower(vehicleMake)
	md := strings.ToLower(vehicleModel)
	for _, o := range electricModels {
		if strings.Contains(mk, o.make) && (o.model == "" || strings.Contains(md, o.model)) {
			return true
		}
	}
	return false
}
