package rdw

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/autokosten/autokosten-cli/internal/costs"
	"github.com/autokosten/autokosten-cli/internal/model"
)

// detFormats are the date layouts seen in datum_eerste_toelating. Most rows
// carry the compact form; newer exports use ISO timestamps.
var detFormats = []string{
	"20060102",
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Lookup resolves a plate against all four datasets, merges the results into
// one vehicle record, and caches it. Only the base registration dataset is
// required; failures in the enrichment datasets degrade the record instead of
// failing the lookup.
func (c *client) Lookup(ctx context.Context, plate string) (*model.Vehicle, error) {
	normalized := NormalizePlate(plate)
	if !ValidPlate(normalized) {
		return nil, eris.Wrapf(ErrInvalidPlate, "%q", plate)
	}

	if v, ok := c.cache.get(normalized, c.now()); ok {
		return v, nil
	}

	var (
		basic   []basicRecord
		fuel    []fuelRecord
		nedc    []fuelRecord
		recalls []recallRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		basic, err = fetchRecords[basicRecord](gctx, c, datasetBasic, normalized)
		return err
	})
	g.Go(func() error {
		records, err := fetchRecords[fuelRecord](gctx, c, datasetFuel, normalized)
		if err != nil {
			zap.L().Warn("fuel dataset unavailable", zap.String("plate", normalized), zap.Error(err))
			return nil
		}
		fuel = records
		return nil
	})
	g.Go(func() error {
		records, err := fetchRecords[fuelRecord](gctx, c, datasetNEDC, normalized)
		if err != nil {
			zap.L().Warn("nedc dataset unavailable", zap.String("plate", normalized), zap.Error(err))
			return nil
		}
		nedc = records
		return nil
	})
	g.Go(func() error {
		records, err := fetchRecords[recallRecord](gctx, c, datasetRecalls, normalized)
		if err != nil {
			zap.L().Warn("recall dataset unavailable", zap.String("plate", normalized), zap.Error(err))
			return nil
		}
		recalls = records
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(basic) == 0 {
		return nil, eris.Wrapf(ErrNotFound, "plate %s", FormatPlate(normalized))
	}

	v := merge(normalized, basic[0], fuel, nedc, recalls)
	c.cache.set(normalized, v, c.now().Add(c.cacheTTL))
	return v, nil
}

// merge folds the dataset rows into one vehicle record. NEDC consumption
// wins over WLTP when both are present because the statutory formulas were
// calibrated on NEDC figures.
func merge(plate string, b basicRecord, fuel, nedc []fuelRecord, recalls []recallRecord) *model.Vehicle {
	v := &model.Vehicle{
		PlateID:     plate,
		Make:        strings.TrimSpace(b.Merk),
		Model:       strings.TrimSpace(b.Handelsbenaming),
		WeightKg:    parseInt(b.MassaLedigVoertuig),
		MaxWeightKg: parseInt(b.MaximumMassa),
		Seats:       parseInt(b.AantalZitplaatsen),
		BPM:         parseInt(b.BPM),
		HasRecalls:  len(recalls) > 0,
	}

	v.FirstRegistration = parseDET(b.DatumEersteToelating)

	if price := parseInt(b.Catalogusprijs); price > 0 {
		v.CatalogPrice = &price
	}

	fuelText := b.BrandstofOmschrijving
	if len(fuel) > 0 && strings.TrimSpace(fuel[0].BrandstofOmschrijving) != "" {
		fuelText = fuel[0].BrandstofOmschrijving
	}
	v.FuelCategory = model.ResolveFuelCategory(fuelText, v.Make, v.Model)

	if len(nedc) > 0 {
		if cons := parseFloat(nedc[0].VerbruikGecombineerd); cons > 0 {
			v.CombinedConsumption = &cons
			v.ConsumptionSource = "nedc"
		}
	}
	if v.CombinedConsumption == nil && len(fuel) > 0 {
		if cons := parseFloat(fuel[0].VerbruikGecombineerd); cons > 0 {
			v.CombinedConsumption = &cons
			v.ConsumptionSource = "wltp"
		}
	}
	if len(fuel) > 0 {
		v.CO2Combined = parseInt(fuel[0].CO2Gecombineerd)
	}

	if v.WeightKg > 0 {
		v.MRBMonthly = costs.EstimateMRBMonthly(v.WeightKg, v.FuelCategory.IsElectricDrive())
	}

	v.DataQuality = qualityScore(v)
	return v
}

func parseDET(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range detFormats {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	zap.L().Warn("unparseable registration date", zap.String("value", raw))
	return time.Time{}
}

func parseInt(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	// Some numeric fields come through with a decimal part ("1500.00").
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f < 0 {
		return 0
	}
	return int(f)
}

func parseFloat(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f < 0 {
		return 0
	}
	return f
}
