package format

import (
	"fmt"
	"io"

	"github.com/autokosten/autokosten-cli/internal/model"
	"github.com/autokosten/autokosten-cli/internal/tax"
)

// WriteVehicle renders the resolved vehicle facts as a short text block.
func WriteVehicle(w io.Writer, v *model.Vehicle) {
	fmt.Fprintf(w, "Voertuig:       %s\n", v.Summary())
	if !v.FirstRegistration.IsZero() {
		fmt.Fprintf(w, "Eerste toelating: %s\n", v.FirstRegistration.Format("02-01-2006"))
	}
	fmt.Fprintf(w, "Brandstof:      %s\n", v.FuelCategory)
	if v.CatalogPrice != nil {
		fmt.Fprintf(w, "Catalogusprijs: %s\n", Euro(float64(*v.CatalogPrice)))
	}
	if v.WeightKg > 0 {
		fmt.Fprintf(w, "Massa ledig:    %d kg\n", v.WeightKg)
	}
	if v.CombinedConsumption != nil {
		unit := "l/100km"
		if v.FuelCategory.IsElectricDrive() {
			unit = "kWh/100km"
		}
		fmt.Fprintf(w, "Verbruik:       %.1f %s (%s)\n", *v.CombinedConsumption, unit, v.ConsumptionSource)
	}
	if v.HasRecalls {
		fmt.Fprintln(w, "Let op:         openstaande terugroepactie")
	}
	fmt.Fprintf(w, "Datakwaliteit:  %d%%\n", v.DataQuality)
}

// WriteBreakdown renders the full annual cost report.
func WriteBreakdown(w io.Writer, b *model.CostBreakdown) {
	fmt.Fprintln(w, "Vaste kosten per jaar")
	fmt.Fprintf(w, "  Afschrijving:   %s\n", Euro(b.Fixed.Depreciation))
	fmt.Fprintf(w, "  Verzekering:    %s\n", Euro(b.Fixed.Insurance))
	fmt.Fprintf(w, "  Wegenbelasting: %s\n", Euro(b.Fixed.RoadTax))
	fmt.Fprintf(w, "  APK:            %s\n", Euro(b.Fixed.Inspection))
	fmt.Fprintf(w, "  Onderhoud:      %s\n", Euro(b.Fixed.Maintenance))
	fmt.Fprintf(w, "  Totaal:         %s\n", Euro(b.Fixed.Total))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Variabele kosten per jaar")
	fmt.Fprintf(w, "  Brandstof:      %s\n", Euro(b.Variable.Fuel))
	fmt.Fprintf(w, "  Banden:         %s\n", Euro(b.Variable.Tires))
	fmt.Fprintf(w, "  Reparaties:     %s\n", Euro(b.Variable.Repairs))
	fmt.Fprintf(w, "  Totaal:         %s\n", Euro(b.Variable.Total))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Zakelijke aftrek")
	fmt.Fprintf(w, "  Zakelijke km:   %s\n", Km(b.Relief.BusinessKm))
	fmt.Fprintf(w, "  Kostenaftrek:   %s\n", EuroCents(b.Relief.KilometreAllowance))
	fmt.Fprintf(w, "  Netto voordeel: %s (tegen %s)\n", EuroCents(b.Relief.Benefit), Percent(b.Relief.MarginalRate))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Totalen")
	fmt.Fprintf(w, "  Bruto per jaar:  %s\n", EuroCents(b.Totals.GrossAnnual))
	fmt.Fprintf(w, "  Bruto per maand: %s\n", EuroCents(b.Totals.GrossMonthly))
	fmt.Fprintf(w, "  Netto per jaar:  %s\n", EuroCents(b.Totals.NetAnnual))
	fmt.Fprintf(w, "  Netto per maand: %s\n", EuroCents(b.Totals.NetMonthly))
	fmt.Fprintf(w, "  Netto per km:    %s\n", PerKm(b.Totals.NetPerKm))
}

// WriteAssessment renders the benefit-in-kind assessment.
func WriteAssessment(w io.Writer, a *tax.Assessment) {
	fmt.Fprintln(w, "Bijtelling")
	fmt.Fprintf(w, "  Percentage:     %s\n", Percent(a.Percentage*100))
	fmt.Fprintf(w, "  Grondslag:      %s\n", Euro(a.TaxableBase))
	fmt.Fprintf(w, "  Bruto per jaar: %s\n", EuroCents(a.GrossAnnualBenefit))
	fmt.Fprintf(w, "  Bruto per maand:%s\n", EuroCents(a.GrossMonthlyBenefit))
	fmt.Fprintf(w, "  Regel:          %s\n", a.RuleApplied)
	if a.ProtectionEnd != nil {
		fmt.Fprintf(w, "  Vast tot:       %s\n", a.ProtectionEnd.Format("02-01-2006"))
	}
}

// WriteComparisons renders the saved comparison list, cheapest first.
func WriteComparisons(w io.Writer, list []model.Comparison) {
	if len(list) == 0 {
		fmt.Fprintln(w, "Geen opgeslagen vergelijkingen.")
		return
	}
	for i, c := range list {
		fmt.Fprintf(w, "%d. %s (%s)\n", i+1, c.VehicleSummary, c.Method)
		fmt.Fprintf(w, "   Netto per maand: %s   Netto per km: %s\n",
			EuroCents(c.Breakdown.Totals.NetMonthly), PerKm(c.Breakdown.Totals.NetPerKm))
		fmt.Fprintf(w, "   id: %s\n", c.ID)
	}
}
