package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/autokosten/autokosten-cli/internal/costs"
	"github.com/autokosten/autokosten-cli/internal/estimate"
	"github.com/autokosten/autokosten-cli/internal/format"
	"github.com/autokosten/autokosten-cli/internal/model"
	"github.com/autokosten/autokosten-cli/internal/tax"
	"github.com/autokosten/autokosten-cli/pkg/rdw"
)

// methodPriveKopen tags comparisons produced by this calculation method.
const methodPriveKopen = "prive-kopen-zakelijk"

var calculateFlags struct {
	kenteken      string
	price         float64
	residual      float64
	years         int
	annualKm      float64
	businessShare float64
	fuelPrice     float64
	tier          string
	marginalRate  float64
	asJSON        bool
	save          bool
}

var calculateCmd = &cobra.Command{
	Use:   "calculate",
	Short: "Calculate the annual cost of ownership",
	Long:  "Calculates fixed and variable costs, the business-kilometre tax relief, and the bijtelling assessment. With --kenteken the inputs are pre-filled from the registry.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		now := time.Now()
		f := &calculateFlags

		in := model.CostInputs{
			PurchasePrice:  orDefault(f.price, cfg.Defaults.PurchasePrice),
			ResidualValue:  f.residual,
			OwnershipYears: f.years,
			AnnualKm:       orDefault(f.annualKm, cfg.Defaults.AnnualKm),
			BusinessShare:  f.businessShare,
			FuelUnitPrice:  f.fuelPrice,
			InsuranceTier:  model.InsuranceTier(f.tier),
			MarginalRate:   f.marginalRate,
		}
		if in.OwnershipYears == 0 {
			in.OwnershipYears = cfg.Defaults.OwnershipYears
		}
		if !cmd.Flags().Changed("residual") {
			in.ResidualValue = cfg.Defaults.ResidualValue
		}
		if !cmd.Flags().Changed("business") {
			in.BusinessShare = cfg.Defaults.BusinessShare
		}
		if !cmd.Flags().Changed("marginal") {
			in.MarginalRate = cfg.Defaults.MarginalRate
		}
		if f.tier == "" {
			in.InsuranceTier = model.InsuranceTier(cfg.Defaults.InsuranceTier)
		}

		var assessment *tax.Assessment
		if f.kenteken != "" {
			client := initRDW()
			v, err := client.Lookup(ctx, f.kenteken)
			switch {
			case err == nil:
				in.Vehicle = v

				// Registry facts pre-fill whatever the user left unset.
				if !cmd.Flags().Changed("price") {
					in.PurchasePrice = float64(estimate.PurchasePrice(v, now))
				}
				if !cmd.Flags().Changed("residual") {
					in.ResidualValue = float64(estimate.ResidualValue(int(in.PurchasePrice)))
				}
				if !cmd.Flags().Changed("fuel-price") {
					in.FuelUnitPrice = estimate.DefaultFuelPrice(v.FuelCategory)
				}

				assessment, err = tax.Assess(v, now)
				if err != nil {
					zap.L().Warn("bijtelling assessment unavailable", zap.Error(err))
					assessment = nil
				}
			case eris.Is(err, rdw.ErrNotFound):
				// An unregistered plate means "no vehicle data": continue on
				// the documented defaults.
				zap.L().Warn("plate not registered, calculating with defaults", zap.String("plate", f.kenteken))
			default:
				return err
			}
		}
		if in.FuelUnitPrice == 0 && !cmd.Flags().Changed("fuel-price") {
			in.FuelUnitPrice = cfg.Defaults.FuelUnitPrice
		}

		params := costs.Params{KmAllowance: cfg.Tax.KmAllowance}
		breakdown, err := costs.Calculate(in, params, now)
		if err != nil {
			return err
		}

		if f.asJSON {
			out := struct {
				Inputs     model.CostInputs     `json:"inputs"`
				Breakdown  *model.CostBreakdown `json:"breakdown"`
				Bijtelling *tax.Assessment      `json:"bijtelling,omitempty"`
			}{in, breakdown, assessment}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(out); err != nil {
				return eris.Wrap(err, "encode output")
			}
		} else {
			if in.Vehicle != nil {
				format.WriteVehicle(os.Stdout, in.Vehicle)
				fmt.Println()
			}
			format.WriteBreakdown(os.Stdout, breakdown)
			if assessment != nil {
				fmt.Println()
				format.WriteAssessment(os.Stdout, assessment)
			}
		}

		if f.save {
			return saveComparison(cmd, in, breakdown)
		}
		return nil
	},
}

func saveComparison(cmd *cobra.Command, in model.CostInputs, breakdown *model.CostBreakdown) error {
	ctx := cmd.Context()
	st, err := initStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck

	c := &model.Comparison{
		Method:    methodPriveKopen,
		Breakdown: *breakdown,
	}
	if in.Vehicle != nil {
		c.PlateID = in.Vehicle.PlateID
		c.Vehicle = in.Vehicle
		c.VehicleSummary = in.Vehicle.Summary()
	} else {
		c.PlateID = "handmatig"
		c.VehicleSummary = fmt.Sprintf("Handmatige invoer (%s)", format.Euro(in.PurchasePrice))
	}

	if err := st.SaveComparison(ctx, c); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Opgeslagen in vergelijking (id %s).\n", c.ID)
	return nil
}

func orDefault(v, def float64) float64 {
	if v > 0 {
		return v
	}
	return def
}

func init() {
	f := &calculateFlags
	calculateCmd.Flags().StringVar(&f.kenteken, "kenteken", "", "license plate to pre-fill vehicle facts")
	calculateCmd.Flags().Float64Var(&f.price, "price", 0, "purchase price in euros")
	calculateCmd.Flags().Float64Var(&f.residual, "residual", 0, "residual value after the ownership period")
	calculateCmd.Flags().IntVar(&f.years, "years", 0, "ownership period in years")
	calculateCmd.Flags().Float64Var(&f.annualKm, "km", 0, "annual distance in km")
	calculateCmd.Flags().Float64Var(&f.businessShare, "business", 0, "business share of the distance, 0-100")
	calculateCmd.Flags().Float64Var(&f.fuelPrice, "fuel-price", 0, "fuel price per litre or kWh")
	calculateCmd.Flags().StringVar(&f.tier, "tier", "", "insurance tier: wa, wa-plus or allrisk")
	calculateCmd.Flags().Float64Var(&f.marginalRate, "marginal", 0, "marginal income tax rate, 0-100")
	calculateCmd.Flags().BoolVar(&f.asJSON, "json", false, "output as JSON")
	calculateCmd.Flags().BoolVar(&f.save, "save", false, "save the result to the comparison list")
	rootCmd.AddCommand(calculateCmd)
}
