package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/autokosten/autokosten-cli/internal/estimate"
	"github.com/autokosten/autokosten-cli/internal/format"
	"github.com/autokosten/autokosten-cli/internal/tax"
	"github.com/autokosten/autokosten-cli/pkg/rdw"
)

var lookupJSON bool

var lookupCmd = &cobra.Command{
	Use:   "lookup <kenteken>",
	Short: "Resolve a license plate against the RDW registry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		client := initRDW()
		v, err := client.Lookup(ctx, args[0])
		if err != nil {
			if eris.Is(err, rdw.ErrInvalidPlate) {
				return eris.Errorf("%q is not a valid Dutch license plate", args[0])
			}
			if eris.Is(err, rdw.ErrNotFound) {
				return eris.Errorf("no vehicle registered under %s", rdw.FormatPlate(args[0]))
			}
			return err
		}

		now := time.Now()
		assessment, err := tax.Assess(v, now)
		if err != nil {
			return err
		}

		if lookupJSON {
			out := struct {
				Vehicle    any `json:"vehicle"`
				Bijtelling any `json:"bijtelling"`
			}{v, assessment}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		}

		format.WriteVehicle(os.Stdout, v)
		fmt.Println()
		format.WriteAssessment(os.Stdout, assessment)
		fmt.Println()
		fmt.Printf("Geschatte aanschafprijs: %s\n", format.Euro(float64(estimate.PurchasePrice(v, now))))
		return nil
	},
}

func init() {
	lookupCmd.Flags().BoolVar(&lookupJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(lookupCmd)
}
