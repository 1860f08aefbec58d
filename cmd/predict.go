package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/terralink/terralink/pkg/siteapi"
)

var predictCmd = &cobra.Command{
	Use:   "predict <energy-type> <region>",
	Short: "Fetch market trend predictions for a region",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("chat"); err != nil {
			return err
		}

		resp, err := initClient().Predict(cmd.Context(), siteapi.PredictRequest{
			EnergyType: args[0],
			Region:     args[1],
		})
		if err != nil {
			return eris.Wrap(err, "predict")
		}
		if !resp.Success {
			return eris.Errorf("predict: %s", resp.Error)
		}

		out := cmd.OutOrStdout()
		p := resp.Predictions
		fmt.Fprintf(out, "%s outlook for %s (confidence %.0f/100)\n", resp.EnergyType, resp.Region, p.ConfidenceScore)
		fmt.Fprintf(out, "2025: %s\n", p.Forecast2025)
		fmt.Fprintf(out, "2030: %s\n", p.Forecast2030)
		for _, tr := range p.KeyTrends {
			fmt.Fprintf(out, "  trend: %s\n", tr)
		}
		for _, rf := range p.RiskFactors {
			fmt.Fprintf(out, "  risk:  %s\n", rf)
		}
		for _, op := range p.Opportunities {
			fmt.Fprintf(out, "  opportunity: %s\n", op)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(predictCmd)
}
