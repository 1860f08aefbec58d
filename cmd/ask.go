package main

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/terralink/terralink/internal/orchestrator"
)

var askJSON bool

var askCmd = &cobra.Command{
	Use:   "ask <query>",
	Short: "Run a single siting query",
	Long:  "Submits one query through the full chat-and-analyze sequence and prints the result.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("chat"); err != nil {
			return err
		}

		orch := orchestrator.New(initClient())
		out := cmd.OutOrStdout()

		outcome, err := orch.Submit(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		if outcome == nil {
			return nil
		}

		if askJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{
				"outcome":     outcome.Kind,
				"sites":       orch.Sites(),
				"predictions": orch.Predictions(),
				"datasets":    orch.Datasets(),
			})
		}

		printTranscript(out, orch.Messages(), 1)
		if outcome.Kind == orchestrator.OutcomeAnalyzed {
			printMapView(out, orch.Sites())
		}
		return nil
	},
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "print the result as JSON")
	rootCmd.AddCommand(askCmd)
}
