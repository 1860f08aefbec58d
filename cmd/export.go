package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/terralink/terralink/internal/export"
	"github.com/terralink/terralink/internal/orchestrator"
)

var (
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export <query>",
	Short: "Run a siting query and export the sites",
	Long:  "Runs the full analysis for a query and writes the scored sites to geojson, shp, or xlsx.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("chat"); err != nil {
			return err
		}

		orch := orchestrator.New(initClient())
		outcome, err := orch.Submit(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		if outcome == nil || outcome.Kind != orchestrator.OutcomeAnalyzed {
			return eris.Errorf("export: query did not produce sites (outcome %s)", outcomeKind(outcome))
		}

		sites := orch.Sites()
		path := exportOut
		if path == "" {
			path = filepath.Join(cfg.Export.Dir, "sites."+exportFormat)
		}

		switch exportFormat {
		case "geojson":
			err = export.GeoJSON(sites, path)
		case "shp":
			err = export.Shapefile(sites, path)
		case "xlsx":
			err = export.XLSX(sites, path)
		default:
			return eris.Errorf("export: unknown format %q (geojson, shp, xlsx)", exportFormat)
		}
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d sites to %s\n", len(sites), path)
		return nil
	},
}

func outcomeKind(o *orchestrator.Outcome) string {
	if o == nil {
		return "empty"
	}
	return string(o.Kind)
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "geojson", "output format: geojson, shp, or xlsx")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output path (default <export.dir>/sites.<format>)")
	rootCmd.AddCommand(exportCmd)
}
