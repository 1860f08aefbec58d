package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/terralink/terralink/internal/mapview"
	"github.com/terralink/terralink/internal/model"
	"github.com/terralink/terralink/internal/orchestrator"
	"github.com/terralink/terralink/internal/params"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive siting session",
	Long:  "Starts a conversational session. Type a siting query, or /help for session commands.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("chat"); err != nil {
			return err
		}

		orch := orchestrator.New(initClient())
		prm := params.NewStore()

		out := cmd.OutOrStdout()
		printed := printTranscript(out, orch.Messages(), 0)

		scanner := bufio.NewScanner(os.Stdin)
		fmt.Fprint(out, "> ")
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())

			if strings.HasPrefix(line, "/") {
				if quit := runSessionCommand(out, orch, prm, line); quit {
					return nil
				}
				fmt.Fprint(out, "> ")
				continue
			}

			outcome, err := orch.Submit(cmd.Context(), line)
			if err != nil {
				if eris.Is(err, orchestrator.ErrBusy) {
					fmt.Fprintln(out, "A query is already running, please wait.")
					fmt.Fprint(out, "> ")
					continue
				}
				return err
			}

			printed = printTranscript(out, orch.Messages(), printed)
			if outcome != nil && outcome.Kind == orchestrator.OutcomeAnalyzed {
				printMapSummary(out, orch.Sites())
			}
			fmt.Fprint(out, "> ")
		}
		return eris.Wrap(scanner.Err(), "read input")
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

// printTranscript prints messages from index from onward and returns the new
// high-water mark.
func printTranscript(out io.Writer, msgs []model.Message, from int) int {
	for _, m := range msgs[from:] {
		switch m.Role {
		case model.RoleUser:
			// The user just typed it; no echo.
		default:
			fmt.Fprintf(out, "agent: %s\n", m.Text)
		}
	}
	return len(msgs)
}

// runSessionCommand handles slash commands. Returns true on /quit.
func runSessionCommand(out io.Writer, orch *orchestrator.Orchestrator, prm *params.Store, line string) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/quit", "/exit":
		return true

	case "/help":
		fmt.Fprintln(out, `Commands:
  /map                      show the current map view
  /datasets                 list active datasets
  /rm <n>                   remove dataset n
  /params                   list analysis parameters
  /set <name> <field> <v>   set a parameter field (weight, min, max)
  /predictions              show market predictions
  /quit                     leave the session`)

	case "/map":
		printMapView(out, orch.Sites())

	case "/datasets":
		datasets := orch.Datasets()
		if len(datasets) == 0 {
			fmt.Fprintln(out, "No datasets registered.")
			break
		}
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "#\tNAME\tSOURCE\tSTATUS")
		for i, d := range datasets {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", i, d.Name, d.SourceID, d.Status)
		}
		w.Flush()

	case "/rm":
		if len(fields) != 2 {
			fmt.Fprintln(out, "usage: /rm <n>")
			break
		}
		i, err := strconv.Atoi(fields[1])
		if err != nil {
			fmt.Fprintln(out, "usage: /rm <n>")
			break
		}
		orch.RemoveDataset(i)
		fmt.Fprintf(out, "%d datasets remain.\n", len(orch.Datasets()))

	case "/params":
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "CRITERION\tWEIGHT\tMIN\tMAX\tUNIT")
		for _, name := range prm.Criteria() {
			p, _ := prm.Get(name)
			fmt.Fprintf(w, "%s\t%.1f\t%.2f\t%.2f\t%s\n", name, p.Weight, p.Min, p.Max, p.Unit)
		}
		w.Flush()
		fmt.Fprintf(out, "Weight sum: %.1f\n", prm.WeightSum())

	case "/set":
		if len(fields) != 4 {
			fmt.Fprintln(out, "usage: /set <criterion> <field> <value>")
			break
		}
		if err := prm.Update(fields[1], fields[2], fields[3]); err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			break
		}
		fmt.Fprintf(out, "%s.%s = %s\n", fields[1], fields[2], fields[3])

	case "/predictions":
		p := orch.Predictions()
		if p == nil {
			fmt.Fprintln(out, "No predictions yet; run an analysis first.")
			break
		}
		fmt.Fprintf(out, "2025: %s\n2030: %s\nConfidence: %.0f/100\n", p.Forecast2025, p.Forecast2030, p.ConfidenceScore)
		for _, tr := range p.KeyTrends {
			fmt.Fprintf(out, "  trend: %s\n", tr)
		}
		for _, rf := range p.RiskFactors {
			fmt.Fprintf(out, "  risk:  %s\n", rf)
		}

	default:
		fmt.Fprintf(out, "unknown command %s (try /help)\n", fields[0])
	}
	return false
}

// printMapSummary prints a one-line recap after a successful analysis.
func printMapSummary(out io.Writer, sites []model.Site) {
	if len(sites) == 0 {
		return
	}
	view := mapview.Render(sites)
	fmt.Fprintf(out, "[map] %d markers, centered on %.4f, %.4f (zoom %d). /map for details.\n",
		len(view.Markers), view.Viewport.Lat, view.Viewport.Lon, view.Viewport.Zoom)
}

// printMapView prints the full marker list and legend.
func printMapView(out io.Writer, sites []model.Site) {
	if len(sites) == 0 {
		fmt.Fprintln(out, "No sites to display; run a query first.")
		return
	}

	view := mapview.Render(sites)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SITE\tLAT\tLON\tSCORE\tBUCKET\tCOLOR")
	for i, m := range view.Markers {
		fmt.Fprintf(w, "%d\t%.4f\t%.4f\t%.0f\t%s\t%s\n",
			m.SiteID, m.Lat, m.Lon, sites[i].Score, m.Visual.Bucket, m.Visual.Color)
	}
	w.Flush()

	for _, e := range view.Legend.Entries {
		fmt.Fprintf(out, "%s %s\n", e.Color, e.Label)
	}
	fmt.Fprintf(out, "%d sites displayed.\n", view.Legend.SiteCount)
}
