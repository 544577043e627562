package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/subodh556/AI-Teacher-sub000/internal/assess"
)

var gapsCmd = &cobra.Command{
	Use:   "gaps <user-id>",
	Short: "Show a learner's knowledge gaps across past assessments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		asJSON, _ := cmd.Flags().GetBool("json")

		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		svc := assess.New(e.store, assess.Options{Logger: e.log})
		ug, err := svc.UserGaps(cmd.Context(), args[0], limit)
		if err != nil {
			return fmt.Errorf("analyze gaps: %w", err)
		}

		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(ug)
		}

		if len(ug.Flags) == 0 {
			fmt.Fprintf(out, "No knowledge gaps found for %s.\n", ug.UserID)
		} else {
			fmt.Fprintf(out, "%-20s  %-24s  %6s  %6s\n", "Topic", "Area", "Wrong", "Total")
			fmt.Fprintln(out, strings.Repeat("─", 62))
			for _, g := range ug.Flags {
				fmt.Fprintf(out, "%-20s  %-24s  %6d  %6d\n",
					truncate(g.TopicID, 20), truncate(g.Area, 24), g.Incorrect, g.Total)
			}
		}

		if len(ug.Areas) > 0 {
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Proficiency by area")
			fmt.Fprintln(out, strings.Repeat("─", 62))
			for _, a := range ug.Areas {
				fmt.Fprintf(out, "%-24s  %3d%%  %s\n",
					truncate(a.AreaID, 24), a.Proficiency, a.UpdatedAt.Local().Format("2006-01-02 15:04"))
			}
		}
		return nil
	},
}

func init() {
	gapsCmd.Flags().IntP("limit", "n", 10, "Number of recent results to analyze (0 for all)")
	gapsCmd.Flags().Bool("json", false, "Print the analysis as JSON")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
