package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Shortlist success rates and usage",
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show success rates per work type and recent usage",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := appFrom(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		overall, err := application.Analytics.SuccessRate(ctx)
		if err != nil {
			return err
		}
		rates, err := application.Analytics.WorkTypeSuccessRates(ctx)
		if err != nil {
			return err
		}
		usage, err := application.Analytics.UsageStats(ctx)
		if err != nil {
			return err
		}

		cmd.Println(titleStyle.Render("Shortlist Success"))
		cmd.Printf("%s %.1f%% (%d of %d decided jobs picked from the shortlist)\n",
			labelStyle.Render("Overall:"), overall.Rate*100, overall.Successes, overall.Total)

		if len(rates) > 0 {
			workTypes := make([]string, 0, len(rates))
			for wt := range rates {
				workTypes = append(workTypes, wt)
			}
			sort.Strings(workTypes)

			cmd.Println()
			for _, wt := range workTypes {
				r := rates[wt]
				cmd.Printf("  %-20s %5.1f%%  (%d/%d)\n", titleCase(wt), r.Rate*100, r.Successes, r.Total)
			}
		}

		cmd.Println(titleStyle.Render("Usage"))
		cmd.Printf("%s %d (%d with a shortlist)\n", labelStyle.Render("Jobs:"), usage.TotalJobs, usage.ShortlistedJobs)
		cmd.Printf("%s %d (%d with a shortlist)\n", labelStyle.Render("Last 7 days:"), usage.RecentJobs, usage.RecentShortlisted)
		return nil
	},
}

var topCmd = &cobra.Command{
	Use:   "top",
	Short: "List contractors with the best AI score",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := appFrom(cmd)
		if err != nil {
			return err
		}

		limit, _ := cmd.Flags().GetInt("limit")
		if limit < 0 {
			return fmt.Errorf("--limit must not be negative")
		}

		top, err := application.Analytics.TopContractors(cmd.Context(), limit)
		if err != nil {
			return err
		}
		if len(top) == 0 {
			cmd.Println("No contractors have been scored yet. Generate a shortlist first.")
			return nil
		}

		cmd.Println(titleStyle.Render("Top Contractors"))
		for i, c := range top {
			cmd.Printf("%s %s (%s)\n", labelStyle.Render(fmt.Sprintf("%d.", i+1)), c.Name, c.ID)
			cmd.Printf("   %s %s  %s %s  %s %d\n",
				labelStyle.Render("AI:"), scoreBar(int(c.AIScore*100+0.5)),
				labelStyle.Render("Latest:"), scoreBar(int(c.LatestJobAIScore*100+0.5)),
				labelStyle.Render("Shortlisted:"), c.Shortlisted)
		}
		return nil
	},
}

var recomputeCmd = &cobra.Command{
	Use:   "recompute",
	Short: "Recompute and store the success rate of every work type",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := appFrom(cmd)
		if err != nil {
			return err
		}

		rates, err := application.Analytics.RecomputeAll(cmd.Context())
		if err != nil {
			return err
		}
		cmd.Printf("✓ Success rates updated for %d work type(s)\n", len(rates))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyticsCmd)
	analyticsCmd.AddCommand(summaryCmd)
	analyticsCmd.AddCommand(topCmd)
	analyticsCmd.AddCommand(recomputeCmd)

	topCmd.Flags().Int("limit", 10, "Number of contractors to list (0 lists all)")
}
