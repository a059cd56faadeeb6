package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Hanamant-YB/Land-Clearing-and-Plantation-Platform-sub001/internal/ai"
	"github.com/Hanamant-YB/Land-Clearing-and-Plantation-Platform-sub001/pkg/models"
)

var shortlistCmd = &cobra.Command{
	Use:   "shortlist",
	Short: "Generate and inspect contractor shortlists",
}

var generateShortlistCmd = &cobra.Command{
	Use:   "generate <job-id>",
	Short: "Rank eligible contractors for a job and store the shortlist",
	Args:  cobra.ExactArgs(1),
	Example: `  landmatch shortlist generate 3f0c9a52-...
  landmatch shortlist generate 3f0c9a52-... --limit 5
  landmatch shortlist generate 3f0c9a52-... --limit 0   # keep every eligible contractor`,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := appFrom(cmd)
		if err != nil {
			return err
		}

		limit := application.Config.ShortlistLimit
		if cmd.Flags().Changed("limit") {
			limit, _ = cmd.Flags().GetInt("limit")
		}
		if limit < 0 {
			return fmt.Errorf("--limit must not be negative: %w", models.ErrInvalidArgument)
		}

		res, err := application.Shortlists.Generate(cmd.Context(), args[0], limit)
		if err != nil {
			return fmt.Errorf("generate shortlist: %w", err)
		}

		cmd.Println(titleStyle.Render(fmt.Sprintf("Shortlist for %s", res.JobID)))
		if res.Source == ai.SourceFallback {
			cmd.Println(warnStyle.Render("Prediction service unavailable, scores come from the local heuristic."))
		}
		printEntries(cmd, res.Entries)
		return nil
	},
}

var showShortlistCmd = &cobra.Command{
	Use:   "show <job-id>",
	Short: "Show the stored shortlist of a job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := appFrom(cmd)
		if err != nil {
			return err
		}

		job, err := application.Store.GetJob(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("fetch job: %w", err)
		}

		if !job.HasShortlist() {
			cmd.Printf("No shortlist yet. Run 'landmatch shortlist generate %s'\n", job.ID)
			return nil
		}

		cmd.Println(titleStyle.Render(fmt.Sprintf("Shortlist for %s", job.Title)))
		if job.ShortlistGeneratedAt != nil {
			cmd.Printf("%s %s\n", labelStyle.Render("Generated:"), job.ShortlistGeneratedAt.Format("Jan 2, 2006 15:04"))
		}
		printEntries(cmd, job.Shortlist)
		return nil
	},
}

var explainShortlistCmd = &cobra.Command{
	Use:   "explain <job-id> <contractor-id>",
	Short: "Break down how a contractor scores for a job",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := appFrom(cmd)
		if err != nil {
			return err
		}

		b, err := application.Shortlists.Breakdown(cmd.Context(), args[0], args[1])
		if err != nil {
			return fmt.Errorf("score breakdown: %w", err)
		}

		cmd.Println(titleStyle.Render(fmt.Sprintf("%s for %s work", b.ContractorID, titleCase(b.WorkType))))
		if !b.Eligible {
			cmd.Println(warnStyle.Render("No rate declared for this work type, so this contractor is never shortlisted."))
		} else {
			cmd.Printf("%s %.2f per acre, estimated cost %s\n", labelStyle.Render("Rate:"), b.Rate, formatCost(b.EstimatedCost))
		}

		rows := []struct {
			name          string
			score, weight float64
		}{
			{"Skill match", b.Factors.SkillMatch, b.Weights.SkillMatch},
			{"Reliability", b.Factors.Reliability, b.Weights.Reliability},
			{"Experience", b.Factors.Experience, b.Weights.Experience},
			{"Location", b.Factors.Location, b.Weights.Location},
			{"Budget", b.Factors.Budget, b.Weights.Budget},
			{"Availability", b.Factors.Availability, b.Weights.Availability},
			{"Quality", b.Factors.Quality, b.Weights.Quality},
		}

		cmd.Println()
		for _, r := range rows {
			cmd.Printf("  %-14s %s  × %.2f\n", r.name, scoreBar(int(r.score+0.5)), r.weight)
		}
		cmd.Printf("\n%s %d\n", labelStyle.Render("Weighted Score:"), b.OverallScore)
		cmd.Println(valueStyle.Render(b.Explanation))
		return nil
	},
}

func printEntries(cmd *cobra.Command, entries []models.ShortlistEntry) {
	for _, e := range entries {
		name := e.ContractorName
		if name == "" {
			name = e.ContractorID
		}
		cmd.Printf("\n%s %s\n", labelStyle.Render(fmt.Sprintf("#%d", e.Rank)), name)
		cmd.Printf("   %s %s\n", labelStyle.Render("Score:"), scoreBar(e.OverallScore))
		cmd.Printf("   %s %s\n", labelStyle.Render("Estimated Cost:"), formatCost(e.EstimatedCost))
		cmd.Printf("   %s\n", valueStyle.Render(e.Explanation))
	}
}

func init() {
	rootCmd.AddCommand(shortlistCmd)
	shortlistCmd.AddCommand(generateShortlistCmd)
	shortlistCmd.AddCommand(showShortlistCmd)
	shortlistCmd.AddCommand(explainShortlistCmd)

	generateShortlistCmd.Flags().Int("limit", 0, "Number of contractors to keep (0 keeps all; defaults to shortlist_limit)")
}
