package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Hanamant-YB/Land-Clearing-and-Plantation-Platform-sub001/pkg/models"
)

var contractorCmd = &cobra.Command{
	Use:   "contractor",
	Short: "Manage the contractor pool",
	Long:  "Import, list and inspect contractor profiles",
}

var importContractorsCmd = &cobra.Command{
	Use:     "import",
	Short:   "Import contractor profiles from a JSON file",
	Example: `  landmatch contractor import --file contractors.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := appFrom(cmd)
		if err != nil {
			return err
		}

		path, _ := cmd.Flags().GetString("file")
		if path == "" {
			return fmt.Errorf("--file is required")
		}

		contractors, err := readRecords[models.Contractor](path)
		if err != nil {
			return err
		}

		for _, c := range contractors {
			if c.Name == "" {
				return fmt.Errorf("contractor %q has no name: %w", c.ID, models.ErrInvalidArgument)
			}
			if err := application.Store.SaveContractor(cmd.Context(), c); err != nil {
				return err
			}
		}

		cmd.Printf("✓ Imported %d contractor(s)\n", len(contractors))
		return nil
	},
}

var listContractorsCmd = &cobra.Command{
	Use:   "list",
	Short: "List all contractors",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := appFrom(cmd)
		if err != nil {
			return err
		}

		contractors, err := application.Store.ListContractors(cmd.Context())
		if err != nil {
			return fmt.Errorf("fetch contractors: %w", err)
		}

		if len(contractors) == 0 {
			cmd.Println("No contractors found. Import some with 'landmatch contractor import --file FILE'")
			return nil
		}

		cmd.Println(titleStyle.Render("Contractors"))
		for i, c := range contractors {
			cmd.Printf("\n%s. %s\n", labelStyle.Render(fmt.Sprintf("%d", i+1)), c.Name)
			cmd.Printf("   %s %s\n", labelStyle.Render("ID:"), c.ID)
			cmd.Printf("   %s %.1f (%d jobs)\n", labelStyle.Render("Rating:"), c.Rating, c.CompletedJobs)
			if len(c.Rates) > 0 {
				cmd.Printf("   %s %s\n", labelStyle.Render("Work Types:"), strings.Join(rateLabels(c.Rates), ", "))
			}
			if c.AI.AIScore > 0 {
				cmd.Printf("   %s %.2f\n", labelStyle.Render("AI Score:"), c.AI.AIScore)
			}
		}
		return nil
	},
}

var showContractorCmd = &cobra.Command{
	Use:   "show <contractor-id>",
	Short: "Show a contractor profile and AI score history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := appFrom(cmd)
		if err != nil {
			return err
		}

		c, err := application.Store.GetContractor(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("fetch contractor: %w", err)
		}

		cmd.Println(titleStyle.Render(c.Name))
		cmd.Printf("%s %s\n", labelStyle.Render("ID:"), c.ID)
		cmd.Printf("%s %.1f\n", labelStyle.Render("Rating:"), c.Rating)
		cmd.Printf("%s %d completed, %d pending, %d active\n", labelStyle.Render("Jobs:"),
			c.CompletedJobs, c.PendingJobs, c.ActiveJobs)
		if c.Availability != "" {
			cmd.Printf("%s %s\n", labelStyle.Render("Availability:"), c.Availability)
		}
		if len(c.Skills) > 0 {
			cmd.Printf("%s %s\n", labelStyle.Render("Skills:"), strings.Join(c.Skills, ", "))
		}
		if c.MaxBudget > 0 {
			cmd.Printf("%s %.0f - %.0f\n", labelStyle.Render("Budget Range:"), c.MinBudget, c.MaxBudget)
		}

		if len(c.Rates) > 0 {
			cmd.Println(labelStyle.Render("\nRates per acre:"))
			for _, wt := range sortedKeys(c.Rates) {
				cmd.Printf("  %-20s %s\n", titleCase(wt), valueStyle.Render(fmt.Sprintf("%.2f", c.Rates[wt])))
			}
		}

		ai := c.AI
		cmd.Println(labelStyle.Render("\nAI Scores:"))
		cmd.Printf("  %-20s %.2f\n", "Rolling score", ai.AIScore)
		cmd.Printf("  %-20s %.2f\n", "Latest job", ai.LatestJobAIScore)
		cmd.Printf("  %-20s %.2f\n", "Skill match", ai.SkillMatchScore)
		cmd.Printf("  %-20s %.2f\n", "Reliability", ai.ReliabilityScore)
		cmd.Printf("  %-20s %.2f\n", "Experience", ai.ExperienceScore)
		cmd.Printf("  %-20s %.2f\n", "Location", ai.LocationScore)
		cmd.Printf("  %-20s %.2f\n", "Budget", ai.BudgetCompatibility)
		cmd.Printf("  %-20s %.2f\n", "Quality", ai.QualityScore)

		if n := len(ai.ShortlistHistory); n > 0 {
			cmd.Printf("\n%s %d\n", labelStyle.Render("Shortlisted:"), n)
			for _, h := range ai.ShortlistHistory {
				cmd.Printf("  %s  %.2f\n", h.Date.Format("Jan 2, 2006 15:04"), h.Score)
			}
		}
		return nil
	},
}

func rateLabels(rates models.RateTable) []string {
	labels := []string{}
	for _, wt := range sortedKeys(rates) {
		if rates[wt] > 0 {
			labels = append(labels, titleCase(wt))
		}
	}
	return labels
}

func sortedKeys(rates models.RateTable) []string {
	keys := make([]string, 0, len(rates))
	for k := range rates {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func init() {
	rootCmd.AddCommand(contractorCmd)
	contractorCmd.AddCommand(importContractorsCmd)
	contractorCmd.AddCommand(listContractorsCmd)
	contractorCmd.AddCommand(showContractorCmd)

	importContractorsCmd.Flags().String("file", "", "JSON file with one contractor or an array of them")
}
