package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Hanamant-YB/Land-Clearing-and-Plantation-Platform-sub001/internal/ai"
	"github.com/Hanamant-YB/Land-Clearing-and-Plantation-Platform-sub001/pkg/models"
)

var jobCmd = &cobra.Command{
	Use:   "job",
	Short: "Manage land-work jobs",
	Long:  "Import, list and view jobs, and record which contractor was selected",
}

var importJobsCmd = &cobra.Command{
	Use:   "import",
	Short: "Post jobs from a JSON file and shortlist contractors for them",
	Example: `  landmatch job import --file jobs.json
  landmatch job import --file jobs.json --no-shortlist`,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := appFrom(cmd)
		if err != nil {
			return err
		}

		path, _ := cmd.Flags().GetString("file")
		if path == "" {
			return fmt.Errorf("--file is required")
		}

		jobs, err := readRecords[models.Job](path)
		if err != nil {
			return err
		}

		noShortlist, _ := cmd.Flags().GetBool("no-shortlist")

		for _, j := range jobs {
			res, err := application.PostJob(cmd.Context(), j, !noShortlist)
			if err != nil {
				return err
			}
			cmd.Printf("✓ Job saved: %s (ID: %s)\n", j.Title, j.ID)
			if res != nil {
				cmd.Printf("  %s %d contractor(s)\n", labelStyle.Render("Shortlisted:"), len(res.Entries))
				if res.Source == ai.SourceFallback {
					cmd.Println("  " + warnStyle.Render("Prediction service unavailable, scores come from the local heuristic."))
				}
			} else if !noShortlist {
				cmd.Println("  " + warnStyle.Render("No shortlist yet, see the log for details."))
			}
		}
		return nil
	},
}

var listJobsCmd = &cobra.Command{
	Use:   "list",
	Short: "List all jobs",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := appFrom(cmd)
		if err != nil {
			return err
		}

		jobs, err := application.Store.ListJobs(cmd.Context())
		if err != nil {
			return fmt.Errorf("fetch jobs: %w", err)
		}

		if len(jobs) == 0 {
			cmd.Println("No jobs found. Import jobs with 'landmatch job import --file FILE'")
			return nil
		}

		cmd.Println(titleStyle.Render("Jobs"))
		for i, job := range jobs {
			cmd.Printf("\n%s. %s\n", labelStyle.Render(fmt.Sprintf("%d", i+1)), job.Title)
			cmd.Printf("   %s %s\n", labelStyle.Render("ID:"), job.ID)
			cmd.Printf("   %s %s\n", labelStyle.Render("Work Type:"), titleCase(job.WorkType))
			if job.Location != "" {
				cmd.Printf("   %s %s\n", labelStyle.Render("Location:"), job.Location)
			}
			if job.HasShortlist() {
				cmd.Printf("   %s %d contractor(s)\n", labelStyle.Render("Shortlist:"), len(job.Shortlist))
			}
			if job.SelectedContractorID != "" {
				cmd.Printf("   %s %s\n", labelStyle.Render("Selected:"), job.SelectedContractorID)
			}
			cmd.Printf("   %s %s\n", labelStyle.Render("Added:"), job.CreatedAt.Format("Jan 2, 2006"))
		}
		return nil
	},
}

var showJobCmd = &cobra.Command{
	Use:   "show <job-id>",
	Short: "Show details of a specific job",
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

		cmd.Println(titleStyle.Render(job.Title))
		cmd.Printf("%s %s\n", labelStyle.Render("ID:"), job.ID)
		cmd.Printf("%s %s\n", labelStyle.Render("Work Type:"), titleCase(job.WorkType))
		if job.LandSize > 0 {
			cmd.Printf("%s %.2f acres\n", labelStyle.Render("Land Size:"), job.LandSize)
		}
		if job.Location != "" {
			cmd.Printf("%s %s\n", labelStyle.Render("Location:"), job.Location)
		}
		if job.Geo != nil {
			cmd.Printf("%s %.5f, %.5f\n", labelStyle.Render("Coordinates:"), job.Geo.Lat, job.Geo.Lng)
		}
		if job.Budget > 0 {
			cmd.Printf("%s %.2f\n", labelStyle.Render("Budget:"), job.Budget)
		}
		if len(job.RequiredSkills) > 0 {
			cmd.Printf("%s %s\n", labelStyle.Render("Required Skills:"), strings.Join(job.RequiredSkills, ", "))
		}
		cmd.Printf("%s %s\n", labelStyle.Render("Added:"), job.CreatedAt.Format("Jan 2, 2006 15:04"))

		if job.Description != "" {
			cmd.Println(labelStyle.Render("\nDescription:"))
			cmd.Println(job.Description)
		}

		if job.ShortlistGeneratedAt != nil {
			cmd.Printf("\n%s %s (%d contractors)\n", labelStyle.Render("Shortlist Generated:"),
				job.ShortlistGeneratedAt.Format("Jan 2, 2006 15:04"), len(job.Shortlist))
		}
		if job.SelectedContractorID != "" {
			picked := "outside the shortlist"
			if job.WasAISelected != nil && *job.WasAISelected {
				picked = "from the shortlist"
			}
			cmd.Printf("%s %s (%s)\n", labelStyle.Render("Selected:"), job.SelectedContractorID, picked)
			cmd.Printf("%s %.0f%%\n", labelStyle.Render("Work Type Success Rate:"), job.AISuccessRate*100)
		}
		return nil
	},
}

var selectContractorCmd = &cobra.Command{
	Use:   "select <job-id> <contractor-id>",
	Short: "Record the contractor a landowner selected for a job",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := appFrom(cmd)
		if err != nil {
			return err
		}

		sel, err := application.Analytics.UpdateAISuccessTracking(cmd.Context(), args[0], args[1])
		if err != nil {
			return fmt.Errorf("record selection: %w", err)
		}

		if sel.WasAISelected {
			cmd.Printf("✓ Selection recorded: %s was on the shortlist\n", sel.ContractorID)
		} else {
			cmd.Printf("✓ Selection recorded: %s was not on the shortlist\n", sel.ContractorID)
		}
		cmd.Printf("%s %.0f%% (%d of %d jobs)\n", labelStyle.Render("Work Type Success Rate:"),
			sel.WorkTypeRate.Rate*100, sel.WorkTypeRate.Successes, sel.WorkTypeRate.Total)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(jobCmd)
	jobCmd.AddCommand(importJobsCmd)
	jobCmd.AddCommand(listJobsCmd)
	jobCmd.AddCommand(showJobCmd)
	jobCmd.AddCommand(selectContractorCmd)

	importJobsCmd.Flags().String("file", "", "JSON file with one job or an array of them")
	importJobsCmd.Flags().Bool("no-shortlist", false, "Save the jobs without generating shortlists")
}
