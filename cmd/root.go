package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Hanamant-YB/Land-Clearing-and-Plantation-Platform-sub001/internal/app"
)

var rootCmd = &cobra.Command{
	Use:   "landmatch",
	Short: "Contractor shortlisting for land-work jobs",
	Long: `landmatch ranks contractors for land-work jobs. It scores every contractor
with a declared rate for the job's work type, asks the prediction service for a
final score (falling back to a local heuristic), and stores an explained
shortlist with estimated costs.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		application, err := app.NewApp(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to initialize app: %w", err)
		}

		cmd.SetContext(app.WithApp(cmd.Context(), application))
		current = application
		return nil
	},
}

// current is closed by Execute once the command returns
var current *app.App

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)

	if current != nil {
		current.Close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error:"), err)
		os.Exit(1)
	}
}

// appFrom returns the App set up by PersistentPreRunE
func appFrom(cmd *cobra.Command) (*app.App, error) {
	application := app.FromContext(cmd.Context())
	if application == nil {
		return nil, fmt.Errorf("application not initialized")
	}
	return application, nil
}
