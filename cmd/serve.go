package cmd

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Hanamant-YB/Land-Clearing-and-Plantation-Platform-sub001/internal/api"
	"github.com/Hanamant-YB/Land-Clearing-and-Plantation-Platform-sub001/internal/scheduler"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the success-rate scheduler",
	Example: `  landmatch serve
  landmatch serve --addr :9090`,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := appFrom(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		addr := application.Config.HTTPPort
		if cmd.Flags().Changed("addr") {
			addr, _ = cmd.Flags().GetString("addr")
		}

		if application.Log.GetLevel() < logrus.DebugLevel {
			gin.SetMode(gin.ReleaseMode)
		}

		sched := scheduler.New(application.Config.AnalyticsSchedule, func(ctx context.Context) error {
			_, err := application.Analytics.RecomputeAll(ctx)
			return err
		}, application.Log)
		if err := sched.Start(ctx); err != nil {
			return err
		}
		defer sched.Stop()

		handler := api.NewHandler(
			application.Shortlists,
			application.Store,
			application.Analytics,
			application.Config.ShortlistLimit,
			application.Log,
		)
		return handler.Serve(ctx, addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "Listen address (defaults to http_port)")
}
