package cmd

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/Hanamant-YB/Land-Clearing-and-Plantation-Platform-sub001/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  "View and update configuration settings",
}

var showConfigCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.AppConfig
		if cfg == nil {
			return fmt.Errorf("configuration not loaded")
		}

		cmd.Println(titleStyle.Render("Configuration"))
		cmd.Printf("%s %s\n", labelStyle.Render("Config File:"), config.GetConfigPath())
		cmd.Printf("%s %s\n", labelStyle.Render("Database:"), cfg.DatabasePath)
		cmd.Printf("%s %s\n", labelStyle.Render("Prediction URL:"), orNone(cfg.PredictionURL))
		cmd.Printf("%s %s\n", labelStyle.Render("Prediction Timeout:"), cfg.PredictionTimeout)

		if cfg.RedisURL != "" {
			cmd.Printf("%s %s\n", labelStyle.Render("Redis Events:"), "✓ Configured")
		} else {
			cmd.Printf("%s %s\n", labelStyle.Render("Redis Events:"), "✗ Disabled")
		}

		cmd.Printf("%s %s\n", labelStyle.Render("HTTP Port:"), cfg.HTTPPort)
		cmd.Printf("%s %s\n", labelStyle.Render("Analytics Schedule:"), cfg.AnalyticsSchedule)
		cmd.Printf("%s %d\n", labelStyle.Render("Shortlist Limit:"), cfg.ShortlistLimit)
		cmd.Printf("%s %s (%s)\n", labelStyle.Render("Logging:"), cfg.LogLevel, cfg.LogFormat)
		if cfg.FallbackSeed != 0 {
			cmd.Printf("%s %d\n", labelStyle.Render("Fallback Seed:"), cfg.FallbackSeed)
		}
		return nil
	},
}

var setConfigCmd = &cobra.Command{
	Use:   "set",
	Short: "Update a configuration value",
	Example: `  landmatch config set --key prediction_url --value http://ml:5001/predict
  landmatch config set --key redis_url --value redis://localhost:6379/0
  landmatch config set --key shortlist_limit --value 5
  landmatch config set --key analytics_schedule --value "@every 30m"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		key, _ := cmd.Flags().GetString("key")
		value, _ := cmd.Flags().GetString("value")

		if key == "" {
			return fmt.Errorf("--key is required")
		}
		if !slices.Contains(config.Keys(), key) {
			return fmt.Errorf("invalid key, must be one of: %v", config.Keys())
		}

		if err := config.Set(key, value); err != nil {
			return fmt.Errorf("update config: %w", err)
		}

		cmd.Printf("✓ Configuration updated: %s\n", key)

		if err := config.Initialize(); err != nil {
			cmd.PrintErrln(warnStyle.Render(fmt.Sprintf("Warning: could not reload config: %v", err)))
		}
		return nil
	},
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(showConfigCmd)
	configCmd.AddCommand(setConfigCmd)

	setConfigCmd.Flags().String("key", "", "Configuration key")
	setConfigCmd.Flags().String("value", "", "Configuration value")
}
