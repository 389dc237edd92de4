package cli

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/git-analyzer/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change settings stored in ~/.git-analyzer/config.toml.

Keys:
  data.root                directory holding one folder per repository
  download.mode            sequential or concurrent
  download.concurrency     commit details fetched at once in concurrent mode
  api.requests_per_second  request spacing, 0 disables it
  api.base_url             GitHub REST API base URL
  api.token_env            environment variable holding the API token
  api.timeout_seconds      per-request timeout`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	defaults := settingsService.GetDefaults()

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	table := newTable(cmd.OutOrStdout(), []string{"Key", "Value", "Default"})
	for _, key := range settingsService.Keys() {
		table.Append([]string{key, settingValue(settings, key), settingValue(&defaults, key)})
	}
	table.Render()

	if err := settings.Validate(); err != nil {
		cmd.Println()
		cmd.Printf("Warning: %v\n", err)
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	cmd.Printf("%s = %s\n", key, settingValue(settings, key))
	return nil
}

// settingValue formats one setting for display.
func settingValue(s *domain.AppSettings, key string) string {
	switch key {
	case "data.root":
		return s.DataRoot
	case "download.mode":
		return s.Mode.String()
	case "download.concurrency":
		return strconv.Itoa(s.Concurrency)
	case "api.requests_per_second":
		if s.RequestsPerSecond <= 0 {
			return "unlimited"
		}
		return strconv.FormatFloat(s.RequestsPerSecond, 'f', -1, 64)
	case "api.base_url":
		return s.APIBaseURL
	case "api.token_env":
		return s.TokenEnv
	case "api.timeout_seconds":
		return strconv.Itoa(int(s.Timeout / time.Second))
	default:
		return ""
	}
}
