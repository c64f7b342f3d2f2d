package cmd

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/iksnae/notium/internal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	configForce bool
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Print the configuration the other commands run with: the config file merged
over the defaults, then NOTIUM_API_URL and the --api-url and --storage flags.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadEffectiveConfig()
		if err != nil {
			return err
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "# %s\n", cfg.File)
		_, err = w.Write(data)
		return err
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := internal.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if _, err := os.Stat(cfg.File); err == nil && !configForce {
			return fmt.Errorf("config file already exists: %s (use --force to overwrite)", cfg.File)
		}

		fresh := internal.DefaultConfig()
		fresh.File = cfg.File
		if err := fresh.Save(); err != nil {
			return err
		}
		internal.PrintSuccess(fmt.Sprintf("Wrote %s", fresh.File))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting in the config file",
	Long: `Change one setting and save the config file.

Keys:
  api.base-url, api.timeout, storage.path, query.retry, query.retry-delay,
  query.stale-time, guard.redirect-authenticated-guests, log.level`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := internal.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := setConfigValue(cfg, args[0], args[1]); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		internal.PrintSuccess(fmt.Sprintf("Set %s in %s", args[0], cfg.File))
		return nil
	},
}

// loadEffectiveConfig applies the global flag overrides the way openApp does
func loadEffectiveConfig() (*internal.Config, error) {
	cfg, err := internal.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if apiURL != "" {
		cfg.API.BaseURL = apiURL
	}
	if storagePath != "" {
		cfg.Storage.Path = storagePath
	}
	return cfg, nil
}

func setConfigValue(cfg *internal.Config, key, value string) error {
	var err error
	switch key {
	case "api.base-url":
		cfg.API.BaseURL = value
	case "api.timeout":
		cfg.API.Timeout, err = parsePositiveDuration(value)
	case "storage.path":
		cfg.Storage.Path = value
	case "query.retry":
		cfg.Query.Retry, err = strconv.Atoi(value)
		if err == nil && cfg.Query.Retry < 0 {
			err = fmt.Errorf("must not be negative")
		}
	case "query.retry-delay":
		cfg.Query.RetryDelay, err = time.ParseDuration(value)
	case "query.stale-time":
		cfg.Query.StaleTime, err = time.ParseDuration(value)
	case "guard.redirect-authenticated-guests":
		cfg.Guard.RedirectAuthenticatedGuests, err = strconv.ParseBool(value)
	case "log.level":
		cfg.Log.Level = value
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return nil
}

func parsePositiveDuration(value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive")
	}
	return d, nil
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd, configSetCmd)
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing config file")
}
