package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/davetashner/promptproxy/internal/config"
)

// configCmd is the parent command for config subcommands.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect promptproxy configuration",
	Long: `Inspect promptproxy configuration.

Settings come from a YAML file ($PROMPTPROXY_CONFIG, --config, or
~/.config/promptproxy/config.yaml), overlaid by environment variables
(OPENAI_MODEL, OPENAI_BASE_URL, OPENAI_SECRET_NAME, ANTHROPIC_SECRET_NAME,
AWS_REGION, PROMPTPROXY_LOG_LEVEL), with defaults for everything unset.`,
}

// configShowCmd prints the effective configuration.
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return config.Write(cmd.OutOrStdout(), &cfg)
	},
}

// configPathCmd prints the config file that would be read.
var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), config.ResolvePath(configPath, true))
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
}
