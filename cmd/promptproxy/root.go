package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/davetashner/promptproxy/internal/config"
	pplog "github.com/davetashner/promptproxy/internal/log"
)

// Global flag values.
var (
	verbose    bool
	quiet      bool
	noColor    bool
	configPath string
)

// rootCmd is the base command for promptproxy.
var rootCmd = &cobra.Command{
	Use:   "promptproxy",
	Short: "Serve and operate the prompt completion proxy",
	Long: `Promptproxy forwards text prompts to a hosted language model and returns
the completion as JSON. The same handler runs in AWS Lambda and locally via
"promptproxy serve". The stack commands inspect and tear down the deployed
CloudFormation stack.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		pplog.Setup(verbose, quiet)
		if noColor {
			color.NoColor = true
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default $PROMPTPROXY_CONFIG or ~/.config/promptproxy/config.yaml)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(stackCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig resolves the effective configuration for a command.
func loadConfig() (config.Config, error) {
	cfg, err := config.Resolve(config.ResolvePath(configPath, true))
	if err != nil {
		return config.Config{}, exitError(ExitError, "promptproxy: %v", err)
	}
	return cfg, nil
}
