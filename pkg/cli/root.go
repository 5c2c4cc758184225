package cli

import (
	"github.com/spf13/cobra"

	"github.com/jmleung/studylog/pkg/config"
	"github.com/jmleung/studylog/pkg/log"
)

// NewRootCmd builds the root cobra command, wires the persistent logging
// flags, and loads configuration before any subcommand runs. Subcommands get
// their dependencies through the shared Deps value, which PersistentPreRunE
// fills in.
func NewRootCmd() *cobra.Command {
	var logLevel string
	var logJSON bool
	var configFile string

	deps := &Deps{}

	cmd := &cobra.Command{
		Use:          "studylog",
		Short:        "content store and publishing tool for the study site",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var envFiles []string
			if configFile != "" {
				envFiles = append(envFiles, configFile)
			}
			cfg, err := config.Load(envFiles...)
			if err != nil {
				return err
			}
			deps.Config = cfg
			deps.Logger = log.New(log.Config{
				Out:   cmd.ErrOrStderr(),
				Level: log.ParseLevel(logLevel),
				JSON:  logJSON,
			})
			cmd.SetContext(log.WithContext(cmd.Context(), deps.Logger))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "minimum log level")
	cmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "output logs as JSON")
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "env file to load (default ./.env)")

	cmd.AddCommand(
		NewServeCmd(deps),
		NewListCmd(deps),
		NewGetCmd(deps),
		NewPublishCmd(deps),
		NewSearchCmd(deps),
		NewReindexCmd(deps),
	)

	return cmd
}
