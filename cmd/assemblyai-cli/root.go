package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"assemblyai-cli/internal/logging"
)

const rootLongHelp = `Transcribe audio and video files with the AssemblyAI API.

Settings are resolved in order of precedence: explicit flags, the config
file at ~/.assemblyai-cli/config.json, then built-in defaults. The API key
is looked up as: --api-key flag, ASSEMBLYAI_API_KEY, base64-encoded
ASSEMBLY_AI_KEY, then the config file.

Run 'assemblyai-cli init' to store an API key.`

type commandContext struct {
	logLevel  string
	logFormat string
	logger    *slog.Logger
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	if c.logger != nil {
		return c.logger, nil
	}
	logger, err := logging.New(os.Stderr, logging.Options{Level: c.logLevel, Format: c.logFormat})
	if err != nil {
		return nil, err
	}
	c.logger = logger
	return logger, nil
}

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}

	rootCmd := &cobra.Command{
		Use:           "assemblyai-cli",
		Short:         "AssemblyAI transcription CLI",
		Long:          rootLongHelp,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_, err := ctx.ensureLogger()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&ctx.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&ctx.logFormat, "log-format", "console", "Log format (console or json)")

	rootCmd.AddCommand(newInitCommand(ctx))
	rootCmd.AddCommand(newTranscribeCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
