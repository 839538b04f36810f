package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"assemblyai-cli/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigShowCommand())
	configCmd.AddCommand(newConfigPathCommand())

	return configCmd
}

func newConfigPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.Path()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective settings",
		Long: `Prints every setting after merging the config file, environment
variables, and built-in defaults. Flag overrides are not reflected here.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fileCfg, path, err := config.Load()
			if err != nil {
				return err
			}
			req, err := config.Resolve(config.Overrides{}, fileCfg, os.Getenv)
			if err != nil {
				return err
			}

			rows := [][]string{
				{"config file", path},
				{"api key", maskKey(req.APIKey)},
				{"base url", req.BaseURL},
				{"format", string(req.Format)},
				{"output", orStdout(req.Output)},
				{"speech model", req.SpeechModel},
				{"language detection", strconv.FormatBool(req.LanguageDetection)},
				{"language", orAuto(req.Language)},
				{"punctuate", strconv.FormatBool(req.Punctuate)},
				{"format text", strconv.FormatBool(req.FormatText)},
				{"disfluencies", strconv.FormatBool(req.Disfluencies)},
				{"filter profanity", strconv.FormatBool(req.FilterProfanity)},
				{"speaker labels", strconv.FormatBool(req.SpeakerLabels)},
				{"multichannel", strconv.FormatBool(req.Multichannel)},
				{"speech threshold", formatThreshold(req.SpeechThreshold)},
				{"chars per caption", strconv.Itoa(req.CharsPerCaption)},
				{"word boost", strings.Join(req.WordBoost, ", ")},
				{"custom spelling", strconv.Itoa(len(req.CustomSpelling)) + " rule(s)"},
				{"poll interval", req.PollInterval.String()},
				{"timeout", req.Timeout.String()},
			}

			fmt.Fprint(cmd.OutOrStdout(), renderTable([]string{"Setting", "Value"}, rows))
			return nil
		},
	}
}

func maskKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}

func orStdout(dest string) string {
	if dest == "" {
		return "(stdout)"
	}
	return dest
}

func orAuto(language string) string {
	if language == "" {
		return "(auto)"
	}
	return language
}

func formatThreshold(threshold *float64) string {
	if threshold == nil {
		return "(not set)"
	}
	return strconv.FormatFloat(*threshold, 'f', -1, 64)
}
