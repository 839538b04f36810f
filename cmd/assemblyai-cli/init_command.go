package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"assemblyai-cli/internal/config"
)

func newInitCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Store your AssemblyAI API key",
		Long: `Prompts for an AssemblyAI API key and saves it to
~/.assemblyai-cli/config.json. Every other field already present in the
config file is preserved; an existing key is only replaced after explicit
confirmation.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd)
		},
	}
}

func runInit(cmd *cobra.Command) error {
	existing, _, err := config.Load()
	if err != nil {
		return err
	}

	in := bufio.NewReader(cmd.InOrStdin())
	out := cmd.OutOrStdout()

	if existing.APIKey != nil && strings.TrimSpace(*existing.APIKey) != "" {
		fmt.Fprint(out, "An API key is already configured. Overwrite it? [y/N]: ")
		answer, err := readLine(in)
		if err != nil {
			return fmt.Errorf("read confirmation: %w", err)
		}
		if !isYes(answer) {
			fmt.Fprintln(out, "Keeping the existing API key.")
			return nil
		}
	}

	fmt.Fprint(out, "Enter your AssemblyAI API key: ")
	key, err := readLine(in)
	if err != nil {
		return fmt.Errorf("read api key: %w", err)
	}
	if key == "" {
		return errors.New("api key must not be empty")
	}

	path, err := config.SetAPIKey(key)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "API key saved to %s\n", path)
	return nil
}

func readLine(in *bufio.Reader) (string, error) {
	line, err := in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func isYes(answer string) bool {
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
