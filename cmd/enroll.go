package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"voiceswap/domain/voice"
	"voiceswap/infrastructure/config"

	"github.com/spf13/cobra"
)

var (
	enrollName    string
	enrollSamples []string
	enrollAlias   string
)

var enrollCmd = &cobra.Command{
	Use:   "enroll",
	Short: "Enroll a new target voice from sample recordings",
	Long: `Upload sample recordings to the transformation service and enroll a new
target voice. The returned identity can optionally be registered under a
local alias for use with "voiceswap swap --voice".

Enrollment is a one-shot service call; it never runs as part of a swap.

Example:
  voiceswap enroll --name "Narrator" --sample intro.wav --sample outro.wav --alias narrator`,
	RunE: runEnroll,
}

func init() {
	rootCmd.AddCommand(enrollCmd)
	enrollCmd.Flags().StringVar(&enrollName, "name", "", "Display name for the new voice (required)")
	enrollCmd.Flags().StringArrayVar(&enrollSamples, "sample", nil, "Sample recording path (repeatable, required)")
	enrollCmd.Flags().StringVar(&enrollAlias, "alias", "", "Register the new identity under this local alias")
	enrollCmd.MarkFlagRequired("name")
	enrollCmd.MarkFlagRequired("sample")
}

func runEnroll(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if cfg == nil {
		return fmt.Errorf("configuration not loaded; run \"voiceswap setup\" or pass --config")
	}

	client, err := newVoiceClient(cfg)
	if err != nil {
		return err
	}

	registry := config.NewVoiceRegistry(cfg, cfgFile)
	return RunEnrollWithDependencies(cmd.Context(), client, registry, enrollName, enrollSamples, enrollAlias, os.Stdout)
}

// AliasRegistrar registers voice aliases (allows mocking the registry in tests)
type AliasRegistrar interface {
	Add(alias, voiceID string) error
}

// RunEnrollWithDependencies runs the enroll command with injected dependencies (for testing)
func RunEnrollWithDependencies(
	ctx context.Context,
	enroller voice.Enroller,
	registry AliasRegistrar,
	name string,
	samples []string,
	alias string,
	output io.Writer,
) error {
	req, err := voice.NewEnrollmentRequest(name, samples)
	if err != nil {
		return err
	}

	id, err := enroller.Enroll(ctx, req)
	if err != nil {
		return fmt.Errorf("enrollment failed: %w", err)
	}

	fmt.Fprintf(output, "Enrolled voice %s as %s\n", name, id)

	if alias != "" {
		if err := registry.Add(alias, id.String()); err != nil {
			return fmt.Errorf("voice enrolled as %s but alias not saved: %w", id, err)
		}
		fmt.Fprintf(output, "Registered alias %q\n", alias)
	}
	return nil
}
