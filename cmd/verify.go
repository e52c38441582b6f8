package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"voiceswap/infrastructure/ffmpeg"

	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check that ffmpeg and the transformation service are available",
	RunE:  runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

// ToolVerifier checks an external dependency (allows mocking in tests)
type ToolVerifier func(ctx context.Context) error

func runVerify(cmd *cobra.Command, args []string) error {
	checks := []struct {
		name  string
		check ToolVerifier
	}{
		{"ffmpeg", ffmpeg.NewTranscoder().Verify},
	}

	cfg := GetConfig()
	if cfg != nil && cfg.VoiceService.BaseURL != "" {
		client, err := newVoiceClient(cfg)
		if err != nil {
			return err
		}
		checks = append(checks, struct {
			name  string
			check ToolVerifier
		}{"transformation service", client.Ping})
	} else {
		fmt.Fprintln(os.Stdout, "Skipping transformation service check (no base_url configured)")
	}

	return runChecks(cmd.Context(), checks, os.Stdout)
}

func runChecks(ctx context.Context, checks []struct {
	name  string
	check ToolVerifier
}, output io.Writer) error {
	failed := 0
	for _, c := range checks {
		if err := c.check(ctx); err != nil {
			fmt.Fprintf(output, "FAIL %s: %v\n", c.name, err)
			failed++
			continue
		}
		fmt.Fprintf(output, "OK   %s\n", c.name)
	}

	if failed > 0 {
		return fmt.Errorf("%d dependency check(s) failed", failed)
	}
	return nil
}
