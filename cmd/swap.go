package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"voiceswap/application/swap"
	"voiceswap/infrastructure/config"
	"voiceswap/infrastructure/ffmpeg"
	"voiceswap/infrastructure/filesystem"
	"voiceswap/infrastructure/voiceapi"
	"voiceswap/infrastructure/workspace"

	"github.com/spf13/cobra"
)

var (
	swapSourcePath string
	swapVoice      string
	swapOutputPath string
	swapBitrate    string
)

var swapCmd = &cobra.Command{
	Use:   "swap",
	Short: "Swap the voice in a video",
	Long: `Run the full voice-swap pipeline over a video file.

The voice may be a registered alias (see "voiceswap voices") or a raw
identity from the transformation service. If --output is omitted, the output
is written next to the configured output directory as <source>-swapped.mp4.

Example:
  voiceswap swap --source clip.mp4 --voice narrator
  voiceswap swap --source /media/clip.mp4 --voice voice-123 --output /media/clip-out.mp4`,
	RunE: runSwap,
}

func init() {
	rootCmd.AddCommand(swapCmd)
	swapCmd.Flags().StringVar(&swapSourcePath, "source", "", "Path to source video file (required)")
	swapCmd.Flags().StringVar(&swapVoice, "voice", "", "Target voice alias or identity (default from config)")
	swapCmd.Flags().StringVar(&swapOutputPath, "output", "", "Output video path")
	swapCmd.Flags().StringVar(&swapBitrate, "bitrate", "", "Intermediate audio bitrate (default from config or 192k)")
	swapCmd.MarkFlagRequired("source")
}

func runSwap(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if cfg == nil {
		return fmt.Errorf("configuration not loaded; run \"voiceswap setup\" or pass --config")
	}

	registry := config.NewVoiceRegistry(cfg, "")
	voiceID := swapVoice
	if voiceID == "" {
		def, err := registry.Default()
		if err != nil {
			return fmt.Errorf("no --voice given and %w", err)
		}
		voiceID = def
	} else {
		voiceID = registry.Resolve(voiceID)
	}

	outputPath := swapOutputPath
	if outputPath == "" {
		base := strings.TrimSuffix(filepath.Base(swapSourcePath), filepath.Ext(swapSourcePath))
		outputPath = filepath.Join(cfg.Paths.OutputDirectory, base+"-swapped.mp4")
	}

	bitrate := swapBitrate
	if bitrate == "" {
		bitrate = cfg.Audio.Bitrate
	}

	client, err := newVoiceClient(cfg)
	if err != nil {
		return err
	}

	svc := swap.NewService(
		ffmpeg.NewTranscoder(),
		client,
		workspace.NewFactory(cfg.Paths.ScratchDirectory),
		filesystem.NewChecker(),
		filesystem.NewMover(),
		swap.WithBitrate(bitrate),
		swap.WithProgressOutput(os.Stdout),
	)

	return RunSwapWithDependencies(cmd.Context(), svc, swap.Input{
		VideoPath:  swapSourcePath,
		Voice:      voiceID,
		OutputPath: outputPath,
	}, os.Stdout)
}

// Swapper runs one swap job (allows mocking the service in tests)
type Swapper interface {
	Swap(ctx context.Context, input swap.Input) (*swap.Result, error)
}

// RunSwapWithDependencies runs the swap command with injected dependencies (for testing)
func RunSwapWithDependencies(ctx context.Context, svc Swapper, input swap.Input, output io.Writer) error {
	result, err := svc.Swap(ctx, input)
	if err != nil {
		return err
	}

	fmt.Fprintf(output, "Done! Wrote %s in %s\n", result.OutputPath, result.Elapsed.Round(100*time.Millisecond))
	for _, path := range result.Cleanup.FailedPaths() {
		fmt.Fprintf(output, "Warning: could not remove intermediate %s\n", path)
	}
	return nil
}

// newVoiceClient builds the transformation-service client from config
func newVoiceClient(cfg *config.Config) (*voiceapi.Client, error) {
	opts := []voiceapi.ClientOption{}
	if cfg.VoiceService.ModelID != "" {
		opts = append(opts, voiceapi.WithModelID(cfg.VoiceService.ModelID))
	}
	if cfg.VoiceService.TokenURL != "" {
		opts = append(opts, voiceapi.WithClientCredentials(
			cfg.VoiceService.ClientID,
			cfg.VoiceService.ClientSecret,
			cfg.VoiceService.TokenURL,
		))
	} else if cfg.VoiceService.APIKey != "" {
		opts = append(opts, voiceapi.WithAPIKey(cfg.VoiceService.APIKey))
	}
	if cfg.VoiceService.Timeout != "" {
		d, err := time.ParseDuration(cfg.VoiceService.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid voice_service.timeout: %w", err)
		}
		opts = append(opts, voiceapi.WithTimeout(d))
	}
	return voiceapi.NewClient(cfg.VoiceService.BaseURL, opts...), nil
}
