package cmd

import (
	"fmt"
	"os"

	"voiceswap/infrastructure/config"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "voiceswap",
	Short: "Replace the voice in a video with an enrolled target voice",
	Long: `voiceswap runs a voice-swap pipeline over a video file:

  - Extract the audio track
  - Transform it into a target voice via the transformation service
  - Recombine the new audio with the untouched video stream

Example:
  voiceswap swap --source clip.mp4 --voice narrator --output clip-out.mp4`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml)")
}

func initConfig() {
	if cfgFile == "" {
		cfgFile = "config/config.yaml"
	}

	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		// Config file is optional for some commands (like help)
		// Commands that need config will check and error appropriately
		cfg = nil
	}
}

// GetConfig returns the loaded configuration
func GetConfig() *config.Config {
	return cfg
}
