package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"voiceswap/infrastructure/config"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
)

// Prompter interface for interactive prompts (allows mocking in tests)
type Prompter interface {
	Input(message string, defaultValue string) (string, error)
	Confirm(message string, defaultValue bool) (bool, error)
}

// SurveyPrompter implements Prompter using the survey library
type SurveyPrompter struct{}

func (p *SurveyPrompter) Input(message string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Input{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

func (p *SurveyPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	result := defaultValue
	prompt := &survey.Confirm{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return false, err
	}
	return result, nil
}

// DefaultPrompter is the prompter used in production
var DefaultPrompter Prompter = &SurveyPrompter{}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create configuration file interactively",
	Long: `Prompts for configuration values and creates config.yaml.

This command guides you through setting up the scratch and output
directories, audio settings, and the transformation service connection.`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	return RunSetupWithPrompter(DefaultPrompter, "config/config.yaml")
}

// RunSetupWithPrompter runs the setup with a given prompter (for testing)
func RunSetupWithPrompter(prompter Prompter, configPath string) error {
	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		overwrite, err := prompter.Confirm("config.yaml already exists. Overwrite?", false)
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		if !overwrite {
			fmt.Println("Setup cancelled.")
			return nil
		}
	}

	fmt.Println("Welcome to voiceswap setup!")
	fmt.Println()

	cfg := &config.Config{}

	if err := promptPaths(prompter, cfg); err != nil {
		return err
	}
	if err := promptAudio(prompter, cfg); err != nil {
		return err
	}
	if err := promptVoiceService(prompter, cfg); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := config.Save(cfg, configPath); err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("Configuration written to %s\n", configPath)
	fmt.Println("Run \"voiceswap verify\" to check external dependencies.")
	return nil
}

func promptPaths(prompter Prompter, cfg *config.Config) error {
	scratch, err := prompter.Input("Scratch directory for intermediate files:", os.TempDir())
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.Paths.ScratchDirectory = scratch

	output, err := prompter.Input("Default output directory:", ".")
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.Paths.OutputDirectory = output

	return nil
}

func promptAudio(prompter Prompter, cfg *config.Config) error {
	bitrate, err := prompter.Input("Intermediate audio bitrate:", "192k")
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.Audio.Bitrate = bitrate
	return nil
}

func promptVoiceService(prompter Prompter, cfg *config.Config) error {
	baseURL, err := prompter.Input("Transformation service base URL:", "")
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.VoiceService.BaseURL = baseURL

	modelID, err := prompter.Input("Transformation model ID:", "revoice-v1")
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.VoiceService.ModelID = modelID

	timeout, err := prompter.Input("Request timeout (Go duration, e.g. 5m):", "5m")
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.VoiceService.Timeout = timeout

	useOAuth, err := prompter.Confirm("Authenticate with OAuth2 client credentials (instead of an API key)?", false)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}

	if useOAuth {
		clientID, err := prompter.Input("OAuth2 client ID:", "")
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		clientSecret, err := prompter.Input("OAuth2 client secret:", "")
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		tokenURL, err := prompter.Input("OAuth2 token URL:", "")
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		cfg.VoiceService.ClientID = clientID
		cfg.VoiceService.ClientSecret = clientSecret
		cfg.VoiceService.TokenURL = tokenURL
		return nil
	}

	apiKey, err := prompter.Input("API key:", "")
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.VoiceService.APIKey = apiKey
	return nil
}
