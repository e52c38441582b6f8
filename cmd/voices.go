package cmd

import (
	"fmt"
	"os"

	"voiceswap/infrastructure/config"

	"github.com/spf13/cobra"
)

var voicesCmd = &cobra.Command{
	Use:   "voices",
	Short: "List registered voice aliases",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if cfg == nil {
			return fmt.Errorf("configuration not loaded; run \"voiceswap setup\" or pass --config")
		}

		registry := config.NewVoiceRegistry(cfg, "")
		aliases := registry.List()
		if len(aliases) == 0 {
			fmt.Fprintln(os.Stdout, "No voice aliases registered. Use \"voiceswap enroll --alias\" to add one.")
			return nil
		}

		for _, alias := range aliases {
			fmt.Fprintf(os.Stdout, "%-20s %s\n", alias, registry.Resolve(alias))
		}
		return nil
	},
}

var voicesRemoveCmd = &cobra.Command{
	Use:   "remove <alias>",
	Short: "Remove a voice alias",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if cfg == nil {
			return fmt.Errorf("configuration not loaded; run \"voiceswap setup\" or pass --config")
		}

		registry := config.NewVoiceRegistry(cfg, cfgFile)
		if err := registry.Remove(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Removed alias %q\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(voicesCmd)
	voicesCmd.AddCommand(voicesRemoveCmd)
}
