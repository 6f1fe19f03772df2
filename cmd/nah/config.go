package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/nah-project/nah/internal/userconfig"
)

// loadUserConfig resolves the NAH root and loads its CLI preferences,
// exiting the process on a parse failure (a missing file is not an error).
func loadUserConfig() *userconfig.Config {
	cfg, err := userconfig.Load(mustConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		exitWithCode(ExitGeneral)
	}
	return cfg
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage NAH CLI configuration",
	Long: `Display or manage NAH CLI configuration settings.

Configuration is stored in $NAH_HOME/config.toml and affects only the
CLI's own behavior (telemetry, output format, color) -- it has no effect
on composition, which reads its own Host Environment and Install Records.

Available settings:
  telemetry   Enable anonymous CLI usage statistics (true/false)
  output      Default output format: human or json
  color       Enable colored output (true/false)`,
	Run: runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadUserConfig()

		value, ok := cfg.Get(args[0])
		if !ok {
			fmt.Fprintf(os.Stderr, "Unknown config key: %s\n\nAvailable keys:\n", args[0])
			printAvailableKeys()
			exitWithCode(ExitGeneral)
		}
		fmt.Println(value)
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadUserConfig()

		if err := cfg.Set(args[0], args[1]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n\nAvailable keys:\n", err)
			printAvailableKeys()
			exitWithCode(ExitGeneral)
		}

		if err := cfg.Save(mustConfig()); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
			exitWithCode(ExitGeneral)
		}

		fmt.Printf("%s = %s\n", args[0], args[1])
	},
}

func init() {
	configCmd.Flags().Bool("json", false, "Output in JSON format")
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	cfg := loadUserConfig()

	if jsonOutput {
		printJSON(cfg)
		return
	}

	fmt.Printf("telemetry: %t\n", cfg.Telemetry)
	fmt.Printf("output:    %s\n", cfg.Output)
	fmt.Printf("color:     %t\n", cfg.Color)
}

func printAvailableKeys() {
	keys := userconfig.AvailableKeys()
	sortedKeys := make([]string, 0, len(keys))
	for k := range keys {
		sortedKeys = append(sortedKeys, k)
	}
	sort.Strings(sortedKeys)
	for _, k := range sortedKeys {
		fmt.Fprintf(os.Stderr, "  %s - %s\n", k, keys[k])
	}
}
