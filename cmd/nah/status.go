package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nah-project/nah/internal/compose"
	"github.com/nah-project/nah/internal/errmsg"
)

var statusJSONFlag bool

var statusCmd = &cobra.Command{
	Use:   "status <app-id> <version>",
	Short: "Show the resolved runtime and trust state for an installed app",
	Long: `status runs the same composition compose does, but prints a
narrower summary focused on which runtime and trust state an app
resolved to. Use compose for the full Launch Contract.`,
	Args: cobra.ExactArgs(2),
	Run:  runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSONFlag, "json", false, "Print the full structured result instead of a human summary")
}

func runStatus(cmd *cobra.Command, args []string) {
	appID, version := args[0], args[1]
	cfg := mustConfig()

	result, record, _ := resolveAndCompose(cfg, appID, version, compose.Options{})

	if result.Error != nil {
		if statusJSONFlag {
			printJSON(result)
		} else {
			printError(result.Error, &errmsg.ErrorContext{AppID: appID, NAKID: record.NAK.ID})
		}
		exitWithCode(ExitGeneral)
	}

	if statusJSONFlag {
		printJSON(result)
		return
	}

	c := result.Contract
	fmt.Printf("app:     %s@%s\n", c.App.ID, c.App.Version)
	if c.NAK.ID != "" {
		fmt.Printf("runtime: %s@%s (record %s)\n", c.NAK.ID, c.NAK.Version, c.NAK.RecordRef)
	} else {
		fmt.Println("runtime: (standalone, no runtime attached)")
	}
	if c.Trust.State != "" {
		fmt.Printf("trust:   %s (source=%s)\n", c.Trust.State, c.Trust.Source)
	}
	if len(result.Warnings) > 0 {
		fmt.Println("warnings:")
		for _, w := range result.Warnings {
			fmt.Printf("  - %s\n", w.Key)
		}
		exitWithCode(ExitWarnings)
	}

	exitWithCode(ExitSuccess)
}
