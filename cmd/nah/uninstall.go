package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nah-project/nah/internal/installrec"
)

var uninstallAppInstanceID string

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove an installed app or runtime's payload and Install Record",
}

var uninstallAppCmd = &cobra.Command{
	Use:   "app <app-id> <version>",
	Short: "Uninstall an app",
	Args:  cobra.ExactArgs(2),
	Run:   runUninstallApp,
}

var uninstallNakCmd = &cobra.Command{
	Use:   "nak <nak-id> <version>",
	Short: "Uninstall a runtime (NAK)",
	Args:  cobra.ExactArgs(2),
	Run:   runUninstallNak,
}

func init() {
	uninstallAppCmd.Flags().StringVar(&uninstallAppInstanceID, "instance-id", "", "Uninstall a specific named instance")
	uninstallCmd.AddCommand(uninstallAppCmd)
	uninstallCmd.AddCommand(uninstallNakCmd)
}

func runUninstallApp(cmd *cobra.Command, args []string) {
	id, version := args[0], args[1]
	cfg := mustConfig()

	recordPath := cfg.AppRecordPath(id, version, uninstallAppInstanceID)
	record, err := installrec.Load(recordPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		exitWithCode(ExitGeneral)
	}
	if record == nil {
		fmt.Fprintf(os.Stderr, "No install record found for %s@%s\n", id, version)
		exitWithCode(ExitGeneral)
	}

	if record.Paths.InstallRoot != "" {
		if err := os.RemoveAll(record.Paths.InstallRoot); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to remove payload %s: %v\n", record.Paths.InstallRoot, err)
			exitWithCode(ExitGeneral)
		}
	}

	if err := installrec.Remove(recordPath); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to remove install record: %v\n", err)
		exitWithCode(ExitGeneral)
	}

	printInfof("uninstalled %s@%s\n", id, version)
	exitWithCode(ExitSuccess)
}

func runUninstallNak(cmd *cobra.Command, args []string) {
	id, version := args[0], args[1]
	cfg := mustConfig()

	recordPath := cfg.NAKRecordPath(id, version)
	record, err := installrec.Load(recordPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		exitWithCode(ExitGeneral)
	}
	if record == nil {
		fmt.Fprintf(os.Stderr, "No install record found for runtime %s@%s\n", id, version)
		exitWithCode(ExitGeneral)
	}

	if record.Paths.InstallRoot != "" {
		if err := os.RemoveAll(record.Paths.InstallRoot); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to remove payload %s: %v\n", record.Paths.InstallRoot, err)
			exitWithCode(ExitGeneral)
		}
	}

	if err := installrec.Remove(recordPath); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to remove install record: %v\n", err)
		exitWithCode(ExitGeneral)
	}

	printInfof("uninstalled runtime %s@%s\n", id, version)
	exitWithCode(ExitSuccess)
}
