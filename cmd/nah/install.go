package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nah-project/nah/internal/archive"
	"github.com/nah-project/nah/internal/installrec"
	"github.com/nah-project/nah/internal/model"
	"github.com/nah-project/nah/internal/naksinv"
	"github.com/nah-project/nah/internal/nakselect"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Extract a packaged app or runtime and register its Install Record",
}

var installAppInstanceID string

var installAppCmd = &cobra.Command{
	Use:   "app <package.tar.gz>",
	Short: "Install an app package",
	Args:  cobra.ExactArgs(1),
	Run:   runInstallApp,
}

var installNakCmd = &cobra.Command{
	Use:   "nak <package.tar.gz>",
	Short: "Install a runtime (NAK) package",
	Args:  cobra.ExactArgs(1),
	Run:   runInstallNak,
}

func init() {
	installAppCmd.Flags().StringVar(&installAppInstanceID, "instance-id", "", "Install as a named instance, allowing multiple concurrent installs of the same version")
	installCmd.AddCommand(installAppCmd)
	installCmd.AddCommand(installNakCmd)
}

func runInstallApp(cmd *cobra.Command, args []string) {
	cfg := mustConfig()
	pkgPath := args[0]

	if err := cfg.EnsureDirectories(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		exitWithCode(ExitGeneral)
	}

	staging, err := os.MkdirTemp(filepath.Dir(cfg.AppsDir), "nah-install-*")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create staging directory: %v\n", err)
		exitWithCode(ExitGeneral)
	}
	defer os.RemoveAll(staging)

	if err := archive.Extract(pkgPath, staging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to extract %s: %v\n", pkgPath, err)
		exitWithCode(ExitGeneral)
	}

	app, err := loadAppDeclaration(staging)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		exitWithCode(ExitGeneral)
	}

	checksum, err := archive.Checksum(pkgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		exitWithCode(ExitGeneral)
	}

	payloadDir := cfg.AppPayloadDir(app.ID, app.Version)
	if err := os.MkdirAll(filepath.Dir(payloadDir), 0755); err != nil {
		fmt.Fprintln(os.Stderr, err)
		exitWithCode(ExitGeneral)
	}
	if err := os.RemoveAll(payloadDir); err != nil {
		fmt.Fprintln(os.Stderr, err)
		exitWithCode(ExitGeneral)
	}
	if err := os.Rename(staging, payloadDir); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to install payload to %s: %v\n", payloadDir, err)
		exitWithCode(ExitGeneral)
	}

	record := &model.InstallRecord{
		Install: model.InstallIdentity{InstanceID: installAppInstanceID},
		Paths:   model.InstallPaths{InstallRoot: payloadDir},
		App:     model.AppSnapshot{ID: app.ID, Version: app.Version},
		Provenance: model.Provenance{
			PackageHash: checksum,
			Source:      pkgPath,
		},
	}

	if app.NAKID != "" {
		inventory, invWarnings, err := naksinv.Load(cfg.RegistryNAKsDir, cfg.NAKPayloadDir)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			exitWithCode(ExitGeneral)
		}
		for _, w := range invWarnings {
			fmt.Fprintf(os.Stderr, "warning: skipped runtime inventory entry %s: %v\n", w.Path, w.Err)
		}

		sel, err := nakselect.Select(app.NAKID, app.NAKVersionReq, inventory)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to select runtime %s %s: %v\n", app.NAKID, app.NAKVersionReq, err)
			exitWithCode(ExitGeneral)
		}
		record.NAK = model.NAKPin{
			ID:              sel.NAKID,
			Version:         sel.Version,
			RecordRef:       sel.RecordRef,
			Loader:          app.NAKLoader,
			SelectionReason: sel.SelectionReason,
		}
	}

	recordPath := cfg.AppRecordPath(app.ID, app.Version, installAppInstanceID)
	if err := os.MkdirAll(filepath.Dir(recordPath), 0755); err != nil {
		fmt.Fprintln(os.Stderr, err)
		exitWithCode(ExitGeneral)
	}
	if err := installrec.Save(recordPath, record); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write install record: %v\n", err)
		exitWithCode(ExitGeneral)
	}

	printInfof("installed %s@%s to %s\n", app.ID, app.Version, payloadDir)
	exitWithCode(ExitSuccess)
}

func runInstallNak(cmd *cobra.Command, args []string) {
	cfg := mustConfig()
	pkgPath := args[0]

	if err := cfg.EnsureDirectories(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		exitWithCode(ExitGeneral)
	}

	staging, err := os.MkdirTemp(filepath.Dir(cfg.NAKsDir), "nah-install-*")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create staging directory: %v\n", err)
		exitWithCode(ExitGeneral)
	}
	defer os.RemoveAll(staging)

	if err := archive.Extract(pkgPath, staging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to extract %s: %v\n", pkgPath, err)
		exitWithCode(ExitGeneral)
	}

	descPath := filepath.Join(staging, "nak.json")
	descriptor, err := loadRuntimeDescriptor(descPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		exitWithCode(ExitGeneral)
	}

	checksum, err := archive.Checksum(pkgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		exitWithCode(ExitGeneral)
	}

	payloadDir := cfg.NAKPayloadDir(descriptor.NAK.ID, descriptor.NAK.Version)
	if err := os.MkdirAll(filepath.Dir(payloadDir), 0755); err != nil {
		fmt.Fprintln(os.Stderr, err)
		exitWithCode(ExitGeneral)
	}
	if err := os.RemoveAll(payloadDir); err != nil {
		fmt.Fprintln(os.Stderr, err)
		exitWithCode(ExitGeneral)
	}
	if err := os.Rename(staging, payloadDir); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to install runtime payload to %s: %v\n", payloadDir, err)
		exitWithCode(ExitGeneral)
	}

	record := &model.InstallRecord{
		Paths: model.InstallPaths{InstallRoot: payloadDir},
		App:   model.AppSnapshot{ID: descriptor.NAK.ID, Version: descriptor.NAK.Version},
		Provenance: model.Provenance{
			PackageHash: checksum,
			Source:      pkgPath,
		},
	}

	recordPath := cfg.NAKRecordPath(descriptor.NAK.ID, descriptor.NAK.Version)
	if err := os.MkdirAll(filepath.Dir(recordPath), 0755); err != nil {
		fmt.Fprintln(os.Stderr, err)
		exitWithCode(ExitGeneral)
	}
	if err := installrec.Save(recordPath, record); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write install record: %v\n", err)
		exitWithCode(ExitGeneral)
	}

	printInfof("installed runtime %s@%s to %s\n", descriptor.NAK.ID, descriptor.NAK.Version, payloadDir)
	exitWithCode(ExitSuccess)
}
