package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nah-project/nah/internal/installrec"
)

var listJSONFlag bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed apps and runtimes",
	Run:   runList,
}

func init() {
	listCmd.Flags().BoolVar(&listJSONFlag, "json", false, "Output in JSON format")
}

type installedEntry struct {
	ID      string `json:"id"`
	Version string `json:"version"`
	Root    string `json:"root"`
}

func runList(cmd *cobra.Command, args []string) {
	cfg := mustConfig()

	apps, err := listRegistry(cfg.RegistryAppsDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		exitWithCode(ExitGeneral)
	}
	naks, err := listRegistry(cfg.RegistryNAKsDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		exitWithCode(ExitGeneral)
	}

	if listJSONFlag {
		printJSON(struct {
			Apps []installedEntry `json:"apps"`
			NAKs []installedEntry `json:"naks"`
		}{apps, naks})
		return
	}

	fmt.Println("apps:")
	for _, a := range apps {
		fmt.Printf("  %s@%s  %s\n", a.ID, a.Version, a.Root)
	}
	fmt.Println("runtimes:")
	for _, n := range naks {
		fmt.Printf("  %s@%s  %s\n", n.ID, n.Version, n.Root)
	}
}

// listRegistry reads every Install Record in dir and summarizes it. A
// record that fails to parse is skipped rather than aborting the listing,
// matching the inventory loader's "skip unreadable entries" discipline.
func listRegistry(dir string) ([]installedEntry, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read registry directory %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var result []installedEntry
	for _, name := range names {
		record, err := installrec.Load(filepath.Join(dir, name))
		if err != nil || record == nil {
			continue
		}
		result = append(result, installedEntry{
			ID:      record.App.ID,
			Version: record.App.Version,
			Root:    record.Paths.InstallRoot,
		})
	}
	return result, nil
}
