package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nah-project/nah/internal/compose"
	"github.com/nah-project/nah/internal/config"
	"github.com/nah-project/nah/internal/errmsg"
	"github.com/nah-project/nah/internal/installrec"
	"github.com/nah-project/nah/internal/model"
	"github.com/nah-project/nah/internal/naksinv"
	"github.com/nah-project/nah/internal/override"
)

var (
	composeLoaderFlag string
	composeNowFlag    string
	composeTraceFlag  bool
	composeJSONFlag   bool
)

var composeCmd = &cobra.Command{
	Use:   "compose <app-id> <version>",
	Short: "Resolve the Launch Contract for an installed app",
	Long: `compose loads the app's declaration, its Install Record, the
host environment, and the runtime inventory, then runs the composer and
prints the resulting Launch Contract.

Exit code 0 means a clean composition. Exit code 2 means composition
succeeded but produced warnings. Exit code 1 means composition failed or
an entity could not be read.`,
	Args: cobra.ExactArgs(2),
	Run:  runCompose,
}

func init() {
	composeCmd.Flags().StringVar(&composeLoaderFlag, "loader", "", "Force a specific loader name instead of the runtime's default")
	composeCmd.Flags().StringVar(&composeNowFlag, "now", "", "RFC3339 timestamp to use for trust staleness checks (default: staleness never checked)")
	composeCmd.Flags().BoolVar(&composeTraceFlag, "trace", false, "Include the environment-composition decision log")
	composeCmd.Flags().BoolVar(&composeJSONFlag, "json", false, "Print the full structured result instead of a human summary")
}

func runCompose(cmd *cobra.Command, args []string) {
	appID, version := args[0], args[1]
	cfg := mustConfig()

	result, record, host := resolveAndCompose(cfg, appID, version, compose.Options{
		LoaderOverride: composeLoaderFlag,
		Now:            composeNowFlag,
		EnableTrace:    composeTraceFlag,
		TraceBudget:    config.GetTraceBudget(),
	})

	if result.Error != nil {
		if composeJSONFlag {
			printJSON(result)
		} else {
			printError(result.Error, &errmsg.ErrorContext{AppID: appID, NAKID: record.NAK.ID})
		}
		exitWithCode(ExitGeneral)
	}

	warnings := append([]model.Warning{}, result.Warnings...)
	warnings = append(warnings, override.Apply(result.Contract, envToMap(os.Environ()), host.Overrides)...)

	if composeJSONFlag {
		printJSON(struct {
			Contract *model.LaunchContract `json:"contract"`
			Warnings []model.Warning       `json:"warnings"`
			Trace    *compose.Trace        `json:"trace,omitempty"`
		}{result.Contract, warnings, result.Trace})
	} else {
		printContractSummary(result.Contract, warnings)
	}

	if len(warnings) > 0 {
		exitWithCode(ExitWarnings)
	}
	exitWithCode(ExitSuccess)
}

// resolveAndCompose loads every entity compose.Compose needs for appID@
// version under cfg and runs the composer. It exits the process directly
// on any entity-loading failure, since that failure has no composer
// result to report through.
func resolveAndCompose(cfg *config.Config, appID, version string, opts compose.Options) (compose.Result, *model.InstallRecord, *model.HostEnvironment) {
	record, _, err := findAppRecord(cfg, appID, version)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to find install record for %s@%s: %v\n", appID, version, err)
		exitWithCode(ExitGeneral)
	}
	if record == nil {
		fmt.Fprintf(os.Stderr, "No install record found for %s@%s (looked in %s)\n", appID, version, cfg.RegistryAppsDir)
		exitWithCode(ExitGeneral)
	}

	app, err := loadAppDeclaration(record.Paths.InstallRoot)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		exitWithCode(ExitGeneral)
	}

	host, err := loadHostEnvironment(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		exitWithCode(ExitGeneral)
	}

	inventory, invWarnings, err := naksinv.Load(cfg.RegistryNAKsDir, cfg.NAKPayloadDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		exitWithCode(ExitGeneral)
	}
	for _, w := range invWarnings {
		fmt.Fprintf(os.Stderr, "warning: skipped runtime inventory entry %s: %v\n", w.Path, w.Err)
	}

	result := compose.Compose(app, host, record, inventory, opts)
	return result, record, host
}

// findAppRecord scans cfg.RegistryAppsDir for the Install Record matching
// id@version, tolerating the optional -<instance_id> filename suffix.
// Entries are sorted so the choice among multiple instances is stable;
// the first (lexicographically smallest instance id) wins.
func findAppRecord(cfg *config.Config, id, version string) (*model.InstallRecord, string, error) {
	prefix := fmt.Sprintf("%s@%s", id, version)
	names, err := sortedAppRecordNames(cfg.RegistryAppsDir, prefix)
	if err != nil {
		return nil, "", err
	}
	for _, name := range names {
		stem := strings.TrimSuffix(name, ".json")
		if stem != prefix && !strings.HasPrefix(stem, prefix+"-") {
			continue
		}
		path := filepath.Join(cfg.RegistryAppsDir, name)
		record, err := installrec.Load(path)
		if err != nil {
			return nil, "", err
		}
		return record, path, nil
	}
	return nil, "", nil
}

func printContractSummary(c *model.LaunchContract, warnings []model.Warning) {
	fmt.Printf("app:        %s@%s\n", c.App.ID, c.App.Version)
	if c.NAK.ID != "" {
		fmt.Printf("runtime:    %s@%s\n", c.NAK.ID, c.NAK.Version)
	} else {
		fmt.Println("runtime:    (standalone)")
	}
	fmt.Printf("binary:     %s\n", c.Execution.Binary)
	fmt.Printf("arguments:  %s\n", strings.Join(c.Execution.Arguments, " "))
	fmt.Printf("cwd:        %s\n", c.Execution.Cwd)
	if len(c.Execution.LibraryPaths) > 0 {
		fmt.Printf("%s: %s\n", c.Execution.LibraryPathEnvKey, strings.Join(c.Execution.LibraryPaths, string(os.PathListSeparator)))
	}
	if len(warnings) > 0 {
		fmt.Println("\nwarnings:")
		for _, w := range warnings {
			fmt.Printf("  - %s (%s)\n", w.Key, w.Action)
		}
	}
}

func envToMap(environ []string) map[string]string {
	m := make(map[string]string, len(environ))
	for _, kv := range environ {
		if idx := strings.IndexByte(kv, '='); idx >= 0 {
			m[kv[:idx]] = kv[idx+1:]
		}
	}
	return m
}

func sortedAppRecordNames(dir, prefix string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), prefix) && filepath.Ext(e.Name()) == ".json" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
