package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nah-project/nah/internal/config"
	"github.com/nah-project/nah/internal/errmsg"
	"github.com/nah-project/nah/internal/model"
)

// printInfo prints an informational message unless quiet mode is enabled.
func printInfo(a ...interface{}) {
	if !quietFlag {
		fmt.Println(a...)
	}
}

// printInfof prints a formatted informational message unless quiet mode
// is enabled.
func printInfof(format string, a ...interface{}) {
	if !quietFlag {
		fmt.Printf(format, a...)
	}
}

// printJSON marshals v to indented JSON and prints it to stdout.
func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		exitWithCode(ExitGeneral)
	}
}

// printError formats err with errmsg and prints it to stderr.
func printError(err error, ctx *errmsg.ErrorContext) {
	fmt.Fprintln(os.Stderr, errmsg.Format(err, ctx))
}

// mustConfig resolves the NAH root from the environment or exits.
func mustConfig() *config.Config {
	cfg, err := config.DefaultConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to resolve NAH_HOME: %v\n", err)
		exitWithCode(ExitGeneral)
	}
	return cfg
}

// loadHostEnvironment reads the Host Environment from cfg.HostFile. A
// missing file is not an error: it yields the zero-value environment
// (no overrides permitted, no path or var extensions).
func loadHostEnvironment(cfg *config.Config) (*model.HostEnvironment, error) {
	data, err := os.ReadFile(cfg.HostFile)
	if os.IsNotExist(err) {
		return &model.HostEnvironment{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read host environment %s: %w", cfg.HostFile, err)
	}

	var host model.HostEnvironment
	if err := json.Unmarshal(data, &host); err != nil {
		return nil, fmt.Errorf("failed to parse host environment %s: %w", cfg.HostFile, err)
	}
	return &host, nil
}

// loadAppDeclaration reads nap.json from an app's extracted payload root.
func loadAppDeclaration(payloadDir string) (*model.AppDeclaration, error) {
	path := filepath.Join(payloadDir, "nap.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read app declaration %s: %w", path, err)
	}

	var app model.AppDeclaration
	if err := json.Unmarshal(data, &app); err != nil {
		return nil, fmt.Errorf("failed to parse app declaration %s: %w", path, err)
	}
	return &app, nil
}

// loadRuntimeDescriptor reads a Runtime Descriptor (nak.json) at path.
func loadRuntimeDescriptor(path string) (*model.RuntimeDescriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read runtime descriptor %s: %w", path, err)
	}

	var descriptor model.RuntimeDescriptor
	if err := json.Unmarshal(data, &descriptor); err != nil {
		return nil, fmt.Errorf("failed to parse runtime descriptor %s: %w", path, err)
	}
	return &descriptor, nil
}
