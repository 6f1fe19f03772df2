package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nah-project/nah/internal/archive"
)

var extractSHA256Flag string

var extractCmd = &cobra.Command{
	Use:   "extract <archive.tar.gz> <dest>",
	Short: "Extract a gzip-compressed tar archive with path-traversal and symlink defenses",
	Long: `extract unpacks an archive into dest, creating dest if it does
not exist. Any entry with an absolute path, a ".." component, or a
type other than regular file or directory aborts the whole extraction
and removes whatever was staged.`,
	Args: cobra.ExactArgs(2),
	Run:  runExtract,
}

func init() {
	extractCmd.Flags().StringVar(&extractSHA256Flag, "sha256", "", "Verify the archive's SHA-256 digest before extracting")
}

func runExtract(cmd *cobra.Command, args []string) {
	src, dest := args[0], args[1]

	if extractSHA256Flag != "" {
		checksum, err := archive.Checksum(src)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			exitWithCode(ExitGeneral)
		}
		if checksum != extractSHA256Flag {
			fmt.Fprintf(os.Stderr, "checksum mismatch for %s: expected %s, got %s\n", src, extractSHA256Flag, checksum)
			exitWithCode(ExitGeneral)
		}
	}

	if err := os.MkdirAll(dest, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create destination %s: %v\n", dest, err)
		exitWithCode(ExitGeneral)
	}

	if err := archive.Extract(src, dest); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to extract %s: %v\n", src, err)
		exitWithCode(ExitGeneral)
	}

	printInfof("extracted %s to %s\n", src, dest)
}
