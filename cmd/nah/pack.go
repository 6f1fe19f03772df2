package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nah-project/nah/internal/archive"
)

var packCmd = &cobra.Command{
	Use:   "pack <dir> <output.tar.gz>",
	Short: "Pack a directory into a deterministic gzip-compressed tar archive",
	Long: `pack produces a byte-identical archive for a byte-identical
input tree: entries are sorted, directories are written before the files
they govern, and all timestamp/owner metadata is zeroed. Symlinks and
hardlinks inside the tree are rejected.`,
	Args: cobra.ExactArgs(2),
	Run:  runPack,
}

func init() {
	packCmd.Flags().Bool("json", false, "Output in JSON format")
}

func runPack(cmd *cobra.Command, args []string) {
	src, dst := args[0], args[1]

	checksum, err := archive.Pack(src, dst)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to pack %s: %v\n", src, err)
		exitWithCode(ExitGeneral)
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		printJSON(struct {
			Path   string `json:"path"`
			SHA256 string `json:"sha256"`
		}{dst, checksum})
		return
	}

	printInfof("wrote %s\nsha256: %s\n", dst, checksum)
}
