// Package archive produces byte-identical gzip-compressed POSIX-ustar tar
// archives from a directory tree, and extracts them back with
// path-traversal and symlink defenses (spec.md §4.11). Grounded on the
// teacher's internal/actions/extract.go extraction loop and
// internal/install/checksum.go's SHA-256 integrity pattern, generalized to
// the single fixed format NAH needs and hardened to reject the symlinks
// that extraction used to tolerate.
package archive

import (
	"archive/tar"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/gzip"
)

const (
	fileMode       = 0644
	dirMode        = 0755
	executableMode = 0755
)

// entry is one file or directory staged for packing.
type entry struct {
	relPath string // forward-slash, relative to the source root
	absPath string
	isDir   bool
	mode    int64
}

// Pack writes a deterministic tar+gzip archive of the tree rooted at
// srcDir to dst. Entries are sorted lexicographically by path, directories
// are emitted before any file whose prefix they govern, and every
// timestamp/owner field is zeroed so identical input content always
// produces identical archive bytes. Symlinks and hardlinks abort packing.
func Pack(srcDir, dst string) (sha256sum string, err error) {
	entries, err := collectEntries(srcDir)
	if err != nil {
		return "", err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to create archive %s: %w", dst, err)
	}
	defer out.Close()

	hasher := sha256.New()
	mw := io.MultiWriter(out, hasher)

	gw, err := gzip.NewWriterLevel(mw, gzip.BestCompression)
	if err != nil {
		return "", fmt.Errorf("failed to create gzip writer: %w", err)
	}
	gw.Header.ModTime = zeroTime
	gw.Header.OS = 255
	gw.Header.Name = ""

	tw := tar.NewWriter(gw)

	for _, e := range entries {
		if err := writeEntry(tw, e); err != nil {
			tw.Close()
			gw.Close()
			return "", err
		}
	}

	if err := tw.Close(); err != nil {
		gw.Close()
		return "", fmt.Errorf("failed to finalize tar stream: %w", err)
	}
	if err := gw.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize gzip stream: %w", err)
	}
	if err := out.Sync(); err != nil {
		return "", fmt.Errorf("failed to sync archive %s: %w", dst, err)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

func collectEntries(srcDir string) ([]entry, error) {
	var entries []entry

	err := filepath.Walk(srcDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if path == srcDir {
			return nil
		}

		if info.Mode()&os.ModeSymlink != 0 {
			return fmt.Errorf("archive source contains a symlink, which is forbidden at pack time: %s", path)
		}

		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return fmt.Errorf("failed to compute relative path for %s: %w", path, err)
		}
		rel = filepath.ToSlash(rel)

		if info.IsDir() {
			entries = append(entries, entry{relPath: rel, absPath: path, isDir: true, mode: dirMode})
			return nil
		}

		if !info.Mode().IsRegular() {
			return fmt.Errorf("archive source contains a non-regular file, which is forbidden at pack time: %s", path)
		}

		if info.Sys() != nil {
			if nlink := hardlinkCount(info); nlink > 1 {
				return fmt.Errorf("archive source contains a hardlink, which is forbidden at pack time: %s", path)
			}
		}

		mode := int64(fileMode)
		if info.Mode()&0111 != 0 {
			mode = executableMode
		}
		entries = append(entries, entry{relPath: rel, absPath: path, isDir: false, mode: mode})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool {
		return entryLess(entries[i], entries[j])
	})

	return entries, nil
}

// entryLess orders directories before any file or subdirectory whose path
// they prefix, and otherwise lexicographically by path.
func entryLess(a, b entry) bool {
	if a.relPath == b.relPath {
		return false
	}
	if a.isDir && strings.HasPrefix(b.relPath, a.relPath+"/") {
		return true
	}
	if b.isDir && strings.HasPrefix(a.relPath, b.relPath+"/") {
		return false
	}
	return a.relPath < b.relPath
}

func writeEntry(tw *tar.Writer, e entry) error {
	typeflag := byte(tar.TypeReg)
	size := int64(0)

	if e.isDir {
		typeflag = tar.TypeDir
	} else {
		info, err := os.Stat(e.absPath)
		if err != nil {
			return fmt.Errorf("failed to stat %s: %w", e.absPath, err)
		}
		size = info.Size()
	}

	name := e.relPath
	if e.isDir {
		name += "/"
	}

	hdr := &tar.Header{
		Name:     name,
		Typeflag: typeflag,
		Mode:     e.mode,
		Size:     size,
		Uid:      0,
		Gid:      0,
		Uname:    "",
		Gname:    "",
		ModTime:  zeroTime,
	}

	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("failed to write tar header for %s: %w", e.relPath, err)
	}

	if e.isDir {
		return nil
	}

	f, err := os.Open(e.absPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", e.absPath, err)
	}
	defer f.Close()

	if _, err := io.Copy(tw, f); err != nil {
		return fmt.Errorf("failed to write %s to archive: %w", e.relPath, err)
	}
	return nil
}
