package archive

import (
	"archive/tar"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// Checksum returns the SHA-256 hex digest of the raw archive bytes at
// path, for comparison against provenance.package_hash or a
// #sha256=<64hex> fetch fragment.
func Checksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open archive %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to read archive %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Extract unpacks the archive at src into destDir, which must already
// exist and be empty. Every entry name is normalized and checked for
// containment before anything is written; any symlink, hardlink, device
// node, FIFO, socket, absolute path, or ".." component aborts the entire
// extraction and removes whatever was staged under destDir.
func Extract(src, destDir string) (err error) {
	defer func() {
		if err != nil {
			os.RemoveAll(destDir)
		}
	}()

	f, openErr := os.Open(src)
	if openErr != nil {
		return fmt.Errorf("failed to open archive %s: %w", src, openErr)
	}
	defer f.Close()

	gr, gzErr := gzip.NewReader(f)
	if gzErr != nil {
		return fmt.Errorf("failed to read gzip stream: %w", gzErr)
	}
	defer gr.Close()

	tr := tar.NewReader(gr)

	for {
		hdr, nextErr := tr.Next()
		if nextErr == io.EOF {
			break
		}
		if nextErr != nil {
			return fmt.Errorf("failed to read tar entry: %w", nextErr)
		}

		target, safeErr := safeJoin(destDir, hdr.Name)
		if safeErr != nil {
			return safeErr
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, dirMode); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", target, err)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), dirMode); err != nil {
				return fmt.Errorf("failed to create parent directory for %s: %w", target, err)
			}
			if err := extractFile(tr, target, os.FileMode(hdr.Mode&0777)); err != nil {
				return err
			}
		default:
			return fmt.Errorf("archive entry %q has unsupported type %q: only regular files and directories are allowed", hdr.Name, string(hdr.Typeflag))
		}
	}

	return nil
}

func extractFile(r io.Reader, target string, mode os.FileMode) error {
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", target, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, r); err != nil {
		return fmt.Errorf("failed to write %s: %w", target, err)
	}
	return nil
}

// safeJoin normalizes a tar entry name and joins it under root, rejecting
// absolute paths, ".." components, and any result that would resolve
// outside root.
func safeJoin(root, name string) (string, error) {
	clean := filepath.ToSlash(name)
	if strings.HasPrefix(clean, "/") || (len(clean) >= 2 && clean[1] == ':') {
		return "", fmt.Errorf("archive entry %q uses an absolute path, which is forbidden", name)
	}

	for _, part := range strings.Split(clean, "/") {
		if part == ".." {
			return "", fmt.Errorf("archive entry %q contains a \"..\" component, which is forbidden", name)
		}
	}

	joined := filepath.Join(root, filepath.FromSlash(clean))

	rootWithSep := filepath.Clean(root) + string(os.PathSeparator)
	if joined+string(os.PathSeparator) != rootWithSep && !strings.HasPrefix(joined, rootWithSep) {
		return "", fmt.Errorf("archive entry %q escapes the extraction root", name)
	}

	return joined, nil
}
