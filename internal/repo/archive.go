package repo

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chefport/cli/internal/errors"
)

// Archive extracts .zip sources into a temporary directory.
type Archive struct{}

// NewArchive returns the zip-extraction provider.
func NewArchive() *Archive {
	return &Archive{}
}

// Fetch extracts the archive at source into a fresh temp directory and
// returns that directory. Cleanup removes the extraction.
func (*Archive) Fetch(_ context.Context, source string) (string, func(), error) {
	reader, err := zip.OpenReader(source)
	if err != nil {
		return "", nil, errors.NewAcquisitionError(
			fmt.Sprintf("cannot open archive %s: %v", source, err),
			map[string]string{"source": source},
			"The source must be a readable .zip archive.",
		)
	}
	defer reader.Close()

	dir, err := os.MkdirTemp("", "chefport-src-*")
	if err != nil {
		return "", nil, fmt.Errorf("creating extraction directory: %w: %w", errors.ErrAcquisition, err)
	}
	cleanup := func() { _ = os.RemoveAll(dir) }

	for _, file := range reader.File {
		if err := extractFile(dir, file); err != nil {
			cleanup()
			return "", nil, fmt.Errorf("extracting %s from %s: %w: %w", file.Name, source, errors.ErrAcquisition, err)
		}
	}

	return dir, cleanup, nil
}

// extractFile writes one archive entry under dir. Entries whose cleaned
// path would escape dir are rejected rather than silently relocated.
func extractFile(dir string, file *zip.File) error {
	dst, err := safeJoin(dir, file.Name)
	if err != nil {
		return err
	}

	if file.FileInfo().IsDir() {
		return os.MkdirAll(dst, 0o755)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return err
	}
	return out.Close()
}

// safeJoin joins name under dir, rejecting absolute names and ../ escapes.
func safeJoin(dir, name string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(name))
	if filepath.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("archive entry %q escapes the extraction directory", name)
	}
	return filepath.Join(dir, cleaned), nil
}
