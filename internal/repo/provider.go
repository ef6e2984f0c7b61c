// Package repo acquires source repositories for conversion.
//
// Acquisition is a collaborator seam: the pipeline only needs a filesystem
// root to scan for cookbooks, and any provider failure is the caller-fatal
// acquisition error. Network providers (git clones) live behind the same
// interface outside this package.
package repo

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/chefport/cli/internal/errors"
)

// Provider yields a filesystem root for a source reference. The cleanup
// function releases whatever the provider materialized (temp dirs for
// archives, nothing for local paths) and is safe to call exactly once.
type Provider interface {
	Fetch(ctx context.Context, source string) (root string, cleanup func(), err error)
}

// Local serves sources that are already directories on disk.
type Local struct{}

// NewLocal returns the pass-through provider.
func NewLocal() *Local {
	return &Local{}
}

// Fetch verifies source is an existing directory and returns it unchanged.
// A .zip file is handed to the Archive provider, so callers can pass either
// form through one entry point.
func (*Local) Fetch(ctx context.Context, source string) (string, func(), error) {
	info, err := os.Stat(source)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, errors.NewAcquisitionError(
				fmt.Sprintf("source path %s does not exist", source),
				map[string]string{"source": source},
				"Check the path, or pass a .zip archive instead.",
			)
		}
		return "", nil, fmt.Errorf("checking source %s: %w: %w", source, errors.ErrAcquisition, err)
	}
	if !info.IsDir() {
		if strings.HasSuffix(strings.ToLower(source), ".zip") {
			return NewArchive().Fetch(ctx, source)
		}
		return "", nil, errors.NewAcquisitionError(
			fmt.Sprintf("source path %s is not a directory", source),
			map[string]string{"source": source},
			"Point at a directory containing cookbooks, or at a .zip archive.",
		)
	}

	return source, func() {}, nil
}
