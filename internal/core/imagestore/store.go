// Package imagestore persists cropped images back to the filesystem.
//
// Replacement is crash-safe: the new image is fully written to a temporary
// file in the destination directory and renamed into place before any
// original file is removed.
package imagestore

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/colonyops/sqcrop/internal/core/imageio"
)

// TempPrefix marks in-flight files written by the store.
const TempPrefix = ".sqcrop-"

// Encoder writes an image in a given format.
type Encoder interface {
	Encode(w io.Writer, img image.Image, f imageio.Format) error
}

// Store replaces and removes image files.
type Store struct {
	enc      Encoder
	siblings []string
	log      zerolog.Logger
}

// New creates a store. siblingExts lists the extensions (with leading dot)
// that count as stale copies of the same image and are removed after a
// replace.
func New(enc Encoder, siblingExts []string, log zerolog.Logger) *Store {
	return &Store{enc: enc, siblings: siblingExts, log: log}
}

// TargetPath returns the path a replaced image is written to.
func TargetPath(path string, f imageio.Format) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + f.Ext()
}

// Replace writes img over the image at path using format f and returns the
// final path. The original path is removed when the format changes its
// extension, along with any other same-basename sibling.
func (s *Store) Replace(path string, img image.Image, f imageio.Format) (string, error) {
	target := TargetPath(path, f)
	dir := filepath.Dir(target)

	tmp, err := os.CreateTemp(dir, TempPrefix+filepath.Base(target)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if err := s.enc.Encode(tmp, img, f); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("encode %s: %w", f, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}

	if info, err := os.Stat(path); err == nil {
		_ = os.Chmod(tmpName, info.Mode().Perm())
	}

	if err := os.Rename(tmpName, target); err != nil {
		return "", fmt.Errorf("rename into place: %w", err)
	}
	committed = true

	s.removeStale(target, path)
	return target, nil
}

// removeStale deletes every file that shares target's basename but not its
// extension. Failures are logged; the new image is already durable.
func (s *Store) removeStale(target, original string) {
	base := strings.TrimSuffix(target, filepath.Ext(target))

	candidates := make([]string, 0, len(s.siblings)+1)
	if original != target {
		candidates = append(candidates, original)
	}
	for _, ext := range s.siblings {
		p := base + ext
		if p != target && !slices.Contains(candidates, p) {
			candidates = append(candidates, p)
		}
	}

	for _, p := range candidates {
		err := os.Remove(p)
		switch {
		case err == nil:
			s.log.Debug().Str("path", p).Msg("removed stale sibling")
		case errors.Is(err, os.ErrNotExist):
		default:
			s.log.Warn().Err(err).Str("path", p).Msg("failed to remove stale sibling")
		}
	}
}

// Remove deletes the image at path.
func (s *Store) Remove(path string) error {
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}
