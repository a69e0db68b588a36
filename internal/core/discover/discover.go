// Package discover builds the review queue from a directory tree.
package discover

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultPatterns are the recognized image file name globs. Matching is
// case-sensitive.
var DefaultPatterns = []string{"*.jpg", "*.jpeg", "*.png", "*.tiff", "*.tif"}

// Options configures the walk.
type Options struct {
	// Patterns are matched against each file's base name.
	Patterns []string
	// Exclude patterns are matched against the slash-separated path relative
	// to the root. A matching directory is not descended into.
	Exclude []string
	// SkipPrefixes drops files whose base name starts with any prefix.
	SkipPrefixes []string
}

// Walk returns every matching file below root in lexical depth-first order.
// The result is materialized once and never rescanned.
func Walk(root string, opts Options) ([]string, error) {
	patterns := opts.Patterns
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}

	for _, p := range append(append([]string{}, patterns...), opts.Exclude...) {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid pattern %q", p)
		}
	}

	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if rel != "." && matchAny(opts.Exclude, rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		name := d.Name()
		for _, prefix := range opts.SkipPrefixes {
			if strings.HasPrefix(name, prefix) {
				return nil
			}
		}

		if matchAny(patterns, name) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	return paths, nil
}

func matchAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}
	return false
}
