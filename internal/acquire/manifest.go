package acquire

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hay-kot/criterio"
	"gopkg.in/yaml.v3"

	"github.com/colonyops/sqcrop/internal/core/validate"
)

// Entry requests Count images for Label from URLs.
type Entry struct {
	Label string   `yaml:"label"`
	Count int      `yaml:"count"`
	URLs  []string `yaml:"urls"`
}

// Manifest is the input document for an acquisition run.
//
//	entries:
//	  - label: golden retriever
//	    count: 50
//	    urls:
//	      - https://example.com/a.jpg
type Manifest struct {
	Entries []Entry `yaml:"entries"`
}

// LoadManifest reads and validates a manifest file.
func LoadManifest(path string) (Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("open manifest: %w", err)
	}
	defer func() { _ = f.Close() }()

	return ParseManifest(f)
}

// ParseManifest decodes and validates a manifest.
func ParseManifest(r io.Reader) (Manifest, error) {
	var m Manifest
	if err := yaml.NewDecoder(r).Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return Manifest{}, errors.New("manifest is empty")
		}
		return Manifest{}, fmt.Errorf("parse manifest: %w", err)
	}

	if err := m.Validate(); err != nil {
		return Manifest{}, fmt.Errorf("invalid manifest: %w", err)
	}
	return m, nil
}

// Validate checks labels, counts and URLs.
func (m Manifest) Validate() error {
	var errs criterio.FieldErrorsBuilder
	seen := make(map[string]int, len(m.Entries))

	for i, e := range m.Entries {
		field := fmt.Sprintf("entries[%d]", i)

		label := strings.TrimSpace(e.Label)
		if err := validate.Required(label); err != nil {
			errs = errs.Append(field+".label", err)
		} else {
			key := SanitizeLabel(label)
			if prev, ok := seen[key]; ok {
				errs = errs.Append(field+".label", fmt.Errorf("collides with entries[%d]", prev))
			}
			seen[key] = i
		}

		if e.Count < 0 {
			errs = errs.Append(field+".count", errors.New("must not be negative"))
		}

		for j, raw := range e.URLs {
			if err := validate.HTTPURL(raw); err != nil {
				errs = errs.Append(fmt.Sprintf("%s.urls[%d]", field, j), err)
			}
		}
	}

	return errs.ToError()
}

// Requests returns the (label, count) pairs in manifest order.
func (m Manifest) Requests() []Request {
	reqs := make([]Request, 0, len(m.Entries))
	for _, e := range m.Entries {
		reqs = append(reqs, Request{Label: strings.TrimSpace(e.Label), Count: e.Count})
	}
	return reqs
}
