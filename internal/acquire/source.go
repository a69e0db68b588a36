package acquire

import (
	"context"
	"strings"
)

// Source supplies candidate download URLs for a label. Sources may return
// more candidates than requested; failed downloads are replaced by later
// candidates.
type Source interface {
	Candidates(ctx context.Context, label string, n int) ([]string, error)
}

// ManifestSource serves the URLs listed in a manifest.
type ManifestSource struct {
	urls map[string][]string
}

// NewManifestSource indexes the manifest by label.
func NewManifestSource(m Manifest) *ManifestSource {
	urls := make(map[string][]string, len(m.Entries))
	for _, e := range m.Entries {
		label := strings.TrimSpace(e.Label)
		urls[label] = append(urls[label], e.URLs...)
	}
	return &ManifestSource{urls: urls}
}

// Candidates returns every URL listed for label. n is ignored so that
// rejected files can be replaced from the rest of the list.
func (s *ManifestSource) Candidates(_ context.Context, label string, _ int) ([]string, error) {
	return s.urls[label], nil
}
