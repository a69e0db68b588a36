// Package acquire downloads labelled image sets under count and byte quotas.
package acquire

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/colonyops/sqcrop/internal/core/imagestore"
	"github.com/colonyops/sqcrop/internal/core/logging"
)

// Extensions accepted for saved files. Anything else is written as jpg.
var Extensions = []string{"jpg", "jpeg", "png", "tiff", "tif", "gif"}

const defaultExt = "jpg"

// ErrFileTooLarge marks a download rejected by the per-file size cap.
var ErrFileTooLarge = errors.New("file exceeds size limit")

// StatusError is returned for non-200 responses.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.Code)
}

// Limits are the quotas enforced by a run.
type Limits struct {
	MaxPerLabel int
	MaxLabels   int
	MaxBytes    int64
	MaxFileSize int64
}

// MaxFiles is the global file cap.
func (l Limits) MaxFiles() int {
	return l.MaxPerLabel * l.MaxLabels
}

// Options configures a Downloader.
type Options struct {
	Limits            Limits
	RequestsPerSecond float64
	Timeout           time.Duration
	UserAgent         string
	// Client overrides the HTTP client, mainly for tests.
	Client *http.Client
}

// Request asks for Count images for Label.
type Request struct {
	Label string
	Count int
}

// StopReason records why a run ended before exhausting its requests.
type StopReason string

const (
	StopNone      StopReason = ""
	StopMaxLabels StopReason = "max_labels"
	StopMaxFiles  StopReason = "max_files"
	StopMaxBytes  StopReason = "max_bytes"
)

// LabelReport summarizes one label.
type LabelReport struct {
	Label     string
	Dir       string
	Requested int
	Saved     int
	Rejected  int
	Failed    int
}

// Report summarizes a run.
type Report struct {
	Labels  []LabelReport
	Files   int
	Bytes   int64
	Stopped StopReason
}

// Downloader runs acquisitions.
type Downloader struct {
	client  *http.Client
	limiter *rate.Limiter
	limits  Limits
	agent   string
	log     zerolog.Logger
}

// New creates a downloader.
func New(opts Options, log zerolog.Logger) *Downloader {
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}

	return &Downloader{
		client:  client,
		limiter: rate.NewLimiter(limit, 1),
		limits:  opts.Limits,
		agent:   opts.UserAgent,
		log:     log,
	}
}

// Run downloads every request into root/<label>/<ordinal>.<ext> until the
// requests are exhausted or a cap is hit. Failed and oversized downloads
// are logged and not counted. Idle connections are closed on return.
func (d *Downloader) Run(ctx context.Context, root string, src Source, reqs []Request) (Report, error) {
	defer d.client.CloseIdleConnections()

	var report Report
	maxFiles := d.limits.MaxFiles()

	for i, req := range reqs {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		switch {
		case i >= d.limits.MaxLabels:
			report.Stopped = StopMaxLabels
		case report.Files >= maxFiles:
			report.Stopped = StopMaxFiles
		case report.Bytes >= d.limits.MaxBytes:
			report.Stopped = StopMaxBytes
		}
		if report.Stopped != StopNone {
			d.log.Warn().Ctx(ctx).
				Str("reason", string(report.Stopped)).
				Int("files", report.Files).
				Str("bytes", humanize.Bytes(uint64(report.Bytes))).
				Msg("quota reached, stopping")
			return report, nil
		}

		count := min(req.Count, d.limits.MaxPerLabel)
		if report.Files+count > maxFiles {
			count = maxFiles - report.Files
			d.log.Info().Ctx(ctx).
				Str("label", req.Label).
				Int("count", count).
				Msg("reducing count to fit global file cap")
		}

		lr, err := d.runLabel(logging.WithLabel(ctx, req.Label), root, src, req.Label, count, &report)
		report.Labels = append(report.Labels, lr)
		if err != nil {
			return report, err
		}
	}

	return report, nil
}

func (d *Downloader) runLabel(ctx context.Context, root string, src Source, label string, count int, report *Report) (LabelReport, error) {
	lr := LabelReport{
		Label:     label,
		Dir:       filepath.Join(root, SanitizeLabel(label)),
		Requested: count,
	}

	if err := os.MkdirAll(lr.Dir, 0o755); err != nil {
		return lr, fmt.Errorf("create label dir: %w", err)
	}

	urls, err := src.Candidates(ctx, label, count)
	if err != nil {
		d.log.Warn().Ctx(ctx).Err(err).Msg("listing candidates failed")
		return lr, nil
	}

	for _, u := range urls {
		if lr.Saved >= count || report.Bytes >= d.limits.MaxBytes {
			break
		}

		n, err := d.fetch(ctx, u, lr.Dir, lr.Saved)
		switch {
		case err == nil:
			lr.Saved++
			report.Files++
			report.Bytes += n
			d.log.Debug().Ctx(ctx).
				Str("url", u).
				Str("size", humanize.Bytes(uint64(n))).
				Int("ordinal", lr.Saved-1).
				Msg("downloaded")
		case ctx.Err() != nil:
			return lr, ctx.Err()
		case errors.Is(err, ErrFileTooLarge):
			lr.Rejected++
			d.log.Info().Ctx(ctx).Str("url", u).Msg("discarding oversized file")
		default:
			lr.Failed++
			d.log.Warn().Ctx(ctx).Err(err).Str("url", u).Msg("download failed")
		}
	}

	d.log.Info().Ctx(ctx).
		Int("saved", lr.Saved).
		Int("requested", count).
		Msg("label complete")
	return lr, nil
}

// fetch downloads u to dir/<ordinal>.<ext> and returns the bytes written.
func (d *Downloader) fetch(ctx context.Context, u, dir string, ordinal int) (int64, error) {
	if err := d.limiter.Wait(ctx); err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	if d.agent != "" {
		req.Header.Set("User-Agent", d.agent)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetch %s: %w", u, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return 0, &StatusError{URL: u, Code: resp.StatusCode}
	}

	maxSize := d.limits.MaxFileSize
	if resp.ContentLength > maxSize {
		return 0, fmt.Errorf("%w: %d > %d bytes", ErrFileTooLarge, resp.ContentLength, maxSize)
	}

	tmp, err := os.CreateTemp(dir, imagestore.TempPrefix+"*.part")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	keep := false
	defer func() {
		if !keep {
			_ = os.Remove(tmpPath)
		}
	}()

	n, err := io.Copy(tmp, io.LimitReader(resp.Body, maxSize+1))
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return 0, fmt.Errorf("write %s: %w", u, err)
	}
	if n > maxSize {
		return 0, fmt.Errorf("%w: more than %d bytes", ErrFileTooLarge, maxSize)
	}

	final := filepath.Join(dir, strconv.Itoa(ordinal)+"."+detectExt(u, resp.Header.Get("Content-Type")))
	if err := os.Rename(tmpPath, final); err != nil {
		return 0, fmt.Errorf("rename into place: %w", err)
	}
	keep = true

	return n, nil
}

// SanitizeLabel turns a label into a directory name.
func SanitizeLabel(label string) string {
	return strings.NewReplacer(".", "_", " ", "_").Replace(label)
}

// detectExt picks the file extension from the URL path, falling back to
// the content type and finally jpg.
func detectExt(rawURL, contentType string) string {
	if u, err := url.Parse(rawURL); err == nil {
		ext := strings.ToLower(strings.TrimPrefix(path.Ext(u.Path), "."))
		if isExt(ext) {
			return ext
		}
	}

	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		if sub, ok := strings.CutPrefix(mt, "image/"); ok && isExt(sub) {
			return sub
		}
	}

	return defaultExt
}

func isExt(ext string) bool {
	return slices.Contains(Extensions, ext)
}
