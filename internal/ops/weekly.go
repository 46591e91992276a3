package ops

import (
	"context"
	stderrors "errors"
	"io/fs"
	"os"
	"time"
	"unicode/utf8"

	"github.com/hpungsan/runlog/internal/config"
	"github.com/hpungsan/runlog/internal/errors"
	"github.com/hpungsan/runlog/internal/logging"
	"github.com/hpungsan/runlog/internal/runlog"
)

// WeeklyInput contains parameters for the Weekly operation.
type WeeklyInput struct {
	Root string    // scan root and repo name source, default: working directory
	Now  time.Time // default: time.Now()
}

// WeeklyOutput contains the result of the Weekly operation.
type WeeklyOutput struct {
	Path     string         `json:"path"`
	HTMLPath string         `json:"html_path,omitempty"`
	Repo     string         `json:"repo"`
	Total    int            `json:"total"`
	Counts   runlog.Counts  `json:"counts"`
	Degraded int            `json:"degraded"`
	Block    string         `json:"block"`
	Entries  []runlog.Entry `json:"entries"`
}

// Weekly aggregates the records modified inside the trailing window and
// prepends the rendered digest block to the report file.
//
// Only writing the report itself can fail the run; unreadable records and
// an unreadable prior report are logged and tolerated.
func Weekly(ctx context.Context, cfg *config.Config, input WeeklyInput) (*WeeklyOutput, error) {
	logger := logging.From(ctx)

	root, err := resolveRoot(input.Root)
	if err != nil {
		return nil, err
	}
	now := nowOr(input.Now)

	found, err := Discover(ctx, cfg, root, windowCutoff(now, cfg.WindowDays))
	if err != nil {
		return nil, err
	}

	entries, degraded, err := parseFound(ctx, found, root)
	if err != nil {
		return nil, err
	}

	digest := runlog.Digest{
		GeneratedAt: now,
		Repo:        RepoName(root),
		WindowDays:  cfg.WindowDays,
		RecentLimit: cfg.RecentLimit,
		Entries:     entries,
	}
	block := digest.Render()

	reportPath := cfg.ReportPathIn(root)
	content := block + readPriorReport(ctx, reportPath)

	if err := writeFileAtomic(reportPath, []byte(content), 0644); err != nil {
		return nil, err
	}

	out := &WeeklyOutput{
		Path:     runlog.DisplayPath(reportPath, root),
		Repo:     digest.Repo,
		Total:    len(entries),
		Counts:   digest.Counts(),
		Degraded: degraded,
		Block:    block,
		Entries:  entries,
	}

	if htmlPath := cfg.HTMLReportPathIn(root); htmlPath != "" {
		page, err := renderReportHTML(content, digest.Repo, now)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		if err := writeFileAtomic(htmlPath, page, 0644); err != nil {
			return nil, err
		}
		out.HTMLPath = runlog.DisplayPath(htmlPath, root)
	}

	logger.Info("weekly report written",
		"path", out.Path,
		"total", out.Total,
		"a", out.Counts.A, "b", out.Counts.B, "c", out.Counts.C,
	)
	return out, nil
}

// parseFound parses every found record in order. Read failures become
// degraded entries and are counted.
func parseFound(ctx context.Context, found []Found, root string) ([]runlog.Entry, int, error) {
	logger := logging.From(ctx)

	entries := make([]runlog.Entry, 0, len(found))
	degraded := 0
	for _, f := range found {
		select {
		case <-ctx.Done():
			return nil, 0, errors.NewCancelled("parse records")
		default:
		}

		entry, err := runlog.ParseFile(f.Path, root)
		if err != nil {
			logger.Warn("unreadable run record counted as degraded", "file", entry.File, "error", err)
			degraded++
		}
		entries = append(entries, entry)
	}
	return entries, degraded, nil
}

// readPriorReport returns the current report text, or "" when it cannot be
// read. Invalid UTF-8 is replaced, never dropped.
func readPriorReport(ctx context.Context, path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		if !stderrors.Is(err, fs.ErrNotExist) {
			logging.From(ctx).Warn("prior report unreadable, starting empty", "path", path, "error", err)
		}
		return ""
	}
	if !utf8.Valid(data) {
		logging.From(ctx).Warn("prior report has invalid UTF-8, replacing bad bytes", "path", path)
	}
	return runlog.Decode(data)
}
