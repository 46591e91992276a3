package ops

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/hpungsan/runlog/internal/config"
	"github.com/hpungsan/runlog/internal/errors"
	"github.com/hpungsan/runlog/internal/runlog"
)

// RecentInput contains parameters for the Recent operation.
type RecentInput struct {
	Root  string    // default: working directory
	Now   time.Time // default: time.Now()
	Limit int       // default: cfg.RecentLimit, max: MaxRecentLimit
}

// RecentItem is one parsed record of a recent listing.
type RecentItem struct {
	runlog.Entry
	ModTime time.Time `json:"mtime"`
	Age     string    `json:"age"`
}

// RecentOutput contains the result of the Recent operation.
type RecentOutput struct {
	Items      []RecentItem  `json:"items"`
	Total      int           `json:"total"`
	Counts     runlog.Counts `json:"counts"`
	WindowDays int           `json:"window_days"`
}

// Recent lists the records inside the trailing window without touching the
// report. Counts cover the whole window; Items are limited.
func Recent(ctx context.Context, cfg *config.Config, input RecentInput) (*RecentOutput, error) {
	limit := input.Limit
	if limit == 0 {
		limit = cfg.RecentLimit
	}
	if limit < 0 || limit > MaxRecentLimit {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("limit must be between 0 and %d", MaxRecentLimit))
	}

	root, err := resolveRoot(input.Root)
	if err != nil {
		return nil, err
	}
	now := nowOr(input.Now)

	found, err := Discover(ctx, cfg, root, windowCutoff(now, cfg.WindowDays))
	if err != nil {
		return nil, err
	}
	entries, _, err := parseFound(ctx, found, root)
	if err != nil {
		return nil, err
	}

	n := min(limit, len(entries))
	items := make([]RecentItem, 0, n)
	for i := range n {
		items = append(items, RecentItem{
			Entry:   entries[i],
			ModTime: found[i].ModTime,
			Age:     humanize.RelTime(found[i].ModTime, now, "ago", "from now"),
		})
	}

	return &RecentOutput{
		Items:      items,
		Total:      len(entries),
		Counts:     runlog.CountEntries(entries),
		WindowDays: cfg.WindowDays,
	}, nil
}
