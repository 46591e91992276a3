package ops

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/hpungsan/runlog/internal/config"
	"github.com/hpungsan/runlog/internal/errors"
	"github.com/hpungsan/runlog/internal/logging"
)

// ScheduleInput contains parameters for the Schedule operation.
type ScheduleInput struct {
	Root     string                     // default: working directory
	Cron     string                     // default: cfg.Schedule
	MaxRuns  int                        // 0 runs until ctx is done
	Clock    func() time.Time           // default: time.Now
	OnReport func(*WeeklyOutput, error) // called after every run, optional
}

// ScheduleOutput contains the result of the Schedule operation.
type ScheduleOutput struct {
	Runs   int `json:"runs"`
	Failed int `json:"failed"`
}

// ParseCron parses a standard five-field cron expression.
func ParseCron(expr string) (cron.Schedule, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(expr)
	if err != nil {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("invalid cron expression %q: %v", expr, err))
	}
	return sched, nil
}

// Schedule runs Weekly each time the cron expression fires. Runs are strictly
// sequential; a run that overlaps a firing delays the next one. A failed run
// is logged and does not stop the loop.
//
// When ctx is cancelled the loop stops and a CANCELLED error is returned
// alongside the runs completed so far. With MaxRuns set the loop returns
// normally after that many runs.
func Schedule(ctx context.Context, cfg *config.Config, input ScheduleInput) (*ScheduleOutput, error) {
	logger := logging.From(ctx)

	expr := strings.TrimSpace(input.Cron)
	if expr == "" {
		expr = strings.TrimSpace(cfg.Schedule)
	}
	if expr == "" {
		return nil, errors.NewMissingField("cron")
	}
	sched, err := ParseCron(expr)
	if err != nil {
		return nil, err
	}

	clock := input.Clock
	if clock == nil {
		clock = time.Now
	}

	out := &ScheduleOutput{}
	for input.MaxRuns <= 0 || out.Runs < input.MaxRuns {
		now := clock()
		next := sched.Next(now)
		logger.Info("next weekly run", "at", next)

		timer := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			return out, errors.NewCancelled("schedule")
		case <-timer.C:
		}

		res, err := Weekly(ctx, cfg, WeeklyInput{Root: input.Root, Now: clock()})
		out.Runs++
		if err != nil {
			if errors.Is(err, errors.ErrCancelled) {
				return out, err
			}
			out.Failed++
			logger.Error("scheduled weekly run failed", "error", err)
		}
		if input.OnReport != nil {
			input.OnReport(res, err)
		}
	}
	return out, nil
}
