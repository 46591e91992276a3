package ops

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hpungsan/runlog/internal/config"
	"github.com/hpungsan/runlog/internal/runlog"
)

// TestFullWorkflow exercises the record lifecycle:
// weekly (empty) → write → weekly (counted) → write classified → weekly → recent
func TestFullWorkflow(t *testing.T) {
	root := t.TempDir()
	cfg := config.DefaultConfig()
	ctx := context.Background()
	now := time.Now()

	// 1. Weekly over an empty repo still writes a report
	empty, err := Weekly(ctx, cfg, WeeklyInput{Root: root, Now: now})
	require.NoError(t, err)
	require.Equal(t, 0, empty.Total)

	// 2. Write a record without a change class
	writeOut, err := Write(cfg, WriteInput{
		Root:    root,
		Now:     now,
		Label:   "flaky-fix",
		Summary: "Fix flaky test",
		Intent:  "Stop the retry loop masking a race",
	})
	require.NoError(t, err)

	// 3. Weekly counts it exactly once, as C
	first, err := Weekly(ctx, cfg, WeeklyInput{Root: root, Now: now.Add(time.Minute)})
	require.NoError(t, err)
	require.Equal(t, empty.Total+1, first.Total)
	require.Equal(t, empty.Counts.C+1, first.Counts.C)
	require.Equal(t, empty.Counts.A, first.Counts.A)
	require.Equal(t, empty.Counts.B, first.Counts.B)
	require.Contains(t, first.Block, "Fix flaky test")
	require.Contains(t, first.Block, "`flaky-fix`")
	require.Contains(t, first.Block, writeOut.Path)

	// 4. Append a Change Class section to a second record and re-run
	second, err := Write(cfg, WriteInput{
		Root:    root,
		Now:     now.Add(time.Minute),
		Label:   "schema-migration",
		Summary: "Migrate users table",
		Intent:  "Add tenant column",
	})
	require.NoError(t, err)
	f, err := os.OpenFile(filepath.Join(root, second.Path), os.O_APPEND|os.O_WRONLY, 0)
	require.NoError(t, err)
	_, err = f.WriteString("\n## Change Class\nA\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	third, err := Weekly(ctx, cfg, WeeklyInput{Root: root, Now: now.Add(2 * time.Minute)})
	require.NoError(t, err)
	require.Equal(t, runlog.Counts{A: 1, C: 1}, third.Counts)

	// 5. Report holds every block, newest first
	data, err := os.ReadFile(filepath.Join(root, third.Path))
	require.NoError(t, err)
	require.Equal(t, third.Block+first.Block+empty.Block, string(data))
	require.Equal(t, 3, strings.Count(string(data), "## Weekly Health"))

	// 6. Recent sees the same records without touching the report
	recent, err := Recent(ctx, cfg, RecentInput{Root: root, Now: now.Add(2 * time.Minute)})
	require.NoError(t, err)
	require.Equal(t, 2, recent.Total)

	after, err := os.ReadFile(filepath.Join(root, third.Path))
	require.NoError(t, err)
	require.Equal(t, string(data), string(after))
}
