package ops

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hpungsan/runlog/internal/config"
	"github.com/hpungsan/runlog/internal/errors"
	"github.com/hpungsan/runlog/internal/runlog"
)

func TestRecent_ListsWithoutWritingReport(t *testing.T) {
	root := t.TempDir()
	writeRecordAt(t, root, "2025-09-01T09-00JST-first.md",
		"- Summary: first\n- When: 2025-09-01T09-00JST\n## Change Class\nB\n", testNow.Add(-3*time.Hour))
	writeRecordAt(t, root, "2025-08-20T09-00JST-old.md", "- Summary: old\n", testNow.Add(-12*24*time.Hour))

	out, err := Recent(context.Background(), config.DefaultConfig(), RecentInput{Root: root, Now: testNow})
	require.NoError(t, err)

	require.Equal(t, 1, out.Total)
	require.Equal(t, 7, out.WindowDays)
	require.Equal(t, runlog.Counts{B: 1}, out.Counts)
	require.Len(t, out.Items, 1)

	item := out.Items[0]
	require.Equal(t, "first", item.Label)
	require.Equal(t, "first", item.Summary)
	require.Equal(t, runlog.ClassB, item.ChangeClass)
	require.True(t, item.ModTime.Equal(testNow.Add(-3*time.Hour)))
	require.Equal(t, "3 hours ago", item.Age)

	_, err = os.Stat(filepath.Join(root, "docs", "reports", "weekly.md"))
	require.True(t, os.IsNotExist(err))
}

func TestRecent_Limit(t *testing.T) {
	root := t.TempDir()
	for i := range 5 {
		writeRecordAt(t, root, fmt.Sprintf("r%d.md", i), "- Summary: x\n", testNow.Add(-time.Duration(i)*time.Hour))
	}
	cfg := config.DefaultConfig()

	out, err := Recent(context.Background(), cfg, RecentInput{Root: root, Now: testNow, Limit: 2})
	require.NoError(t, err)
	require.Equal(t, 5, out.Total)
	require.Equal(t, 5, out.Counts.Total())
	require.Len(t, out.Items, 2)
	require.Equal(t, "r0", out.Items[0].Label)
	require.Equal(t, "r1", out.Items[1].Label)

	cfg.RecentLimit = 3
	out, err = Recent(context.Background(), cfg, RecentInput{Root: root, Now: testNow})
	require.NoError(t, err)
	require.Len(t, out.Items, 3)
}

func TestRecent_InvalidLimit(t *testing.T) {
	for _, limit := range []int{-1, MaxRecentLimit + 1} {
		_, err := Recent(context.Background(), config.DefaultConfig(), RecentInput{Root: t.TempDir(), Limit: limit})
		require.True(t, errors.Is(err, errors.ErrInvalidRequest), "limit %d: got %v", limit, err)
	}
}

func TestRecent_EmptyRunDir(t *testing.T) {
	out, err := Recent(context.Background(), config.DefaultConfig(), RecentInput{Root: t.TempDir(), Now: testNow})
	require.NoError(t, err)
	require.Empty(t, out.Items)
	require.NotNil(t, out.Items)
	require.Equal(t, 0, out.Total)
}
