package ops

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hpungsan/runlog/internal/config"
	"github.com/hpungsan/runlog/internal/errors"
	"github.com/hpungsan/runlog/internal/runlog"
)

func validWriteInput(root string) WriteInput {
	return WriteInput{
		Root:        root,
		Now:         testNow,
		Label:       "devcontainer-smoke",
		Summary:     "DevContainer build & smoke tests",
		Intent:      "Ensure unified env works across repos",
		Results:     "all green",
		NextActions: "- roll out to the other repos",
	}
}

func TestWrite_HappyPath(t *testing.T) {
	root := t.TempDir()
	cfg := config.DefaultConfig()

	out, err := Write(cfg, validWriteInput(root))
	require.NoError(t, err)

	wantRel := filepath.Join("docs", "run", "2025-09-01T12-00JST-devcontainer-smoke.md")
	require.Equal(t, wantRel, out.Path)
	require.Equal(t, "2025-09-01T12-00JST-devcontainer-smoke.md", out.Filename)
	require.Equal(t, "2025-09-01T12-00JST", out.When)
	require.Equal(t, filepath.Base(root), out.Repo)

	data, err := os.ReadFile(filepath.Join(root, wantRel))
	require.NoError(t, err)

	want := runlog.Record{
		When:        testNow,
		Label:       "devcontainer-smoke",
		Repo:        filepath.Base(root),
		Summary:     "DevContainer build & smoke tests",
		Intent:      "Ensure unified env works across repos",
		Results:     "all green",
		NextActions: "- roll out to the other repos",
	}
	require.Equal(t, want.Body(), string(data))
}

func TestWrite_OptionalSectionsGetPlaceholders(t *testing.T) {
	root := t.TempDir()
	in := validWriteInput(root)
	in.Results = ""
	in.NextActions = ""

	out, err := Write(config.DefaultConfig(), in)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(root, out.Path))
	require.NoError(t, err)
	require.Contains(t, string(data), "## Results\n"+runlog.ResultsPlaceholder+"\n")
	require.Contains(t, string(data), "## Next actions\n"+runlog.NextActionsPlaceholder+"\n")
	require.Contains(t, string(data), "## Commands\n"+runlog.CommandsPlaceholder+"\n")
}

func TestWrite_CreatesRunDirOnce(t *testing.T) {
	root := t.TempDir()
	cfg := config.DefaultConfig()

	first := validWriteInput(root)
	second := validWriteInput(root)
	second.Label = "second"

	_, err := Write(cfg, first)
	require.NoError(t, err)
	_, err = Write(cfg, second)
	require.NoError(t, err)

	entries, err := os.ReadDir(filepath.Join(root, "docs", "run"))
	require.NoError(t, err)
	require.Len(t, entries, 2)
}

func TestWrite_CustomRunDir(t *testing.T) {
	root := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.RunDir = "logs"

	out, err := Write(cfg, validWriteInput(root))
	require.NoError(t, err)
	require.Equal(t, filepath.Join("logs", "2025-09-01T12-00JST-devcontainer-smoke.md"), out.Path)
}

func TestWrite_Validation(t *testing.T) {
	root := t.TempDir()
	cfg := config.DefaultConfig()

	tests := []struct {
		name  string
		apply func(*WriteInput)
	}{
		{"missing label", func(in *WriteInput) { in.Label = "" }},
		{"blank label", func(in *WriteInput) { in.Label = "   " }},
		{"label with slash", func(in *WriteInput) { in.Label = "a/b" }},
		{"label with backslash", func(in *WriteInput) { in.Label = `a\b` }},
		{"label with traversal", func(in *WriteInput) { in.Label = "..x" }},
		{"label with newline", func(in *WriteInput) { in.Label = "a\nb" }},
		{"missing summary", func(in *WriteInput) { in.Summary = "" }},
		{"multiline summary", func(in *WriteInput) { in.Summary = "one\ntwo" }},
		{"missing intent", func(in *WriteInput) { in.Intent = " \n" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validWriteInput(root)
			tt.apply(&in)

			_, err := Write(cfg, in)
			require.Error(t, err)
			require.True(t, errors.Is(err, errors.ErrInvalidRequest), "got %v", err)
		})
	}

	_, err := os.Stat(filepath.Join(root, "docs"))
	require.True(t, os.IsNotExist(err), "validation failures must not touch the filesystem")
}

func TestWrite_DirectoryCreationFailurePropagates(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "docs"), []byte("not a dir"), 0644))

	_, err := Write(config.DefaultConfig(), validWriteInput(root))
	require.Error(t, err)
	require.True(t, errors.Is(err, errors.ErrInternal))

	var pathErr *fs.PathError
	require.True(t, stderrors.As(err, &pathErr), "underlying *fs.PathError must be reachable")
}

func TestWrite_PermissionDeniedPropagates(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits not enforced")
	}
	root := t.TempDir()
	runDir := filepath.Join(root, "docs", "run")
	require.NoError(t, os.MkdirAll(runDir, 0755))
	require.NoError(t, os.Chmod(runDir, 0555))
	t.Cleanup(func() { os.Chmod(runDir, 0755) })

	_, err := Write(config.DefaultConfig(), validWriteInput(root))
	require.Error(t, err)
	require.True(t, errors.Is(err, errors.ErrInternal))
	require.True(t, stderrors.Is(err, fs.ErrPermission))
}
