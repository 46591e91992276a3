package ops

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hpungsan/runlog/internal/config"
	"github.com/hpungsan/runlog/internal/errors"
	"github.com/hpungsan/runlog/internal/runlog"
)

// WriteInput contains parameters for the Write operation.
type WriteInput struct {
	Root        string    // repository root, default: working directory
	Now         time.Time // default: time.Now()
	Label       string    // required, used verbatim in the filename
	Summary     string    // required
	Intent      string    // required
	Results     string    // optional
	NextActions string    // optional
}

// WriteOutput contains the result of the Write operation.
type WriteOutput struct {
	Path     string `json:"path"`
	Filename string `json:"filename"`
	When     string `json:"when"`
	Repo     string `json:"repo"`
}

// Write creates one new run record under the configured run directory.
// Filesystem errors are returned as INTERNAL errors wrapping the cause.
func Write(cfg *config.Config, input WriteInput) (*WriteOutput, error) {
	if err := validateWriteInput(input); err != nil {
		return nil, err
	}

	root, err := resolveRoot(input.Root)
	if err != nil {
		return nil, err
	}

	record := runlog.Record{
		When:        nowOr(input.Now),
		Label:       input.Label,
		Repo:        RepoName(root),
		Summary:     strings.TrimSpace(input.Summary),
		Intent:      input.Intent,
		Results:     input.Results,
		NextActions: input.NextActions,
	}

	dir := cfg.RunDirIn(root)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create run directory: %w", err))
	}

	path := filepath.Join(dir, record.Filename())
	if err := os.WriteFile(path, []byte(record.Body()), 0644); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to write run record: %w", err))
	}

	return &WriteOutput{
		Path:     runlog.DisplayPath(path, root),
		Filename: record.Filename(),
		When:     runlog.Stamp(record.When),
		Repo:     record.Repo,
	}, nil
}

func validateWriteInput(input WriteInput) error {
	if strings.TrimSpace(input.Label) == "" {
		return errors.NewMissingField("label")
	}
	if strings.ContainsAny(input.Label, `/\`) || strings.Contains(input.Label, "..") {
		return errors.NewInvalidRequest("label must not contain path separators or ..")
	}
	if strings.ContainsAny(input.Label, "\r\n") {
		return errors.NewInvalidRequest("label must be a single line")
	}
	if strings.TrimSpace(input.Summary) == "" {
		return errors.NewMissingField("summary")
	}
	if strings.ContainsAny(input.Summary, "\r\n") {
		return errors.NewInvalidRequest("summary must be a single line")
	}
	if strings.TrimSpace(input.Intent) == "" {
		return errors.NewMissingField("intent")
	}
	return nil
}
