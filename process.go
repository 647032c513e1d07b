//nolint:wrapcheck
package splitter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/spidy-senpai/splitter/internal/encode"
	"github.com/spidy-senpai/splitter/internal/storage"
)

// Workspace scopes the lifetime of encoded stem artifacts. Close removes
// everything it holds; callers defer it so temporary storage is released
// on success and failure alike.
type Workspace struct {
	dir string
}

// NewWorkspace creates a fresh temporary directory for stem artifacts.
func NewWorkspace() (*Workspace, error) {
	dir, err := os.MkdirTemp("", "splitter-*")
	if err != nil {
		return nil, fmt.Errorf("creating workspace: %w", err)
	}

	return &Workspace{dir: dir}, nil
}

// Path returns the artifact path for a stem name.
func (w *Workspace) Path(stem string) string {
	return filepath.Join(w.dir, stem+".wav")
}

// WriteStems encodes every stem of a separation result into the
// workspace and returns the paths by stem name.
func (w *Workspace) WriteStems(result *SeparationResult) (map[string]string, error) {
	paths := make(map[string]string, len(result.Stems))

	for name, stem := range result.Stems {
		path := w.Path(name)
		if err := encode.WriteWAV(path, stem.Waveform); err != nil {
			return nil, fmt.Errorf("%w: encoding %q: %w", ErrSeparation, name, err)
		}

		paths[name] = path
	}

	return paths, nil
}

// Close releases all artifacts the workspace holds.
func (w *Workspace) Close() error {
	return os.RemoveAll(w.dir)
}

// StemUpload is the per-stem outcome of Process. Failed uploads carry Err
// (wrapping ErrUpload) and an empty URL; their siblings are unaffected.
type StemUpload struct {
	Name        string
	DisplayName string
	Emoji       string
	URL         string
	PublicID    string
	Format      string
	Bytes       int64
	Err         error
}

// ProcessResult aggregates the upload outcomes of one processed file.
type ProcessResult struct {
	Stems          map[string]*StemUpload
	SourceDuration float64
	Timestamp      time.Time
}

// Successful returns the subset of stems that uploaded cleanly.
func (r *ProcessResult) Successful() map[string]*StemUpload {
	ok := make(map[string]*StemUpload)

	for name, stem := range r.Stems {
		if stem.Err == nil {
			ok[name] = stem
		}
	}

	return ok
}

// Process runs the full workflow: separate the file, encode every stem
// into a scoped workspace, and publish each artifact under
// <scope>/<stem>_<uuid>.
//
// Separation is all-or-nothing, but uploads degrade gracefully: a failed
// stem is recorded with its error while the remaining stems still go out.
// Workspace artifacts are removed before returning, on every path.
func Process(
	ctx context.Context,
	path, scope string,
	uploader storage.Uploader,
	opts Options,
) (*ProcessResult, error) {
	separated, err := Separate(ctx, path, opts)
	if err != nil {
		return nil, err
	}

	workspace, err := NewWorkspace()
	if err != nil {
		return nil, err
	}

	defer func() {
		if err := workspace.Close(); err != nil {
			slog.Warn("releasing workspace", "error", err)
		}
	}()

	artifacts, err := workspace.WriteStems(separated)
	if err != nil {
		return nil, err
	}

	result := &ProcessResult{
		Stems:          make(map[string]*StemUpload, len(artifacts)),
		SourceDuration: separated.SourceDuration,
		Timestamp:      time.Now().UTC(),
	}

	for _, def := range stemDefinitions {
		stemStart := time.Now()
		opts.emit("upload", def.Name, "start", stemStart)

		entry := &StemUpload{
			Name:        def.Name,
			DisplayName: def.DisplayName,
			Emoji:       def.Emoji,
		}
		result.Stems[def.Name] = entry

		publicID := fmt.Sprintf("%s/%s_%s", scope, def.Name, uuid.NewString())

		uploaded, err := uploader.Upload(ctx, artifacts[def.Name], publicID)
		if err != nil {
			entry.Err = fmt.Errorf("%w: %s: %w", ErrUpload, def.Name, err)
			opts.emit("upload", def.Name, "error", stemStart)

			continue
		}

		entry.URL = uploaded.SecureURL
		entry.PublicID = uploaded.PublicID
		entry.Format = uploaded.Format
		entry.Bytes = uploaded.Bytes

		opts.emit("upload", def.Name, "done", stemStart)
	}

	return result, nil
}
