// Package staging manages the local scratch files of ingestion runs.
package staging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"tubely/internal/domain"
)

// Area is a directory that holds the staged files of in-flight runs.
type Area struct {
	fs   afero.Fs
	root string
}

// NewArea creates an Area rooted at root on fs.
func NewArea(fs afero.Fs, root string) *Area {
	return &Area{fs: fs, root: root}
}

// Ready reports whether the staging directory exists or can be created.
func (a *Area) Ready() error {
	if err := a.fs.MkdirAll(a.root, 0o755); err != nil {
		return fmt.Errorf("%w: staging dir %s: %v", domain.ErrStorageIO, a.root, err)
	}
	return nil
}

// Root returns the staging directory.
func (a *Area) Root() string {
	return a.root
}

// Begin opens a run for videoID. Every run gets its own token so concurrent
// uploads for the same video never share a path. Release must be called once
// the run is finished.
func (a *Area) Begin(videoID uuid.UUID) (*Run, error) {
	if err := a.fs.MkdirAll(a.root, 0o755); err != nil {
		return nil, fmt.Errorf("%w: creating staging dir: %v", domain.ErrStorageIO, err)
	}
	token := uuid.NewString()
	return &Run{
		fs:   a.fs,
		base: filepath.Join(a.root, fmt.Sprintf("%s-%s", videoID, token)),
	}, nil
}

// Run owns the files created for one ingestion run.
type Run struct {
	fs      afero.Fs
	base    string
	mu      sync.Mutex
	tracked []string
}

// Stage copies src into a new file with the given extension. At most limit
// bytes are accepted; a larger body fails with domain.ErrFileTooLarge.
// The staged path is tracked even on failure.
func (r *Run) Stage(src io.Reader, ext string, limit int64) (string, int64, error) {
	path := r.base + "." + ext
	r.Track(path)

	f, err := r.fs.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return path, 0, fmt.Errorf("%w: creating staged file: %v", domain.ErrStorageIO, err)
	}

	body := &sourceReader{r: src}
	n, copyErr := io.Copy(f, io.LimitReader(body, limit+1))
	closeErr := f.Close()
	switch {
	case body.err != nil:
		return path, n, fmt.Errorf("%w: %v", domain.ErrIncompleteUpload, body.err)
	case copyErr != nil:
		return path, n, fmt.Errorf("%w: writing staged file: %v", domain.ErrStorageIO, copyErr)
	case closeErr != nil:
		return path, n, fmt.Errorf("%w: closing staged file: %v", domain.ErrStorageIO, closeErr)
	case n > limit:
		return path, n, domain.ErrFileTooLarge
	case n == 0:
		return path, 0, domain.ErrEmptyUpload
	}
	return path, n, nil
}

// Track registers a derived file for removal on Release.
func (r *Run) Track(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tracked = append(r.tracked, path)
}

// Tracked returns the files registered so far.
func (r *Run) Tracked() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.tracked...)
}

// Release removes every tracked file. Files that were never created are
// ignored, so Release is safe to call more than once. Files that could not
// be removed stay tracked for the next call.
func (r *Run) Release() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var remaining []string
	var errs []error
	for _, path := range r.tracked {
		if err := r.fs.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			remaining = append(remaining, path)
			errs = append(errs, err)
		}
	}
	r.tracked = remaining
	if len(errs) > 0 {
		return fmt.Errorf("%w: removing staged files: %v", domain.ErrStorageIO, errors.Join(errs...))
	}
	return nil
}

// sourceReader records read errors from the upload body so they can be told
// apart from local write failures.
type sourceReader struct {
	r   io.Reader
	err error
}

func (s *sourceReader) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	if err != nil && !errors.Is(err, io.EOF) {
		s.err = err
	}
	return n, err
}
