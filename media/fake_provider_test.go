package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeProvider records calls in order and fails on demand.
type fakeProvider struct {
	mu         sync.Mutex
	calls      []string
	uploads    []UploadOptions
	destroyed  []string
	invalidate []bool
	n          int

	uploadErr  error
	failUpload map[Kind]bool
	destroyErr error
}

func (p *fakeProvider) Upload(_ context.Context, localPath string, opts UploadOptions) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, "upload:"+string(opts.Kind))
	p.uploads = append(p.uploads, opts)
	if _, err := os.Stat(localPath); err != nil {
		return "", fmt.Errorf("local file unreadable: %w", err)
	}
	if p.uploadErr != nil || p.failUpload[opts.Kind] {
		err := p.uploadErr
		if err == nil {
			err = fmt.Errorf("%s upload rejected", opts.Kind)
		}
		return "", err
	}
	p.n++
	return fmt.Sprintf("https://res.cloudinary.com/demo/%s/upload/v100/%s/new%d.jpg", opts.Kind, opts.Folder, p.n), nil
}

func (p *fakeProvider) Destroy(_ context.Context, identifier string, kind Kind, invalidate bool) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, "destroy:"+identifier)
	p.destroyed = append(p.destroyed, identifier)
	p.invalidate = append(p.invalidate, invalidate)
	if p.destroyErr != nil {
		return "", p.destroyErr
	}
	return "ok", nil
}

func (p *fakeProvider) Calls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.calls...)
}

// fakeLedger keeps recorded orphans in memory.
type fakeLedger struct {
	mu      sync.Mutex
	orphans []DeleteResult
}

func (l *fakeLedger) RecordOrphan(_ context.Context, res DeleteResult) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.orphans = append(l.orphans, res)
	return nil
}

// stageBytes writes a file into dir the way the intake would and returns it.
func stageBytes(t *testing.T, dir, name string, data []byte) *StagedFile {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return &StagedFile{Field: "photo", Path: path, OriginalName: name, Size: int64(len(data))}
}
