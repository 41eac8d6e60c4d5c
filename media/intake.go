package media

import (
	"fmt"
	"io"
	"math/rand"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultMaxFileSize caps a single staged file.
const DefaultMaxFileSize int64 = 150 << 20

var (
	imageTypes = []string{"jpeg", "jpg", "png", "gif", "webp", "jfif", "bmp", "tiff", "svg", "ico", "heic", "raw"}
	videoTypes = []string{"mp4", "avi", "mov", "wmv", "flv", "webm", "mkv", "mpeg", "mpg"}
)

// IntakeConfig configures the local staging area.
type IntakeConfig struct {
	Dir         string
	MaxFileSize int64
}

// Intake writes incoming multipart files into a staging directory before they
// are pushed to the provider.
type Intake struct {
	dir     string
	maxSize int64
	now     func() time.Time
}

// StagedFile is a file sitting in the staging directory. Whoever holds it owns
// the file on disk until Release is called.
type StagedFile struct {
	Field        string
	Path         string
	OriginalName string
	ContentType  string
	Size         int64
}

// Release removes the staged file. It is safe to call more than once.
func (f *StagedFile) Release() error {
	if f == nil || f.Path == "" {
		return nil
	}
	err := os.Remove(f.Path)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

// NewIntake creates an Intake. The directory is created on first use.
func NewIntake(cfg IntakeConfig) *Intake {
	if cfg.Dir == "" {
		cfg.Dir = filepath.Join("uploads", "temp")
	}
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = DefaultMaxFileSize
	}
	return &Intake{dir: cfg.Dir, maxSize: cfg.MaxFileSize, now: time.Now}
}

// Dir returns the staging directory.
func (in *Intake) Dir() string { return in.dir }

// MaxFileSize returns the per-file cap in bytes.
func (in *Intake) MaxFileSize() int64 { return in.maxSize }

// Accepts reports whether a part with the given declared content type and file
// name passes the image/video filter.
func Accepts(contentType, filename string) bool {
	return matches(contentType, filename, imageTypes) || matches(contentType, filename, videoTypes)
}

func matches(contentType, filename string, allow []string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	tokens := subtypeTokens(contentType)
	for _, a := range allow {
		if ext == a {
			return true
		}
		for _, t := range tokens {
			if t == a {
				return true
			}
		}
	}
	return false
}

// subtypeTokens splits "video/x-ms-wmv; codecs=..." into {"x","ms","wmv"}.
func subtypeTokens(contentType string) []string {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	_, sub, ok := strings.Cut(ct, "/")
	if !ok {
		return nil
	}
	return strings.FieldsFunc(sub, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
}

// Stage copies fh into the staging directory. A file failing the type filter is
// dropped: Stage returns (nil, nil) and the request carries on without it.
func (in *Intake) Stage(field string, fh *multipart.FileHeader) (*StagedFile, error) {
	if !Accepts(fh.Header.Get("Content-Type"), fh.Filename) {
		return nil, nil
	}
	if fh.Size > in.maxSize {
		return nil, ErrFileTooLarge
	}
	if err := in.ensureDir(); err != nil {
		return nil, err
	}

	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open part %s: %w", field, err)
	}
	defer src.Close()

	staged := &StagedFile{
		Field:        field,
		Path:         filepath.Join(in.dir, in.stagedName(fh.Filename)),
		OriginalName: fh.Filename,
		ContentType:  fh.Header.Get("Content-Type"),
	}
	out, err := os.OpenFile(staged.Path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create staged file: %w", err)
	}

	lr := &io.LimitedReader{R: src, N: in.maxSize + 1}
	written, err := io.Copy(out, lr)
	closeErr := out.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = staged.Release()
		return nil, fmt.Errorf("write staged file: %w", err)
	}
	if written > in.maxSize {
		_ = staged.Release()
		return nil, ErrFileTooLarge
	}
	staged.Size = written
	return staged, nil
}

// stagedName builds "<epoch-ms>-<random><ext>".
func (in *Intake) stagedName(original string) string {
	ext := filepath.Ext(filepath.Base(original))
	return fmt.Sprintf("%d-%d%s", in.now().UnixMilli(), rand.Intn(1_000_000_000), ext)
}

func (in *Intake) ensureDir() error {
	if err := os.MkdirAll(in.dir, 0o755); err != nil {
		return fmt.Errorf("create staging dir: %w", err)
	}
	return nil
}

// SweepStale removes staged files older than ttl, typically leftovers of a crash
// between staging and upload. It returns the number of files removed.
func (in *Intake) SweepStale(ttl time.Duration) (int, error) {
	entries, err := os.ReadDir(in.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	cutoff := in.now().Add(-ttl)
	removed := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(in.dir, e.Name())); err == nil {
			removed++
		}
	}
	return removed, nil
}
