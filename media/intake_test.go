package media

import (
	"bytes"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fileHeader builds a parsed multipart file header for one part.
func fileHeader(t *testing.T, field, filename, contentType string, data []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	require.Len(t, form.File[field], 1)
	return form.File[field][0]
}

func TestAccepts(t *testing.T) {
	assert.True(t, Accepts("image/jpeg", "a.bin"))
	assert.True(t, Accepts("application/octet-stream", "clip.MOV"))
	assert.True(t, Accepts("video/x-ms-wmv", "noext"))
	assert.True(t, Accepts("image/svg+xml", "logo"))
	assert.False(t, Accepts("application/pdf", "doc.pdf"))
	assert.False(t, Accepts("text/plain", "notes.txt"))
	assert.False(t, Accepts("", ""))
}

func TestIntakeStage(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "staging")
	in := NewIntake(IntakeConfig{Dir: dir})
	data := []byte("not really a jpeg")

	f, err := in.Stage("photo", fileHeader(t, "photo", "holiday.jpg", "image/jpeg", data))
	require.NoError(t, err)
	require.NotNil(t, f)

	assert.Equal(t, "photo", f.Field)
	assert.Equal(t, "holiday.jpg", f.OriginalName)
	assert.Equal(t, int64(len(data)), f.Size)
	assert.Equal(t, dir, filepath.Dir(f.Path))
	assert.Regexp(t, regexp.MustCompile(`^\d+-\d+\.jpg$`), filepath.Base(f.Path))

	got, err := os.ReadFile(f.Path)
	require.NoError(t, err)
	assert.Equal(t, data, got)

	require.NoError(t, f.Release())
	require.NoError(t, f.Release())
	_, err = os.Stat(f.Path)
	assert.True(t, os.IsNotExist(err))
}

func TestIntakeStageDropsUnsupportedType(t *testing.T) {
	dir := t.TempDir()
	in := NewIntake(IntakeConfig{Dir: dir})

	f, err := in.Stage("photo", fileHeader(t, "photo", "report.pdf", "application/pdf", []byte("%PDF")))
	require.NoError(t, err)
	assert.Nil(t, f)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestIntakeStageTooLarge(t *testing.T) {
	dir := t.TempDir()
	in := NewIntake(IntakeConfig{Dir: dir, MaxFileSize: 4})

	f, err := in.Stage("videoDemoFile", fileHeader(t, "videoDemoFile", "clip.mp4", "video/mp4", []byte("0123456789")))
	assert.ErrorIs(t, err, ErrFileTooLarge)
	assert.Nil(t, f)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestIntakeRecreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "tmp")
	in := NewIntake(IntakeConfig{Dir: dir})
	fh := fileHeader(t, "photo", "a.png", "image/png", []byte("png"))

	_, err := in.Stage("photo", fh)
	require.NoError(t, err)
	require.NoError(t, os.RemoveAll(dir))

	f, err := in.Stage("photo", fh)
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.FileExists(t, f.Path)
}

func TestIntakeSweepStale(t *testing.T) {
	dir := t.TempDir()
	in := NewIntake(IntakeConfig{Dir: dir})

	old := filepath.Join(dir, "old.jpg")
	fresh := filepath.Join(dir, "fresh.jpg")
	require.NoError(t, os.WriteFile(old, []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(fresh, []byte("x"), 0o644))
	past := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(old, past, past))

	n, err := in.SweepStale(time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.NoFileExists(t, old)
	assert.FileExists(t, fresh)

	missing := NewIntake(IntakeConfig{Dir: filepath.Join(dir, "nope")})
	n, err = missing.SweepStale(time.Hour)
	require.NoError(t, err)
	assert.Zero(t, n)
}
