package media

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientUpload(t *testing.T) {
	p := &fakeProvider{}
	c := NewClient(p, DefaultFolder, nil)
	f := stageBytes(t, t.TempDir(), "a.jpg", []byte("img"))

	url, err := c.Upload(context.Background(), f.Path, KindImage)
	require.NoError(t, err)
	assert.Contains(t, url, "/upload/v100/mega_ecommerce/images/")
	assert.NoFileExists(t, f.Path)

	require.Len(t, p.uploads, 1)
	assert.Equal(t, UploadOptions{
		Folder:    "mega_ecommerce/images",
		Kind:      KindImage,
		Quality:   "auto",
		Format:    "auto",
		Overwrite: true,
	}, p.uploads[0])
}

func TestClientUploadProviderFailure(t *testing.T) {
	p := &fakeProvider{uploadErr: errors.New("Invalid image file")}
	c := NewClient(p, DefaultFolder, nil)
	f := stageBytes(t, t.TempDir(), "a.jpg", []byte("img"))

	url, err := c.Upload(context.Background(), f.Path, KindVideo)
	assert.Empty(t, url)

	var upErr *UploadError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, KindVideo, upErr.Kind)
	assert.Contains(t, err.Error(), "Invalid image file")
	assert.NoFileExists(t, f.Path)
}

func TestClientUploadMissingFile(t *testing.T) {
	p := &fakeProvider{}
	c := NewClient(p, DefaultFolder, nil)

	_, err := c.Upload(context.Background(), filepath.Join(t.TempDir(), "gone.jpg"), KindImage)
	assert.ErrorIs(t, err, ErrIntakeMissing)
	assert.Empty(t, p.Calls())
}

func TestClientDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("no url", func(t *testing.T) {
		p := &fakeProvider{}
		res := NewClient(p, DefaultFolder, nil).Delete(ctx, "", KindImage)
		assert.False(t, res.Success)
		assert.Equal(t, ReasonNoURL, res.Reason)
		assert.False(t, res.Orphaned())
		assert.Empty(t, p.Calls())
	})

	t.Run("unresolvable", func(t *testing.T) {
		p := &fakeProvider{}
		res := NewClient(p, DefaultFolder, nil).Delete(ctx, "https://host/upload/v1/", KindImage)
		assert.False(t, res.Success)
		assert.Equal(t, ReasonUnresolvable, res.Reason)
		assert.True(t, res.Orphaned())
		assert.Empty(t, p.Calls())
	})

	t.Run("provider error", func(t *testing.T) {
		p := &fakeProvider{destroyErr: errors.New("rate limited")}
		res := NewClient(p, DefaultFolder, nil).Delete(ctx, "https://host/upload/v1/mega_ecommerce/images/abc.jpg", KindImage)
		assert.False(t, res.Success)
		assert.Equal(t, ReasonProviderError, res.Reason)
		assert.Equal(t, "rate limited", res.Error)
		assert.Equal(t, "mega_ecommerce/images/abc", res.Identifier)
		assert.True(t, res.Orphaned())
	})

	t.Run("success", func(t *testing.T) {
		p := &fakeProvider{}
		res := NewClient(p, DefaultFolder, nil).Delete(ctx, "https://host/video/upload/v1/mega_ecommerce/images/clip.mp4", KindVideo)
		assert.True(t, res.Success)
		assert.Equal(t, "ok", res.Result)
		assert.Equal(t, ReasonNone, res.Reason)
		assert.Equal(t, KindVideo, res.Kind)
		assert.Equal(t, []string{"mega_ecommerce/images/clip"}, p.destroyed)
		assert.Equal(t, []bool{true}, p.invalidate)
	})
}

func TestTransformation(t *testing.T) {
	assert.Equal(t, "q_auto,f_auto", transformation(UploadOptions{Quality: "auto", Format: "auto"}))
	assert.Equal(t, "", transformation(UploadOptions{}))
}

func TestNewCloudinaryRequiresCredentials(t *testing.T) {
	_, err := NewCloudinary(CloudinaryConfig{CloudName: "demo"})
	assert.Error(t, err)
}
