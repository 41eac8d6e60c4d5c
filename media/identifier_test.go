package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractorIdentifier(t *testing.T) {
	ex := NewExtractor(DefaultFolder)

	tests := []struct {
		name   string
		url    string
		want   string
		wantOK bool
	}{
		{"versioned folder url", "https://res.cloudinary.com/demo/image/upload/v1712345678/mega_ecommerce/images/abc123.jpg", "mega_ecommerce/images/abc123", true},
		{"unversioned folder url", "https://res.cloudinary.com/demo/video/upload/mega_ecommerce/images/clip.mp4", "mega_ecommerce/images/clip", true},
		{"legacy root asset", "https://res.cloudinary.com/demo/image/upload/v17/abc.jpg", "abc", true},
		{"other folder falls back to base name", "https://res.cloudinary.com/demo/image/upload/v17/other/place/abc.jpg", "abc", true},
		{"no upload segment", "https://cdn.example.com/files/photo.final.jpeg", "photo.final", true},
		{"v without digits is not a version", "https://host/upload/v/mega_ecommerce/images/x.jpg", "x", true},
		{"word after upload is not a version", "https://host/upload/version/mega_ecommerce/images/x.jpg", "x", true},
		{"bare name", "abc", "abc", true},
		{"trailing dot kept", "https://host/a/name.", "name.", true},
		{"empty", "", "", false},
		{"trailing slash", "https://host/upload/", "", false},
		{"extension only", "https://host/upload/v1/.jpg", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ex.Identifier(tt.url)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractorCustomFolder(t *testing.T) {
	ex := NewExtractor(Folder{Root: "shop", Sub: "videos"})

	id, ok := ex.Identifier("https://res.cloudinary.com/demo/video/upload/v9/shop/videos/demo.webm")
	assert.True(t, ok)
	assert.Equal(t, "shop/videos/demo", id)

	id, ok = ex.Identifier("https://res.cloudinary.com/demo/image/upload/v9/mega_ecommerce/images/old.png")
	assert.True(t, ok)
	assert.Equal(t, "old", id)
}

func TestParseKind(t *testing.T) {
	assert.Equal(t, KindVideo, ParseKind("video"))
	assert.Equal(t, KindImage, ParseKind("image"))
	assert.Equal(t, KindImage, ParseKind("raw"))
	assert.True(t, KindVideo.Valid())
	assert.False(t, Kind("raw").Valid())
	assert.Equal(t, "mega_ecommerce/images", DefaultFolder.Path())
	assert.Equal(t, "solo", Folder{Root: "solo"}.Path())
}
