package media

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryConfig holds account credentials.
type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

// Cloudinary is the Provider backed by the Cloudinary upload API.
type Cloudinary struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinary connects a Cloudinary provider.
func NewCloudinary(cfg CloudinaryConfig) (*Cloudinary, error) {
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, errors.New("cloudinary: cloud name, api key and api secret are required")
	}
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary: %w", err)
	}
	return &Cloudinary{cld: cld}, nil
}

// Upload implements Provider.
func (c *Cloudinary) Upload(ctx context.Context, localPath string, opts UploadOptions) (string, error) {
	res, err := c.cld.Upload.Upload(ctx, localPath, uploader.UploadParams{
		Folder:         opts.Folder,
		ResourceType:   string(opts.Kind),
		Overwrite:      api.Bool(opts.Overwrite),
		Transformation: transformation(opts),
	})
	if err != nil {
		return "", err
	}
	if res.Error.Message != "" {
		return "", errors.New(res.Error.Message)
	}
	if res.SecureURL == "" {
		return "", errors.New("empty secure url in upload response")
	}
	return res.SecureURL, nil
}

// Destroy implements Provider.
func (c *Cloudinary) Destroy(ctx context.Context, identifier string, kind Kind, invalidate bool) (string, error) {
	res, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     identifier,
		ResourceType: string(kind),
		Invalidate:   api.Bool(invalidate),
	})
	if err != nil {
		return "", err
	}
	if res.Error.Message != "" {
		return "", errors.New(res.Error.Message)
	}
	return res.Result, nil
}

// transformation renders the quality/format normalization as an incoming
// transformation string, e.g. "q_auto,f_auto".
func transformation(opts UploadOptions) string {
	var parts []string
	if opts.Quality != "" {
		parts = append(parts, "q_"+opts.Quality)
	}
	if opts.Format != "" {
		parts = append(parts, "f_"+opts.Format)
	}
	return strings.Join(parts, ",")
}
