package media

import (
	"context"
	"errors"
	"os"

	"go.uber.org/zap"
)

// UploadOptions is what the client asks of the provider for every upload.
type UploadOptions struct {
	Folder    string
	Kind      Kind
	Quality   string
	Format    string
	Overwrite bool
}

// Provider is the remote object store. Upload returns the public URL of the
// stored object; Destroy returns the provider's result code ("ok", "not found").
type Provider interface {
	Upload(ctx context.Context, localPath string, opts UploadOptions) (string, error)
	Destroy(ctx context.Context, identifier string, kind Kind, invalidate bool) (string, error)
}

// Client moves staged files to the provider and removes remote assets by URL.
type Client struct {
	provider  Provider
	extractor Extractor
	folder    Folder
	log       *zap.Logger
}

// NewClient wires a Client. A nil logger disables logging.
func NewClient(provider Provider, folder Folder, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		provider:  provider,
		extractor: NewExtractor(folder),
		folder:    folder,
		log:       log.Named("media"),
	}
}

// Extractor returns the identifier extractor bound to the client's folder.
func (c *Client) Extractor() Extractor { return c.extractor }

// Upload pushes the file at localPath to the provider and returns its public URL.
// The local file belongs to Upload from the moment it is called: it is removed on
// every return path and a failed removal is never reported.
func (c *Client) Upload(ctx context.Context, localPath string, kind Kind) (string, error) {
	if _, err := os.Stat(localPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrIntakeMissing
		}
		return "", err
	}
	defer c.release(localPath)

	url, err := c.provider.Upload(ctx, localPath, UploadOptions{
		Folder:    c.folder.Path(),
		Kind:      kind,
		Quality:   "auto",
		Format:    "auto",
		Overwrite: true,
	})
	if err != nil {
		c.log.Warn("upload failed", zap.String("kind", string(kind)), zap.Error(err))
		return "", &UploadError{Kind: kind, Err: err}
	}
	c.log.Info("uploaded", zap.String("kind", string(kind)), zap.String("url", url))
	return url, nil
}

func (c *Client) release(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		c.log.Debug("staged file cleanup failed", zap.String("path", path), zap.Error(err))
	}
}

// Delete removes the asset behind url. It never returns an error: a missing URL,
// an unresolvable identifier or a provider failure all come back as an
// unsuccessful DeleteResult so the surrounding record mutation can carry on.
func (c *Client) Delete(ctx context.Context, url string, kind Kind) DeleteResult {
	res := DeleteResult{URL: url, Kind: kind}
	if url == "" {
		res.Reason = ReasonNoURL
		return res
	}
	id, ok := c.extractor.Identifier(url)
	if !ok {
		res.Reason = ReasonUnresolvable
		c.log.Warn("cannot resolve identifier", zap.String("url", url))
		return res
	}
	res.Identifier = id

	result, err := c.provider.Destroy(ctx, id, kind, true)
	if err != nil {
		res.Reason = ReasonProviderError
		res.Error = err.Error()
		c.log.Warn("delete failed", zap.String("identifier", id), zap.String("kind", string(kind)), zap.Error(err))
		return res
	}
	res.Success = true
	res.Result = result
	c.log.Info("deleted", zap.String("identifier", id), zap.String("kind", string(kind)), zap.String("result", result))
	return res
}
