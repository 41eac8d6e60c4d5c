package media

import (
	"errors"
	"fmt"
)

var (
	// ErrIntakeMissing means the staged file vanished before it could be uploaded.
	ErrIntakeMissing = errors.New("media: staged file not found")
	// ErrFileTooLarge is returned by the intake when a part exceeds the size cap.
	ErrFileTooLarge = errors.New("media: file exceeds size limit")
	// ErrTooManyFiles is returned when a field carries more than one file.
	ErrTooManyFiles = errors.New("media: too many files for field")
)

// UploadError wraps a provider-side upload failure.
type UploadError struct {
	Kind Kind
	Err  error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload provider: %v", e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// DeleteReason classifies why a best-effort delete did not succeed.
type DeleteReason string

const (
	ReasonNone          DeleteReason = ""
	ReasonNoURL         DeleteReason = "no_url"
	ReasonUnresolvable  DeleteReason = "unresolvable"
	ReasonProviderError DeleteReason = "provider_error"
)

// DeleteResult is the structured outcome of Client.Delete. Deletes never fail
// loudly; this value is the only trace of what happened.
type DeleteResult struct {
	Success    bool         `json:"success"`
	URL        string       `json:"url,omitempty"`
	Identifier string       `json:"identifier,omitempty"`
	Kind       Kind         `json:"kind"`
	Result     string       `json:"result,omitempty"`
	Reason     DeleteReason `json:"reason,omitempty"`
	Error      string       `json:"error,omitempty"`
}

// Orphaned reports whether a remote object may have been left behind.
func (r DeleteResult) Orphaned() bool {
	return !r.Success && (r.Reason == ReasonUnresolvable || r.Reason == ReasonProviderError)
}
