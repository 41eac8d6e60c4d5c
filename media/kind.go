package media

import "fmt"

// Kind selects the provider namespace an asset lives in. It cannot be recovered
// from a URL and must come from the form field that produced the file.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// Valid reports whether k is a known resource kind.
func (k Kind) Valid() bool {
	return k == KindImage || k == KindVideo
}

// ParseKind maps a loose string onto a Kind; anything but "video" is an image,
// matching how the provider defaults its resource type.
func ParseKind(s string) Kind {
	if s == string(KindVideo) {
		return KindVideo
	}
	return KindImage
}

// Folder is the folder/subfolder pair assets are uploaded under. Identifiers of
// assets stored under it carry the pair as a prefix.
type Folder struct {
	Root string
	Sub  string
}

// DefaultFolder is the pair used by the production deployment.
var DefaultFolder = Folder{Root: "mega_ecommerce", Sub: "images"}

// Path returns the provider folder path "root/sub".
func (f Folder) Path() string {
	if f.Sub == "" {
		return f.Root
	}
	return fmt.Sprintf("%s/%s", f.Root, f.Sub)
}
