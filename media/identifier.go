package media

import "strings"

// Extractor recovers the provider identifier of an asset from its public URL.
// Two historical layouts are supported: assets uploaded under the configured
// folder pair carry "root/sub/" as identifier prefix, older ones are addressed by
// their bare base name.
type Extractor struct {
	folder Folder
}

// NewExtractor builds an Extractor recognizing the given folder pair.
func NewExtractor(folder Folder) Extractor {
	return Extractor{folder: folder}
}

// Identifier returns the identifier addressed by rawURL. The boolean is false when
// no identifier can be determined; callers treat that as "skip the delete".
//
// URLs without an "upload" segment degrade to the bare file name without its
// extension.
func (e Extractor) Identifier(rawURL string) (string, bool) {
	if rawURL == "" {
		return "", false
	}
	parts := strings.Split(rawURL, "/")
	base := trimExtension(parts[len(parts)-1])
	if base == "" {
		return "", false
	}

	uploadIdx := indexOf(parts, "upload")
	if uploadIdx < 0 {
		return base, true
	}

	start := uploadIdx + 1
	if start < len(parts) && isVersionMarker(parts[start]) {
		start++
	}

	if start+1 < len(parts) &&
		parts[start] == e.folder.Root && parts[start+1] == e.folder.Sub {
		return parts[start] + "/" + parts[start+1] + "/" + base, true
	}
	return base, true
}

// trimExtension drops the last ".ext" suffix. A trailing dot is kept, as is a
// name without any dot.
func trimExtension(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i < 0 || i == len(name)-1 {
		return name
	}
	return name[:i]
}

func isVersionMarker(seg string) bool {
	if len(seg) < 2 || seg[0] != 'v' {
		return false
	}
	for _, r := range seg[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func indexOf(parts []string, want string) int {
	for i, p := range parts {
		if p == want {
			return i
		}
	}
	return -1
}
