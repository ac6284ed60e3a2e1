package streaming

import (
	"fmt"
	"path/filepath"
	"strings"
)

// MIME types for the two HLS file kinds; anything else is served as an
// opaque binary.
const (
	contentTypePlaylist = "application/vnd.apple.mpegurl"
	contentTypeSegment  = "video/mp2t"
	contentTypeBinary   = "application/octet-stream"
)

// masterManifest is the entry playlist served when no sub-path is given.
const masterManifest = "master.m3u8"

// sanitizeSegmentPath removes every ".." and backslash sequence from a
// client-supplied sub-path. The result can only name files at or below the
// lecture's artifact directory; escape attempts degrade into names that do
// not exist on disk and read as 404.
func sanitizeSegmentPath(p string) string {
	p = strings.ReplaceAll(p, "..", "")
	p = strings.ReplaceAll(p, "\\", "")
	return strings.TrimLeft(p, "/")
}

// lectureDir returns the artifact directory for a lecture under the HLS
// root.
func lectureDir(rootDir string, lectureID int64) string {
	return filepath.Join(rootDir, fmt.Sprintf("%d", lectureID))
}

// resolveArtifact builds the on-disk path for a sanitized sub-path and
// confirms it stays inside the lecture directory. The sanitizer already
// removes traversal sequences; the containment check backs it up so no
// single bug can reach outside the artifact tree.
func resolveArtifact(rootDir string, lectureID int64, subPath string) (string, bool) {
	dir := lectureDir(rootDir, lectureID)
	full := filepath.Clean(filepath.Join(dir, sanitizeSegmentPath(subPath)))
	if full != dir && !strings.HasPrefix(full, dir+string(filepath.Separator)) {
		return "", false
	}
	return full, true
}

// contentTypeFor maps a filename to the response content type purely by
// extension.
func contentTypeFor(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".m3u8":
		return contentTypePlaylist
	case ".ts":
		return contentTypeSegment
	default:
		return contentTypeBinary
	}
}
