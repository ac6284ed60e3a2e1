package streaming

import "strings"

// RewriteManifest routes every child URL of an HLS playlist back through the
// token-gated endpoint. Lines are processed one at a time: comment lines
// (starting "#") and blank lines pass through byte-for-byte, as do lines that
// are already absolute http(s) URLs. Every other line is a relative reference
// (a variant playlist or a media segment) and is rewritten to
// baseURL + "/" + line, keeping multi-rendition playlists entirely behind the
// token gate instead of leaking direct segment paths.
//
// Pure text transform, no m3u8 parsing: attribute lines like
// #EXT-X-STREAM-INF are comments and untouched.
func RewriteManifest(manifest, baseURL string) string {
	baseURL = strings.TrimRight(baseURL, "/")
	lines := strings.Split(manifest, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
			continue
		}
		lines[i] = baseURL + "/" + trimmed
	}
	return strings.Join(lines, "\n")
}
