package streaming

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeSegmentPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"master.m3u8", "master.m3u8"},
		{"720p/playlist.m3u8", "720p/playlist.m3u8"},
		{"../../../etc/passwd", "etc/passwd"},
		{"..\\..\\windows", "windows"},
		{"a..b.ts", "ab.ts"},
		{"/leading/slash.ts", "leading/slash.ts"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeSegmentPath(tt.in), "input %q", tt.in)
	}
}

func TestResolveArtifactStaysInsideLectureDir(t *testing.T) {
	root := filepath.Join("storage", "hls")
	dir := lectureDir(root, 42)

	for _, sub := range []string{
		"master.m3u8",
		"720p/playlist.m3u8",
		"../../../etc/passwd",
		"..\\..\\secret",
		"....//....//etc/passwd",
		"/etc/passwd",
	} {
		full, ok := resolveArtifact(root, 42, sub)
		if !ok {
			continue
		}
		assert.True(t, full == dir || strings.HasPrefix(full, dir+string(filepath.Separator)),
			"subPath %q escaped to %q", sub, full)
	}
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, contentTypePlaylist, contentTypeFor("master.m3u8"))
	assert.Equal(t, contentTypePlaylist, contentTypeFor("720p/PLAYLIST.M3U8"))
	assert.Equal(t, contentTypeSegment, contentTypeFor("segment000.ts"))
	assert.Equal(t, contentTypeBinary, contentTypeFor("key.bin"))
	assert.Equal(t, contentTypeBinary, contentTypeFor("noext"))
}
