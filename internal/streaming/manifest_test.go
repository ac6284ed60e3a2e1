package streaming

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const base = "https://lms.example.com/api/hls/3b1f8f9a-7a85-4a51-9f3e-0c2d8f3b6c11"

func TestRewriteManifestMasterPlaylist(t *testing.T) {
	in := strings.Join([]string{
		"#EXTM3U",
		"#EXT-X-STREAM-INF:BANDWIDTH=800000,RESOLUTION=640x360",
		"360p/playlist.m3u8",
		"#EXT-X-STREAM-INF:BANDWIDTH=2500000,RESOLUTION=1280x720",
		"720p/playlist.m3u8",
	}, "\n")

	out := RewriteManifest(in, base)
	lines := strings.Split(out, "\n")

	assert.Equal(t, "#EXTM3U", lines[0])
	assert.Equal(t, "#EXT-X-STREAM-INF:BANDWIDTH=800000,RESOLUTION=640x360", lines[1])
	assert.Equal(t, base+"/360p/playlist.m3u8", lines[2])
	assert.Equal(t, base+"/720p/playlist.m3u8", lines[4])
}

func TestRewriteManifestMediaPlaylist(t *testing.T) {
	in := strings.Join([]string{
		"#EXTM3U",
		"#EXT-X-VERSION:3",
		"#EXT-X-TARGETDURATION:6",
		"#EXTINF:6.0,",
		"segment000.ts",
		"#EXTINF:5.2,",
		"segment001.ts",
		"#EXT-X-ENDLIST",
	}, "\n")

	out := RewriteManifest(in, base)

	assert.Contains(t, out, base+"/segment000.ts")
	assert.Contains(t, out, base+"/segment001.ts")
	assert.NotContains(t, out, "\nsegment000.ts")
}

func TestRewriteManifestEveryRelativeLineRewritten(t *testing.T) {
	in := "#EXTM3U\nseg0.ts\n\nseg1.ts\n#EXT-X-ENDLIST"
	out := RewriteManifest(in, base)
	for _, line := range strings.Split(out, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		assert.True(t, strings.HasPrefix(trimmed, base+"/"), "line %q must point back at the gated endpoint", line)
	}
}

func TestRewriteManifestPreservesAbsoluteAndComments(t *testing.T) {
	in := strings.Join([]string{
		"#EXTM3U",
		"# a free-form comment",
		"https://cdn.example.com/ads/preroll.ts",
		"http://cdn.example.com/ads/postroll.ts",
		"",
	}, "\n")

	out := RewriteManifest(in, base)

	assert.Equal(t, in, out, "comments, blanks and absolute URLs pass through byte-for-byte")
}

func TestRewriteManifestTrailingSlashBase(t *testing.T) {
	out := RewriteManifest("seg.ts", base+"/")
	assert.Equal(t, base+"/seg.ts", out)
}
