package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestVideoKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"lessons/intro.mp4", "videos/lessons/intro.mp4"},
		{"/lessons/intro.mp4", "videos/lessons/intro.mp4"},
		{"../../etc/passwd", "videos/etc/passwd"},
		{"a/./b.mp4", "videos/a/b.mp4"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, VideoKey(tt.in), "input %q", tt.in)
	}
}

func TestPresignExpire(t *testing.T) {
	s := &S3{cfg: S3Config{PresignExpireMinutes: 30}}
	assert.Equal(t, 30*time.Minute, s.PresignExpire())

	s = &S3{cfg: S3Config{}}
	assert.Equal(t, 15*time.Minute, s.PresignExpire(), "unset expiry falls back to the default")
}
