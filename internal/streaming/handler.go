package streaming

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/meridian-lms/backend/internal/features"
	"github.com/meridian-lms/backend/internal/middleware"
	"github.com/meridian-lms/backend/internal/models"
	"github.com/meridian-lms/backend/pkg/metrics"
	"github.com/meridian-lms/backend/pkg/response"
	"github.com/meridian-lms/backend/pkg/storage"
)

// LectureStore resolves lectures from the catalog.
type LectureStore interface {
	GetLectureByID(ctx context.Context, id int64) (*models.Lecture, error)
}

// AccessChecker decides entitlement for non-preview lectures.
type AccessChecker interface {
	CanAccessLecture(ctx context.Context, userID uuid.UUID, lecture *models.Lecture) bool
}

// ProgressGate decides whether the previous lecture was watched far enough.
type ProgressGate interface {
	CanAccessNextLesson(ctx context.Context, userID uuid.UUID, lecture *models.Lecture) bool
}

// FlagChecker reads runtime feature flags.
type FlagChecker interface {
	IsEnabled(ctx context.Context, name string, def bool) bool
}

// FilePresigner mints time-limited download URLs for raw lecture assets,
// used as a fallback when HLS cannot be served. Optional; nil disables the
// presigned fallback and the stored file path is returned instead.
type FilePresigner interface {
	GeneratePresignedDownloadURL(ctx context.Context, bucket, key string, expires time.Duration) (string, error)
	VideosBucket() string
	PresignExpire() time.Duration
}

// Handler exposes the stream-initiation and manifest/segment endpoints.
type Handler struct {
	catalog  LectureStore
	access   AccessChecker
	progress ProgressGate
	flags    FlagChecker
	tokens   *TokenService
	guard    *OriginGuard
	presign  FilePresigner
	rootDir  string
	baseURL  string
	logger   *zap.Logger
	metrics  *metrics.Metrics // nil disables metric recording (e.g. in tests)
}

// NewHandler creates a streaming handler. baseURL is the absolute public
// base of this server, used to build manifest URLs.
func NewHandler(catalog LectureStore, access AccessChecker, progressGate ProgressGate, flags FlagChecker,
	tokens *TokenService, guard *OriginGuard, presign FilePresigner,
	rootDir, baseURL string, logger *zap.Logger, m *metrics.Metrics) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		catalog:  catalog,
		access:   access,
		progress: progressGate,
		flags:    flags,
		tokens:   tokens,
		guard:    guard,
		presign:  presign,
		rootDir:  rootDir,
		baseURL:  strings.TrimRight(baseURL, "/"),
		logger:   logger,
		metrics:  m,
	}
}

// Stream handles GET /api/stream/:lectureId. It authorizes the caller,
// mints an access token and returns the tokenized manifest URL. The HLS
// readiness check runs before any entitlement logic so a buyer and a
// non-buyer see the same "not ready" answer.
func (h *Handler) Stream(c *gin.Context) {
	lectureID, err := strconv.ParseInt(c.Param("lectureId"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid lecture id")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	lecture, err := h.catalog.GetLectureByID(c.Request.Context(), lectureID)
	if err != nil {
		h.logger.Error("lecture lookup failed", zap.Error(err), zap.Int64("lecture_id", lectureID))
		response.Internal(c, "Something went wrong")
		return
	}
	if lecture == nil {
		response.NotFound(c, "Video not found")
		return
	}

	if done := h.rejectUnlessReady(c, lecture); done {
		return
	}

	if !lecture.FreePreview {
		if !h.access.CanAccessLecture(c.Request.Context(), userID, lecture) {
			h.denied("entitlement")
			response.Forbidden(c, "Subscription required")
			return
		}
		if h.flags.IsEnabled(c.Request.Context(), features.FlagVideoProgressEnforcement, true) {
			if !h.progress.CanAccessNextLesson(c.Request.Context(), userID, lecture) {
				h.denied("progress")
				response.Forbidden(c, "You must watch at least 85% of the previous lecture to unlock this one")
				return
			}
		}
	}

	token, err := h.tokens.Issue(c.Request.Context(), lecture, userID, lecture.FreePreview)
	if err != nil {
		h.logger.Error("token issue failed", zap.Error(err),
			zap.String("user_id", userID.String()), zap.Int64("lecture_id", lecture.ID))
		response.Internal(c, "Something went wrong")
		return
	}
	if h.metrics != nil {
		h.metrics.IncStreamGranted()
		h.metrics.IncTokenIssued()
	}

	response.OK(c, "Stream ready", gin.H{
		"manifest_url":       h.baseURL + "/api/hls/" + token,
		"type":               "hls",
		"lecture_id":         lecture.ID,
		"lecture_title":      lecture.Title,
		"duration":           lecture.DurationSeconds,
		"expires_in_seconds": int(h.tokens.TTL().Seconds()),
		"is_free_preview":    lecture.FreePreview,
	})
}

// rejectUnlessReady writes the 422 for any non-ready HLS status and reports
// whether it responded. A failed encode whose error text points at a missing
// encoder gets a direct-file fallback hint when the underlying asset is a
// plain file.
func (h *Handler) rejectUnlessReady(c *gin.Context, lecture *models.Lecture) bool {
	switch lecture.HLSStatus {
	case models.HLSStatusReady:
		return false
	case models.HLSStatusPending:
		h.denied("unavailable")
		response.Unprocessable(c, "Video is queued for processing. Please try again later.", nil)
	case models.HLSStatusProcessing:
		h.denied("unavailable")
		response.Unprocessable(c, "Video is still being processed. Please try again later.", nil)
	case models.HLSStatusFailed:
		h.denied("unavailable")
		if encoderUnavailable(lecture.HLSErrorMessage) && lecture.Kind == models.LectureKindFile {
			response.Unprocessable(c, "Video streaming is temporarily unavailable.", gin.H{
				"type":         "file",
				"fallback_url": h.fallbackURL(c.Request.Context(), lecture),
			})
		} else {
			response.Unprocessable(c, "Video processing failed. Please contact support.", nil)
		}
	case models.HLSStatusNone:
		h.denied("unavailable")
		response.Unprocessable(c, "Video is not available for streaming.", nil)
	default:
		// Unknown status written by a newer pipeline version: never streamable.
		h.denied("unavailable")
		response.Unprocessable(c, "Video is not available for streaming.", nil)
	}
	return true
}

// encoderUnavailable distinguishes "the encoder binary was missing" from a
// genuine encode failure by inspecting the stored error text.
func encoderUnavailable(errMsg string) bool {
	m := strings.ToLower(errMsg)
	return strings.Contains(m, "ffmpeg") || strings.Contains(m, "encoder")
}

// fallbackURL returns a presigned URL for the raw asset when S3 is
// configured, else the stored relative path.
func (h *Handler) fallbackURL(ctx context.Context, lecture *models.Lecture) string {
	if h.presign == nil || lecture.FilePath == "" {
		return lecture.FilePath
	}
	url, err := h.presign.GeneratePresignedDownloadURL(ctx, h.presign.VideosBucket(), storage.VideoKey(lecture.FilePath), h.presign.PresignExpire())
	if err != nil {
		h.logger.Warn("presign fallback URL failed", zap.Error(err), zap.Int64("lecture_id", lecture.ID))
		return lecture.FilePath
	}
	return url
}

// ServeHLS handles GET /api/hls/:token and GET /api/hls/:token/*path. Auth
// is implicit in the token; the origin guard runs before any token logic.
// Successful responses are raw manifest text or binary segment bytes, never
// the JSON envelope, so native HLS players can consume them directly.
func (h *Handler) ServeHLS(c *gin.Context) {
	h.setStreamingHeaders(c)

	if !h.guard.Allow(c.Request) {
		h.denied("origin")
		response.Forbidden(c, "Access denied")
		return
	}

	token := c.Param("token")
	rec, err := h.tokens.Resolve(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, ErrTokenInvalid) {
			h.denied("token")
			response.Forbidden(c, "Access token expired or invalid")
			return
		}
		h.logger.Error("token resolve failed", zap.Error(err))
		response.Internal(c, "Something went wrong")
		return
	}

	// Re-fetch the lecture: artifacts may have been rotated or the lecture
	// removed since the token was minted.
	lecture, err := h.catalog.GetLectureByID(c.Request.Context(), rec.LectureID)
	if err != nil {
		h.logger.Error("lecture lookup failed", zap.Error(err), zap.Int64("lecture_id", rec.LectureID))
		response.Internal(c, "Something went wrong")
		return
	}
	if lecture == nil || lecture.HLSStatus != models.HLSStatusReady {
		response.NotFound(c, "Video not found or not available")
		return
	}

	subPath := strings.TrimPrefix(c.Param("path"), "/")
	if subPath == "" {
		subPath = masterManifest
	}

	full, ok := resolveArtifact(h.rootDir, lecture.ID, subPath)
	if !ok {
		response.NotFound(c, "File not found")
		return
	}
	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		response.NotFound(c, "File not found")
		return
	}

	contentType := contentTypeFor(full)
	if contentType == contentTypePlaylist {
		h.serveManifest(c, full, token, subPath)
		return
	}
	h.serveFile(c, full, contentType, info.Size())
}

// serveManifest reads a playlist, rewrites its child URLs to stay behind
// the token gate and writes it out. Relative child URLs resolve against the
// playlist's own directory, so the rewrite base carries the sub-path.
func (h *Handler) serveManifest(c *gin.Context, full, token, subPath string) {
	raw, err := os.ReadFile(full)
	if err != nil {
		h.logger.Error("read manifest failed", zap.Error(err), zap.String("path", full))
		response.Internal(c, "Something went wrong")
		return
	}
	base := h.baseURL + "/api/hls/" + token
	if dir := path.Dir(subPath); dir != "." {
		base += "/" + dir
	}
	rewritten := RewriteManifest(string(raw), base)
	if h.metrics != nil {
		h.metrics.IncFileServed("manifest")
	}
	c.Data(http.StatusOK, contentTypePlaylist, []byte(rewritten))
}

// serveFile streams a segment (or other binary) with bounded memory. The
// copy runs from an open file handle; a client disconnect fails the write
// and ends the copy promptly.
func (h *Handler) serveFile(c *gin.Context, full, contentType string, size int64) {
	f, err := os.Open(full)
	if err != nil {
		h.logger.Error("open file failed", zap.Error(err), zap.String("path", full))
		response.Internal(c, "Something went wrong")
		return
	}
	defer f.Close()

	if h.metrics != nil {
		if contentType == contentTypeSegment {
			h.metrics.IncFileServed("segment")
		} else {
			h.metrics.IncFileServed("binary")
		}
		h.metrics.AddSegmentBytes(size)
	}
	c.DataFromReader(http.StatusOK, size, contentType, f, nil)
}

// setStreamingHeaders applies the no-cache policy and per-request CORS to
// every manifest/segment response. Tokenized responses must never be cached
// by an intermediary in a way that outlives the token.
func (h *Handler) setStreamingHeaders(c *gin.Context) {
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Header("Pragma", "no-cache")
	c.Header("Expires", "0")
	origin := c.GetHeader("Origin")
	if origin == "" {
		origin = "*"
	}
	c.Header("Access-Control-Allow-Origin", origin)
	c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
	c.Header("Access-Control-Allow-Headers", "Origin, Range")
}

func (h *Handler) denied(reason string) {
	if h.metrics != nil {
		h.metrics.IncStreamDenied(reason)
	}
}
