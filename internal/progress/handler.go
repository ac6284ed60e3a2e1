package progress

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/meridian-lms/backend/internal/catalog"
	"github.com/meridian-lms/backend/internal/middleware"
	"github.com/meridian-lms/backend/pkg/response"
)

// Handler handles watch progress HTTP endpoints.
type Handler struct {
	svc     *Service
	catalog *catalog.Repository
	logger  *zap.Logger
}

// NewHandler creates a progress handler.
func NewHandler(svc *Service, catalogRepo *catalog.Repository, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, catalog: catalogRepo, logger: logger}
}

type updateRequest struct {
	WatchedSeconds int `json:"watched_seconds" binding:"min=0"`
}

// Update handles POST /api/progress/:lectureId. The player reports watched
// seconds periodically; the stored percentage feeds the sequential unlock.
func (h *Handler) Update(c *gin.Context) {
	lectureID, err := strconv.ParseInt(c.Param("lectureId"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid lecture id")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	lecture, err := h.catalog.GetLectureByID(c.Request.Context(), lectureID)
	if err != nil {
		h.logger.Error("lecture lookup failed", zap.Error(err), zap.Int64("lecture_id", lectureID))
		response.Internal(c, "Something went wrong")
		return
	}
	if lecture == nil {
		response.NotFound(c, "Lecture not found")
		return
	}

	wp, err := h.svc.Record(c.Request.Context(), userID, lecture, req.WatchedSeconds)
	if err != nil {
		h.logger.Error("record progress failed", zap.Error(err),
			zap.String("user_id", userID.String()), zap.Int64("lecture_id", lectureID))
		response.Internal(c, "Something went wrong")
		return
	}
	response.OK(c, "Progress saved", wp)
}
