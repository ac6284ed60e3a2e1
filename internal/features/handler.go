package features

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/meridian-lms/backend/pkg/response"
)

// Handler exposes the admin settings surface for runtime flags.
type Handler struct {
	store  SettingsStore
	logger *zap.Logger
}

// NewHandler creates a settings handler.
func NewHandler(store SettingsStore, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, logger: logger}
}

// Get handles GET /api/admin/settings/:key.
func (h *Handler) Get(c *gin.Context) {
	key := c.Param("key")
	setting, err := h.store.Get(c.Request.Context(), key)
	if err != nil {
		h.logger.Error("get setting failed", zap.Error(err), zap.String("key", key))
		response.Internal(c, "Something went wrong")
		return
	}
	if setting == nil {
		response.NotFound(c, "Setting not found")
		return
	}
	response.OK(c, "Setting", setting)
}

type updateRequest struct {
	Value string `json:"value" binding:"required"`
}

// Update handles PUT /api/admin/settings/:key. Writing a flag takes effect
// on the next read; no restart needed.
func (h *Handler) Update(c *gin.Context) {
	key := c.Param("key")
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	setting, err := h.store.Upsert(c.Request.Context(), key, req.Value)
	if err != nil {
		h.logger.Error("update setting failed", zap.Error(err), zap.String("key", key))
		response.Internal(c, "Something went wrong")
		return
	}
	response.OK(c, "Setting updated", setting)
}
