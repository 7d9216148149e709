package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/critter-checklist/internal/domain/catalog"
	"github.com/yanqian/critter-checklist/internal/domain/checklist"
	apperrors "github.com/yanqian/critter-checklist/pkg/errors"
)

// Handler wires the HTTP transport to the checklist service.
type Handler struct {
	svc    checklist.Service
	logger *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(svc checklist.Service, logger *slog.Logger) *Handler {
	return &Handler{
		svc:    svc,
		logger: logger.With("component", "http.handler"),
	}
}

type tabRequest struct {
	Tab string `json:"tab"`
}

type markRequest struct {
	Caught *bool `json:"caught"`
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetState returns the full persisted state.
func (h *Handler) GetState(c *gin.Context) {
	st, err := h.svc.Snapshot(c.Request.Context())
	if err != nil {
		abortWithError(c, domainError(err))
		return
	}
	c.JSON(http.StatusOK, st)
}

// UpdateSettings applies a partial settings change.
func (h *Handler) UpdateSettings(c *gin.Context) {
	var patch checklist.SettingsPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	settings, err := h.svc.UpdateSettings(c.Request.Context(), patch)
	if err != nil {
		abortWithError(c, domainError(err))
		return
	}
	c.JSON(http.StatusOK, settings)
}

// SetTab records the active category.
func (h *Handler) SetTab(c *gin.Context) {
	var req tabRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	category, ok := catalog.ParseCategory(req.Tab)
	if !ok {
		abortWithError(c, invalidCategory(req.Tab))
		return
	}
	if err := h.svc.SetTab(c.Request.Context(), category); err != nil {
		abortWithError(c, domainError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"tab": category})
}

// ListItems renders the filtered, sorted view of one category.
func (h *Handler) ListItems(c *gin.Context) {
	category, ok := categoryParam(c)
	if !ok {
		return
	}
	view, err := h.svc.List(c.Request.Context(), category)
	if err != nil {
		abortWithError(c, domainError(err))
		return
	}
	c.JSON(http.StatusOK, view)
}

// ItemAvailability reports whether one item is obtainable at the effective time.
func (h *Handler) ItemAvailability(c *gin.Context) {
	category, ok := categoryParam(c)
	if !ok {
		return
	}
	id := c.Param("id")
	available, err := h.svc.Availability(c.Request.Context(), category, id)
	if err != nil {
		abortWithError(c, domainError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "available": available})
}

// UpdateFilter applies a partial filter change to one category.
func (h *Handler) UpdateFilter(c *gin.Context) {
	category, ok := categoryParam(c)
	if !ok {
		return
	}
	var patch checklist.FilterPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	filter, err := h.svc.UpdateFilter(c.Request.Context(), category, patch)
	if err != nil {
		abortWithError(c, domainError(err))
		return
	}
	c.JSON(http.StatusOK, filter)
}

// BulkMark sets every currently listed item of a category to one value.
func (h *Handler) BulkMark(c *gin.Context) {
	category, ok := categoryParam(c)
	if !ok {
		return
	}
	caught, ok := bindCaught(c)
	if !ok {
		return
	}
	updated, err := h.svc.BulkMark(c.Request.Context(), category, caught)
	if err != nil {
		abortWithError(c, domainError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": updated, "caught": caught})
}

// SetMark records one item's caught flag.
func (h *Handler) SetMark(c *gin.Context) {
	caught, ok := bindCaught(c)
	if !ok {
		return
	}
	id := c.Param("id")
	mark, err := h.svc.SetMark(c.Request.Context(), id, caught)
	if err != nil {
		abortWithError(c, domainError(err))
		return
	}
	h.logger.Debug("mark updated", "id", id, "caught", mark.Caught, "writer", writerSubject(c))
	c.JSON(http.StatusOK, gin.H{"id": id, "caught": mark.Caught})
}

func categoryParam(c *gin.Context) (catalog.Category, bool) {
	raw := c.Param("category")
	category, ok := catalog.ParseCategory(raw)
	if !ok {
		abortWithError(c, invalidCategory(raw))
		return "", false
	}
	return category, true
}

func bindCaught(c *gin.Context) (bool, bool) {
	var req markRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return false, false
	}
	if req.Caught == nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "caught is required", nil))
		return false, false
	}
	return *req.Caught, true
}

func invalidCategory(raw string) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, apperrors.CodeInvalidInput, "unknown category "+raw, nil)
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
