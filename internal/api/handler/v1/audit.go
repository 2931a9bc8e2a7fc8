package v1

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Toms422/trial-master-pro/internal/api/handler/v1/response"
	"github.com/Toms422/trial-master-pro/internal/domain"
)

type AuditQueryService interface {
	List(ctx context.Context, limit, offset int) ([]domain.AuditEntry, error)
}

type AuditHandler struct {
	svc AuditQueryService
}

func NewAuditHandler(svc AuditQueryService) *AuditHandler {
	return &AuditHandler{svc: svc}
}

// HandleListAuditLog godoc
// @Summary      Read the audit log, newest first
// @Tags         audit
// @Produce      json
// @Param        limit  query     int false "page size, default 50, max 200"
// @Param        offset query     int false "entries to skip"
// @Success      200   {array}    domain.AuditEntry
// @Failure      500   {object}   response.Err
// @Router       /audit [get]
// @Security BearerAuth
func (h *AuditHandler) HandleListAuditLog(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.Query("limit"))
	offset, _ := strconv.Atoi(ctx.Query("offset"))

	entries, err := h.svc.List(ctx.Request.Context(), limit, offset)
	if err != nil {
		err = fmt.Errorf("v1.HandleListAuditLog -> h.svc.List -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, entries)
}
