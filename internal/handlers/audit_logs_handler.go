package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/clipperdesk/clipperdesk-api/internal/audit"
	"github.com/clipperdesk/clipperdesk-api/internal/httperr"
	"github.com/clipperdesk/clipperdesk-api/internal/httpresp"
	"github.com/clipperdesk/clipperdesk-api/internal/middleware"
)

type AuditLogsHandler struct {
	logger *audit.Logger
}

func NewAuditLogsHandler(logger *audit.Logger) *AuditLogsHandler {
	return &AuditLogsHandler{logger: logger}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	shopID := c.GetUint(middleware.ContextBarbershopID)

	action := c.Query("action")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	logs, err := h.logger.List(shopID, action, limit)
	if err != nil {
		httperr.Internal(c, "failed_to_list_audit_logs", "Failed to list audit logs.")
		return
	}

	httpresp.List(c, logs)
}
