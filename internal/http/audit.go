package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/commlog/internal/audit"
	dbaudit "github.com/mrlokans/commlog/internal/database/audit"
	"github.com/mrlokans/commlog/internal/entities"
)

const (
	defaultAuditLimit = 25
	maxAuditLimit     = 100
)

type AuditController struct {
	auditService *audit.Service
}

func NewAuditController(auditService *audit.Service) *AuditController {
	return &AuditController{
		auditService: auditService,
	}
}

// GetAuditEvents returns paginated audit events as JSON
// GET /api/audit
func (ac *AuditController) GetAuditEvents(c *gin.Context) {
	limit, ok := parseIntQuery(c, "limit", defaultAuditLimit)
	if !ok {
		return
	}
	offset, ok := parseIntQuery(c, "offset", 0)
	if !ok {
		return
	}
	if limit < 1 || limit > maxAuditLimit {
		limit = defaultAuditLimit
	}

	filter := dbaudit.EventFilter{
		UserID:    GetUserID(c),
		EventType: entities.AuditEventType(c.Query("type")),
		Limit:     limit,
		Offset:    offset,
	}

	events, total, err := ac.auditService.GetEvents(filter)
	if err != nil {
		respondInternalError(c, err, "load audit events")
		return
	}
	if events == nil {
		events = []entities.AuditEvent{}
	}

	c.JSON(http.StatusOK, newPaginatedResponse(events, total, limit, offset))
}
