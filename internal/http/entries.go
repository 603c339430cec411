package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/commlog/internal/audit"
	"github.com/mrlokans/commlog/internal/entities"
	"github.com/mrlokans/commlog/internal/importers"
	"github.com/mrlokans/commlog/internal/services"
)

type EntriesController struct {
	entries      *services.EntryService
	auditService *audit.Service
}

func NewEntriesController(entries *services.EntryService, auditService *audit.Service) *EntriesController {
	return &EntriesController{entries: entries, auditService: auditService}
}

// BulkDeleteRequest is the body of a bulk delete.
type BulkDeleteRequest struct {
	IDs []uint `json:"ids"`
}

// ListEntries returns a filtered page of the user's entries
// GET /api/entries
func (ec *EntriesController) ListEntries(c *gin.Context) {
	filter, ok := parseEntryFilter(c)
	if !ok {
		return
	}

	page, err := ec.entries.List(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err, "entries", "list entries")
		return
	}

	c.JSON(http.StatusOK, newPaginatedResponse(page.Entries, page.Total, page.Limit, page.Offset))
}

// CreateEntry stores a new entry
// POST /api/entries
func (ec *EntriesController) CreateEntry(c *gin.Context) {
	var input services.EntryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	entry, err := ec.entries.Create(c.Request.Context(), GetUserID(c), input)
	if err != nil {
		respondServiceError(c, err, "entry", "create entry")
		return
	}

	respondCreated(c, entry)
}

// GetEntry returns a single entry
// GET /api/entries/:id
func (ec *EntriesController) GetEntry(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	entry, err := ec.entries.Get(c.Request.Context(), GetUserID(c), id)
	if err != nil {
		respondServiceError(c, err, "entry", "get entry")
		return
	}

	c.JSON(http.StatusOK, entry)
}

// UpdateEntry replaces the editable fields of an entry
// PUT /api/entries/:id
func (ec *EntriesController) UpdateEntry(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input services.EntryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	entry, err := ec.entries.Update(c.Request.Context(), GetUserID(c), id, input)
	if err != nil {
		respondServiceError(c, err, "entry", "update entry")
		return
	}

	c.JSON(http.StatusOK, entry)
}

// BulkDelete soft-deletes several entries at once
// POST /api/entries/bulk-delete
func (ec *EntriesController) BulkDelete(c *gin.Context) {
	var req BulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	userID := GetUserID(c)
	deleted, err := ec.entries.BulkDelete(c.Request.Context(), userID, req.IDs)
	if err != nil {
		respondServiceError(c, err, "entries", "bulk delete entries")
		return
	}

	if ec.auditService != nil {
		ec.auditService.LogBulkDelete(userID, req.IDs, deleted)
	}

	respondSuccess(c, strconv.FormatInt(deleted, 10)+" entries deleted", gin.H{"deleted": deleted})
}

// parseEntryFilter builds a listing filter from query parameters.
func parseEntryFilter(c *gin.Context) (entities.EntryFilter, bool) {
	filter := entities.EntryFilter{
		UserID: GetUserID(c),
		Tag:    c.Query("tag"),
		Query:  c.Query("q"),
	}

	if raw := strings.TrimSpace(c.Query("category")); raw != "" {
		category, ok := importers.LookupCategory(raw)
		if !ok {
			respondBadRequest(c, "unknown category "+strconv.Quote(raw))
			return filter, false
		}
		filter.Category = category
	}

	if raw := c.Query("important"); raw != "" {
		important, err := strconv.ParseBool(raw)
		if err != nil {
			respondBadRequest(c, "invalid important")
			return filter, false
		}
		filter.ImportantOnly = important
	}

	for _, bound := range []string{"from", "to"} {
		raw := strings.TrimSpace(c.Query(bound))
		if raw == "" {
			continue
		}
		date, ok := importers.NormalizeDate(raw)
		if !ok {
			respondBadRequest(c, "invalid "+bound+" date")
			return filter, false
		}
		if bound == "from" {
			filter.From = date
		} else {
			filter.To = date
		}
	}

	var ok bool
	if filter.Limit, ok = parseIntQuery(c, "limit", entities.DefaultListLimit); !ok {
		return filter, false
	}
	if filter.Offset, ok = parseIntQuery(c, "offset", 0); !ok {
		return filter, false
	}
	return filter, true
}
