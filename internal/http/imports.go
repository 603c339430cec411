package http

import (
	"bytes"
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/commlog/internal/audit"
	"github.com/mrlokans/commlog/internal/importers"
)

const (
	uploadField = "file"

	// multipartSlack covers the form boundaries and headers around the file.
	multipartSlack = 1 << 20

	xlsxContentType  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	templateFilename = "commlog-template.xlsx"
)

type ImportController struct {
	sessions     *importers.Registry
	auditService *audit.Service
	maxBytes     int64
}

func NewImportController(sessions *importers.Registry, auditService *audit.Service, maxBytes int64) *ImportController {
	return &ImportController{
		sessions:     sessions,
		auditService: auditService,
		maxBytes:     maxBytes,
	}
}

// Preview parses an uploaded file into a new import session
// POST /api/import/preview
func (ic *ImportController) Preview(c *gin.Context) {
	if ic.maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, ic.maxBytes+multipartSlack)
	}

	file, header, err := c.Request.FormFile(uploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			ic.respondTooLarge(c)
			return
		}
		respondBadRequest(c, "no file provided")
		return
	}
	defer file.Close()

	if ic.maxBytes > 0 && header.Size > ic.maxBytes {
		ic.respondTooLarge(c)
		return
	}
	if _, err := importers.DetectFormat(header.Filename); err != nil {
		respondError(c, http.StatusBadRequest, CodeUnsupported, "unsupported file format, use .csv, .xlsx or .xls")
		return
	}

	session := ic.sessions.Create(GetUserID(c))
	if _, err := session.Load(c.Request.Context(), header.Filename, file); err != nil {
		ic.sessions.Remove(session.ID(), GetUserID(c))
		respondServiceError(c, err, "import session", "load import file")
		return
	}

	respondCreated(c, session.Snapshot())
}

// GetSession returns the preview or result of a session
// GET /api/import/:id
func (ic *ImportController) GetSession(c *gin.Context) {
	session, ok := ic.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, session.Snapshot())
}

// Commit persists the valid rows of a previewed session
// POST /api/import/:id/commit
func (ic *ImportController) Commit(c *gin.Context) {
	session, ok := ic.session(c)
	if !ok {
		return
	}

	userID := GetUserID(c)
	// A dropped connection must not leave a file half imported.
	ctx := context.WithoutCancel(c.Request.Context())

	result, err := session.Commit(ctx, userID)
	if err != nil {
		respondServiceError(c, err, "import session", "commit import")
		return
	}

	if ic.auditService != nil {
		ic.auditService.LogImport(userID, session.Snapshot().Filename, result.Success, result.Failed, result.Errors)
	}

	c.JSON(http.StatusOK, result)
}

// Discard drops a session that is not being committed
// DELETE /api/import/:id
func (ic *ImportController) Discard(c *gin.Context) {
	session, ok := ic.session(c)
	if !ok {
		return
	}

	if !ic.sessions.Remove(session.ID(), GetUserID(c)) {
		respondServiceError(c, importers.ErrCommitInProgress, "import session", "discard import")
		return
	}

	respondSuccess(c, "import session discarded", nil)
}

// Template serves the bilingual example workbook
// GET /api/import/template
func (ic *ImportController) Template(c *gin.Context) {
	var buf bytes.Buffer
	if err := importers.WriteTemplate(&buf); err != nil {
		respondInternalError(c, err, "write import template")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+templateFilename+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (ic *ImportController) session(c *gin.Context) (*importers.Session, bool) {
	session, ok := ic.sessions.Get(c.Param("id"), GetUserID(c))
	if !ok {
		respondNotFound(c, "import session")
		return nil, false
	}
	return session, true
}

func (ic *ImportController) respondTooLarge(c *gin.Context) {
	c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{
		Error:   "file is too large",
		Code:    CodeTooLarge,
		Details: gin.H{"max_bytes": ic.maxBytes},
	})
}
