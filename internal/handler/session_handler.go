package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ChrononAI/chronon-web-sub001/internal/domain"
	"github.com/ChrononAI/chronon-web-sub001/internal/lineitems"
	"github.com/ChrononAI/chronon-web-sub001/internal/service"
)

// SessionHandler exposes the line-item engine to the table UI: session
// lifecycle, row mutations, selections and the baseline check.
type SessionHandler struct {
	sessions service.SessionService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessions service.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// UpdateFieldRequest is the body for a single field update.
type UpdateFieldRequest struct {
	Field domain.RowField `json:"field" binding:"required"`
	Value string          `json:"value"`
}

// BaselineRequest supplies a baseline snapshot for a row.
type BaselineRequest struct {
	Values map[domain.RowField]string `json:"values" binding:"required"`
}

// Open handles POST /api/v1/sessions
func (h *SessionHandler) Open(c *gin.Context) {
	id, _ := h.sessions.Open()
	RespondCreated(c, gin.H{"session_id": id})
}

// Close handles DELETE /api/v1/sessions/:id
func (h *SessionHandler) Close(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid session id")
		return
	}
	if err := h.sessions.Close(id); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, nil)
}

// ListRows handles GET /api/v1/sessions/:id/rows
func (h *SessionHandler) ListRows(c *gin.Context) {
	engine, ok := h.engine(c)
	if !ok {
		return
	}
	RespondOK(c, engine.Rows())
}

// AddRow handles POST /api/v1/sessions/:id/rows
func (h *SessionHandler) AddRow(c *gin.Context) {
	engine, ok := h.engine(c)
	if !ok {
		return
	}
	row, err := engine.AddRow()
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, row)
}

// UpdateField handles PATCH /api/v1/sessions/:id/rows/:rowId
func (h *SessionHandler) UpdateField(c *gin.Context) {
	engine, rowID, ok := h.engineAndRow(c)
	if !ok {
		return
	}
	var req UpdateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	if err := engine.UpdateField(rowID, req.Field, req.Value); err != nil {
		HandleError(c, err)
		return
	}
	row, err := engine.Row(rowID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, row)
}

// RemoveRow handles DELETE /api/v1/sessions/:id/rows/:rowId
func (h *SessionHandler) RemoveRow(c *gin.Context) {
	engine, rowID, ok := h.engineAndRow(c)
	if !ok {
		return
	}
	if err := engine.RemoveRow(rowID); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, nil)
}

// SelectTDSCode handles POST /api/v1/sessions/:id/rows/:rowId/tds-code
func (h *SessionHandler) SelectTDSCode(c *gin.Context) {
	engine, rowID, ok := h.engineAndRow(c)
	if !ok {
		return
	}
	var rec domain.TDSCodeRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	if err := engine.SelectTDSCode(rowID, rec); err != nil {
		HandleError(c, err)
		return
	}
	row, _ := engine.Row(rowID)
	RespondOK(c, row)
}

// SelectGSTCode handles POST /api/v1/sessions/:id/rows/:rowId/gst-code
func (h *SessionHandler) SelectGSTCode(c *gin.Context) {
	engine, rowID, ok := h.engineAndRow(c)
	if !ok {
		return
	}
	var rec domain.GSTCodeRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	if err := engine.SelectGSTCode(rowID, rec); err != nil {
		HandleError(c, err)
		return
	}
	row, _ := engine.Row(rowID)
	RespondOK(c, row)
}

// SelectItem handles POST /api/v1/sessions/:id/rows/:rowId/item
func (h *SessionHandler) SelectItem(c *gin.Context) {
	engine, rowID, ok := h.engineAndRow(c)
	if !ok {
		return
	}
	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	if err := engine.SelectItem(rowID, req.Code); err != nil {
		HandleError(c, err)
		return
	}
	row, _ := engine.Row(rowID)
	RespondOK(c, row)
}

// SetBaseline handles PUT /api/v1/sessions/:id/rows/:rowId/baseline
func (h *SessionHandler) SetBaseline(c *gin.Context) {
	engine, rowID, ok := h.engineAndRow(c)
	if !ok {
		return
	}
	var req BaselineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	if err := engine.SetBaseline(rowID, req.Values); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, nil)
}

// IsChanged handles GET /api/v1/sessions/:id/rows/:rowId/changed?field=&value=
func (h *SessionHandler) IsChanged(c *gin.Context) {
	engine, rowID, ok := h.engineAndRow(c)
	if !ok {
		return
	}
	field := domain.RowField(c.Query("field"))
	if !field.Valid() {
		RespondError(c, http.StatusBadRequest, "INVALID_FIELD", "unknown row field")
		return
	}
	changed := engine.IsChangedFromBaseline(rowID, field, c.Query("value"))
	RespondOK(c, gin.H{"changed": changed})
}

// Import handles POST /api/v1/sessions/:id/import with an xlsx upload.
func (h *SessionHandler) Import(c *gin.Context) {
	engine, ok := h.engine(c)
	if !ok {
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "multipart field 'file' is required")
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		HandleError(c, err)
		return
	}
	defer func() { _ = f.Close() }()

	imported, err := engine.ImportXLSX(f)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"imported": imported, "rows": engine.Rows()})
}

// Recalculate handles POST /api/v1/sessions/:id/recalculate
func (h *SessionHandler) Recalculate(c *gin.Context) {
	engine, ok := h.engine(c)
	if !ok {
		return
	}
	writes := engine.Recalculate()
	RespondOK(c, gin.H{"writes": writes, "rows": engine.Rows()})
}

func (h *SessionHandler) engine(c *gin.Context) (*lineitems.Engine, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid session id")
		return nil, false
	}
	engine, err := h.sessions.Get(id)
	if err != nil {
		HandleError(c, err)
		return nil, false
	}
	return engine, true
}

func (h *SessionHandler) engineAndRow(c *gin.Context) (*lineitems.Engine, uuid.UUID, bool) {
	engine, ok := h.engine(c)
	if !ok {
		return nil, uuid.UUID{}, false
	}
	rowID, err := uuid.Parse(c.Param("rowId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid row id")
		return nil, uuid.UUID{}, false
	}
	return engine, rowID, true
}
