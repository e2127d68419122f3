package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ChrononAI/chronon-web-sub001/internal/service"
)

// CodeHandler serves the code-search and item-catalog endpoints consumed by
// the editing surface's dropdowns.
type CodeHandler struct {
	codeService service.CodeService
}

// NewCodeHandler creates a new CodeHandler.
func NewCodeHandler(codeService service.CodeService) *CodeHandler {
	return &CodeHandler{codeService: codeService}
}

// SearchTDS handles GET /api/v1/codes/tds?q=
func (h *CodeHandler) SearchTDS(c *gin.Context) {
	RespondOK(c, h.codeService.SearchTDSCodes(c.Request.Context(), c.Query("q")))
}

// SearchGST handles GET /api/v1/codes/gst?q=
func (h *CodeHandler) SearchGST(c *gin.Context) {
	RespondOK(c, h.codeService.SearchGSTCodes(c.Request.Context(), c.Query("q")))
}

// ListItems handles GET /api/v1/items
func (h *CodeHandler) ListItems(c *gin.Context) {
	items, err := h.codeService.GetItems(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, items)
}
