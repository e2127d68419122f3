package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChrononAI/chronon-web-sub001/internal/domain"
	"github.com/ChrononAI/chronon-web-sub001/internal/handler"
	"github.com/ChrononAI/chronon-web-sub001/internal/lineitems"
	"github.com/ChrononAI/chronon-web-sub001/internal/service"
	"github.com/ChrononAI/chronon-web-sub001/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newSessionRouter() (*gin.Engine, service.SessionService) {
	tdsCode := "T94C"
	catalog := []domain.ItemCatalogEntry{{
		Code:           "ITEM-001",
		Description:    "Consulting services",
		DefaultTDSCode: &tdsCode,
		DefaultTDS:     &domain.TDSCodeRecord{Code: tdsCode, Percentage: 2},
	}}
	sessions := service.NewSessionService(&mocks.MockTaxCodeRepo{}, catalog, lineitems.Config{
		Debounce: time.Hour,
	})
	h := handler.NewSessionHandler(sessions)

	r := gin.New()
	v1 := r.Group("/api/v1/sessions")
	v1.POST("", h.Open)
	v1.DELETE("/:id", h.Close)
	v1.GET("/:id/rows", h.ListRows)
	v1.POST("/:id/rows", h.AddRow)
	v1.POST("/:id/recalculate", h.Recalculate)
	v1.PATCH("/:id/rows/:rowId", h.UpdateField)
	v1.DELETE("/:id/rows/:rowId", h.RemoveRow)
	v1.POST("/:id/rows/:rowId/tds-code", h.SelectTDSCode)
	v1.POST("/:id/rows/:rowId/gst-code", h.SelectGSTCode)
	v1.POST("/:id/rows/:rowId/item", h.SelectItem)
	v1.PUT("/:id/rows/:rowId/baseline", h.SetBaseline)
	v1.GET("/:id/rows/:rowId/changed", h.IsChanged)
	return r, sessions
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	var resp struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success, w.Body.String())
	require.NoError(t, json.Unmarshal(resp.Data, out))
}

func openSession(t *testing.T, r *gin.Engine) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/v1/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var data struct {
		SessionID string `json:"session_id"`
	}
	decodeData(t, w, &data)
	return data.SessionID
}

func addRow(t *testing.T, r *gin.Engine, sessionID string) domain.LineItemRow {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/v1/sessions/"+sessionID+"/rows", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var row domain.LineItemRow
	decodeData(t, w, &row)
	return row
}

func TestSessionHandler_OpenAddUpdateFlow(t *testing.T) {
	r, _ := newSessionRouter()
	sessionID := openSession(t, r)
	row := addRow(t, r, sessionID)

	base := fmt.Sprintf("/api/v1/sessions/%s/rows/%s", sessionID, row.ID)
	for _, update := range []handler.UpdateFieldRequest{
		{Field: domain.FieldQuantity, Value: "10"},
		{Field: domain.FieldRate, Value: "100"},
	} {
		w := doJSON(t, r, http.MethodPatch, base, update)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := doJSON(t, r, http.MethodPost, base+"/tds-code", domain.TDSCodeRecord{Code: "T94C", Percentage: 2})
	require.Equal(t, http.StatusOK, w.Code)

	var updated domain.LineItemRow
	decodeData(t, w, &updated)
	assert.Equal(t, "T94C", updated.TDSCode)
	assert.Equal(t, "20.00", updated.TDSAmount)
}

func TestSessionHandler_UpdateField_InvalidQuantity(t *testing.T) {
	r, _ := newSessionRouter()
	sessionID := openSession(t, r)
	row := addRow(t, r, sessionID)

	w := doJSON(t, r, http.MethodPatch,
		fmt.Sprintf("/api/v1/sessions/%s/rows/%s", sessionID, row.ID),
		handler.UpdateFieldRequest{Field: domain.FieldQuantity, Value: "1a"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_QUANTITY")
}

func TestSessionHandler_SelectItem(t *testing.T) {
	r, _ := newSessionRouter()
	sessionID := openSession(t, r)
	row := addRow(t, r, sessionID)

	base := fmt.Sprintf("/api/v1/sessions/%s/rows/%s", sessionID, row.ID)
	doJSON(t, r, http.MethodPatch, base, handler.UpdateFieldRequest{Field: domain.FieldQuantity, Value: "10"})
	doJSON(t, r, http.MethodPatch, base, handler.UpdateFieldRequest{Field: domain.FieldRate, Value: "100"})

	w := doJSON(t, r, http.MethodPost, base+"/item", map[string]string{"code": "ITEM-001"})
	require.Equal(t, http.StatusOK, w.Code)

	var updated domain.LineItemRow
	decodeData(t, w, &updated)
	assert.Equal(t, "Consulting services", updated.ItemDescription)
	assert.Equal(t, "T94C", updated.TDSCode)
	assert.Equal(t, "20.00", updated.TDSAmount)
}

func TestSessionHandler_SelectItem_Unknown(t *testing.T) {
	r, _ := newSessionRouter()
	sessionID := openSession(t, r)
	row := addRow(t, r, sessionID)

	w := doJSON(t, r, http.MethodPost,
		fmt.Sprintf("/api/v1/sessions/%s/rows/%s/item", sessionID, row.ID),
		map[string]string{"code": "ITEM-404"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "ITEM_NOT_FOUND")
}

func TestSessionHandler_BaselineRoundTrip(t *testing.T) {
	r, _ := newSessionRouter()
	sessionID := openSession(t, r)
	row := addRow(t, r, sessionID)

	base := fmt.Sprintf("/api/v1/sessions/%s/rows/%s", sessionID, row.ID)
	w := doJSON(t, r, http.MethodPut, base+"/baseline", handler.BaselineRequest{
		Values: map[domain.RowField]string{domain.FieldRate: "100"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, base+"/changed?field=rate&value=120", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var data struct {
		Changed bool `json:"changed"`
	}
	decodeData(t, w, &data)
	assert.True(t, data.Changed)

	w = doJSON(t, r, http.MethodGet, base+"/changed?field=rate&value=100", nil)
	decodeData(t, w, &data)
	assert.False(t, data.Changed)
}

func TestSessionHandler_Recalculate(t *testing.T) {
	r, _ := newSessionRouter()
	sessionID := openSession(t, r)
	row := addRow(t, r, sessionID)

	base := fmt.Sprintf("/api/v1/sessions/%s/rows/%s", sessionID, row.ID)
	doJSON(t, r, http.MethodPatch, base, handler.UpdateFieldRequest{Field: domain.FieldQuantity, Value: "10"})
	doJSON(t, r, http.MethodPatch, base, handler.UpdateFieldRequest{Field: domain.FieldRate, Value: "100"})
	doJSON(t, r, http.MethodPost, base+"/tds-code", domain.TDSCodeRecord{Code: "T94C", Percentage: 2})

	w := doJSON(t, r, http.MethodPost, "/api/v1/sessions/"+sessionID+"/recalculate", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var data struct {
		Writes int `json:"writes"`
	}
	decodeData(t, w, &data)
	assert.Zero(t, data.Writes, "converged state must not produce further writes")
}

func TestSessionHandler_UnknownSession(t *testing.T) {
	r, _ := newSessionRouter()
	w := doJSON(t, r, http.MethodGet, "/api/v1/sessions/"+uuid.NewString()+"/rows", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "SESSION_NOT_FOUND")
}

func TestSessionHandler_CloseThenUse(t *testing.T) {
	r, _ := newSessionRouter()
	sessionID := openSession(t, r)

	w := doJSON(t, r, http.MethodDelete, "/api/v1/sessions/"+sessionID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/sessions/"+sessionID+"/rows", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
