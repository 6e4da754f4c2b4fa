package httpgin

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JulianVillasenor/restaurante/internal/domain"
	"github.com/JulianVillasenor/restaurante/internal/repository/memory"
	"github.com/JulianVillasenor/restaurante/internal/service"
)

func newTestRouter(t *testing.T) (*gin.Engine, *memory.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.NewStore()
	co := memory.NewCoordinator(store)
	svcs := service.NewServices(store, co, nil, nil, nil, service.Config{})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRouter(svcs, nil, logger), store
}

func doJSON(t *testing.T, router *gin.Engine, method, url string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func createTable(t *testing.T, router *gin.Engine, id int64, seats int) {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/admin/tables", gin.H{
		"id":    id,
		"seats": seats,
		"geometry": gin.H{
			"pos_x": 10, "pos_y": 10, "width": 80, "height": 80, "shape": "rectangulo",
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestHealthz(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateTableAndFloorPlan(t *testing.T) {
	router, _ := newTestRouter(t)
	createTable(t, router, 1, 4)
	createTable(t, router, 2, 2)

	w := doJSON(t, router, http.MethodGet, "/tables", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("ETag"))

	var tables []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tables))
	require.Len(t, tables, 2)
	assert.Equal(t, float64(1), tables[0]["id"])
	assert.Equal(t, float64(0), tables[0]["state"])

	// Duplicate id conflicts
	w = doJSON(t, router, http.MethodPost, "/admin/tables", gin.H{
		"id": 1, "seats": 4,
		"geometry": gin.H{"shape": "rectangulo"},
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestFloorPlanETagRoundTrip(t *testing.T) {
	router, _ := newTestRouter(t)
	createTable(t, router, 1, 4)

	w := doJSON(t, router, http.MethodGet, "/tables", nil)
	require.Equal(t, http.StatusOK, w.Code)
	etag := w.Header().Get("ETag")
	require.NotEmpty(t, etag)

	req, err := http.NewRequest(http.MethodGet, "/tables", nil)
	require.NoError(t, err)
	req.Header.Set("If-None-Match", etag)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotModified, w.Code)
}

func TestSeatReserveRelease(t *testing.T) {
	router, store := newTestRouter(t)
	createTable(t, router, 1, 4)

	w := doJSON(t, router, http.MethodPost, "/tables/1/reserve", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "reserved", decodeBody(t, w)["state"])

	w = doJSON(t, router, http.MethodPost, "/tables/1/seat", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "occupied", decodeBody(t, w)["state"])

	w = doJSON(t, router, http.MethodPost, "/tables/1/seat", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, router, http.MethodPost, "/tables/1/release", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "free", decodeBody(t, w)["state"])

	tbl, err := store.Tables().Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, domain.TableFree, tbl.State)
}

func TestSeatUnknownTable(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/tables/404/seat", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodPost, "/tables/abc/seat", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddItemValidation(t *testing.T) {
	router, _ := newTestRouter(t)
	createTable(t, router, 1, 4)

	// Not seated yet
	w := doJSON(t, router, http.MethodPost, "/tables/1/items", gin.H{
		"product_ref": "pasta", "unit_price": "12.50", "quantity": 2,
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	doJSON(t, router, http.MethodPost, "/tables/1/seat", nil)

	w = doJSON(t, router, http.MethodPost, "/tables/1/items", gin.H{
		"product_ref": "pasta", "unit_price": "not-a-price", "quantity": 2,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPost, "/tables/1/items", gin.H{
		"product_ref": "pasta", "unit_price": "-1.00", "quantity": 2,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

// Full service cycle: seat table 5, ring up two items, check out, and
// read the invoice back.
func TestCheckoutFlow(t *testing.T) {
	router, store := newTestRouter(t)
	createTable(t, router, 5, 4)

	w := doJSON(t, router, http.MethodPost, "/tables/5/seat", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPost, "/tables/5/items", gin.H{
		"product_ref": "pasta", "unit_price": "12.50", "quantity": 2,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "25", decodeBody(t, w)["subtotal"])

	w = doJSON(t, router, http.MethodPost, "/tables/5/items", gin.H{
		"product_ref": "soda", "unit_price": "3.00", "quantity": 3,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "9", decodeBody(t, w)["subtotal"])

	w = doJSON(t, router, http.MethodGet, "/tables/5/tab", nil)
	require.Equal(t, http.StatusOK, w.Code)
	tab := decodeBody(t, w)
	assert.Equal(t, "34", tab["total"])
	assert.Len(t, tab["items"], 2)

	w = doJSON(t, router, http.MethodPost, "/tables/5/checkout", gin.H{
		"folio_ref": "F-1001",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	inv := decodeBody(t, w)
	assert.Equal(t, "34", inv["total"])
	folio := inv["folio"].(map[string]any)
	assert.Equal(t, "F-1001", folio["ref"])

	tbl, err := store.Tables().Get(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, domain.TableFree, tbl.State)

	// Second checkout loses
	w = doJSON(t, router, http.MethodPost, "/tables/5/checkout", gin.H{
		"folio_ref": "F-1002",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, router, http.MethodGet, "/invoices/F-1001", nil)
	require.Equal(t, http.StatusOK, w.Code)
	inv = decodeBody(t, w)
	assert.Equal(t, "34", inv["total"])
	assert.Len(t, inv["items"], 2)

	w = doJSON(t, router, http.MethodGet, "/invoices/F-9999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCheckoutEmptyBill(t *testing.T) {
	router, _ := newTestRouter(t)
	createTable(t, router, 1, 4)
	doJSON(t, router, http.MethodPost, "/tables/1/seat", nil)

	w := doJSON(t, router, http.MethodPost, "/tables/1/checkout", gin.H{
		"folio_ref": "F-1",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestUpdateItem(t *testing.T) {
	router, _ := newTestRouter(t)
	createTable(t, router, 1, 4)
	doJSON(t, router, http.MethodPost, "/tables/1/seat", nil)

	w := doJSON(t, router, http.MethodPost, "/tables/1/items", gin.H{
		"product_ref": "pasta", "unit_price": "12.50", "quantity": 2,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	itemID := decodeBody(t, w)["id"].(float64)

	w = doJSON(t, router, http.MethodPatch, "/items/1", gin.H{
		"quantity": 3, "notes": "sin queso",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Equal(t, itemID, body["id"])
	assert.Equal(t, "37.5", body["subtotal"])

	// Close the tab; the item refuses further edits
	w = doJSON(t, router, http.MethodPost, "/tables/1/checkout", gin.H{"folio_ref": "F-1"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodPatch, "/items/1", gin.H{"quantity": 4})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSaveLayout(t *testing.T) {
	router, store := newTestRouter(t)
	createTable(t, router, 1, 4)
	createTable(t, router, 2, 2)

	w := doJSON(t, router, http.MethodPut, "/admin/layout", gin.H{
		"placements": []gin.H{
			{"table_id": 1, "geometry": gin.H{"pos_x": 10, "pos_y": 200, "width": 80, "height": 80, "shape": "circulo"}},
			{"table_id": 2, "geometry": gin.H{"pos_x": 100, "pos_y": 200, "width": 80, "height": 80, "shape": "rectangulo"}},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	tbl, err := store.Tables().Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "circulo", tbl.Geometry.Shape)

	// Unknown table rejects the whole layout
	w = doJSON(t, router, http.MethodPut, "/admin/layout", gin.H{
		"placements": []gin.H{
			{"table_id": 404, "geometry": gin.H{"shape": "rectangulo"}},
		},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
