package httpgin

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/JulianVillasenor/restaurante/internal/domain"
	"github.com/JulianVillasenor/restaurante/internal/repository"
	redisrepo "github.com/JulianVillasenor/restaurante/internal/repository/redis"
	"github.com/JulianVillasenor/restaurante/internal/service"
	"github.com/JulianVillasenor/restaurante/internal/service/admin"
	"github.com/JulianVillasenor/restaurante/internal/service/floor"
	"github.com/JulianVillasenor/restaurante/internal/service/orders"
)

func NewRouter(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
	logger *slog.Logger,
	middlewares ...gin.HandlerFunc,
) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery(), LoggingMiddleware(logger), RequestIDMiddleware(), CORS())
	for _, m := range middlewares {
		if m != nil {
			r.Use(m)
		}
	}

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// health
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Floor plan and tabs (read side)
	r.GET("/tables", handleFloorPlan(svcs))
	r.GET("/tables/:id", handleGetTable(svcs))
	r.GET("/tables/:id/tab", handleOpenTab(svcs))
	r.GET("/invoices/:folio", handleGetInvoice(svcs))

	// Table/order operations (write side)
	r.POST("/tables/:id/seat", handleSeat(svcs))
	r.POST("/tables/:id/reserve", handleReserve(svcs))
	r.POST("/tables/:id/release", handleRelease(svcs))
	r.POST("/tables/:id/items", handleAddItem(svcs))
	r.PATCH("/items/:id", handleUpdateItem(svcs))
	r.POST("/tables/:id/checkout", handleCheckout(svcs, idem))

	// Floor-plan provisioning
	adminGrp := r.Group("/admin")
	{
		adminGrp.POST("/tables", handleCreateTable(svcs))
		adminGrp.PUT("/layout", handleSaveLayout(svcs))
	}

	return r
}

// --- Handlers with Swagger annotations ---

// @Summary  Floor plan
// @Success  200  {array}   domain.Table
// @Router   /tables [get]
func handleFloorPlan(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		tables, err := svcs.Floor.FloorPlan(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, tables, "public, max-age=5", true)
	}
}

// @Summary  Get table
// @Param    id  path  int  true  "Table ID"
// @Success  200  {object}  domain.Table
// @Failure  404  {object}  ErrorResponse
// @Router   /tables/{id} [get]
func handleGetTable(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		tableID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		t, err := svcs.Floor.TableByID(c.Request.Context(), tableID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, t)
	}
}

// @Summary  Open tab for a table
// @Param    id  path  int  true  "Table ID"
// @Success  200  {object}  floor.Tab
// @Failure  404  {object}  ErrorResponse
// @Router   /tables/{id}/tab [get]
func handleOpenTab(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		tableID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		tab, err := svcs.Floor.OpenTab(c.Request.Context(), tableID)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, tab, "public, max-age=3", true)
	}
}

// @Summary  Invoice by folio
// @Param    folio  path  string  true  "Folio reference"
// @Success  200  {object}  domain.Invoice
// @Failure  404  {object}  ErrorResponse
// @Router   /invoices/{folio} [get]
func handleGetInvoice(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		inv, err := svcs.Floor.InvoiceByFolio(c.Request.Context(), c.Param("folio"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, inv)
	}
}

// @Summary  Seat a table
// @Param    id  path  int  true  "Table ID"
// @Success  200  {object}  TableStateResponse
// @Failure  409  {object}  ErrorResponse
// @Router   /tables/{id}/seat [post]
func handleSeat(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		tableID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		if err := svcs.Orders.Seat(c.Request.Context(), tableID); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, TableStateResponse{
			TableID: tableID,
			State:   domain.TableOccupied.String(),
		})
	}
}

// @Summary  Reserve a table
// @Param    id  path  int  true  "Table ID"
// @Success  200  {object}  TableStateResponse
// @Failure  409  {object}  ErrorResponse
// @Router   /tables/{id}/reserve [post]
func handleReserve(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		tableID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		if err := svcs.Orders.Reserve(c.Request.Context(), tableID); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, TableStateResponse{
			TableID: tableID,
			State:   domain.TableReserved.String(),
		})
	}
}

// @Summary  Release a table back to free
// @Param    id  path  int  true  "Table ID"
// @Success  200  {object}  TableStateResponse
// @Failure  409  {object}  ErrorResponse
// @Router   /tables/{id}/release [post]
func handleRelease(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		tableID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		if err := svcs.Orders.Release(c.Request.Context(), tableID); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, TableStateResponse{
			TableID: tableID,
			State:   domain.TableFree.String(),
		})
	}
}

// @Summary  Add item to a table's tab
// @Param    id   path  int             true  "Table ID"
// @Param    req  body  AddItemRequest  true  "payload"
// @Success  201  {object}  domain.LineItem
// @Failure  409  {object}  ErrorResponse
// @Failure  422  {object}  ErrorResponse
// @Router   /tables/{id}/items [post]
func handleAddItem(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		tableID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		var req AddItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		price, err := decimal.NewFromString(req.UnitPrice)
		if err != nil {
			badRequest(c, "invalid unit_price")
			return
		}

		item, err := svcs.Orders.AddOrderItem(
			c.Request.Context(),
			tableID,
			req.ProductRef,
			price,
			req.Quantity,
			req.Notes,
		)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, item)
	}
}

// @Summary  Update an open line item
// @Param    id   path  int                true  "Item ID"
// @Param    req  body  UpdateItemRequest  true  "payload"
// @Success  200  {object}  domain.LineItem
// @Failure  409  {object}  ErrorResponse
// @Router   /items/{id} [patch]
func handleUpdateItem(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		itemID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		var req UpdateItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		item, err := svcs.Orders.UpdateOrderItem(c.Request.Context(), itemID, req.Quantity, req.Notes)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

// @Summary  Checkout a table (idempotent)
// @Param    id   path  int              true  "Table ID"
// @Param    req  body  CheckoutRequest  true  "payload"
// @Header   201 {string} Idempotency-Key "echo"
// @Success  201  {object}  domain.Invoice
// @Failure  409  {object}  ErrorResponse "not open / empty bill / folio taken"
// @Failure  429  {object}  ErrorResponse "rate limited"
// @Router   /tables/{id}/checkout [post]
func handleCheckout(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		tableID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		var req CheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		idemKey := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
		var idemStorageKey string
		if idem != nil && idemKey != "" {
			idemStorageKey = redisrepo.KeyIdemCheckout(tableID, idemKey)

			if payload, ok, _ := idem.GetResult(c.Request.Context(), idemStorageKey); ok {
				c.Header("Idempotency-Key", idemKey)
				c.Data(http.StatusCreated, "application/json; charset=utf-8", []byte(payload))
				return
			}

			locked, err := idem.AcquireLock(c.Request.Context(), idemStorageKey, 60*time.Second)
			if err != nil {
				respondErr(c, err)
				return
			}
			if !locked {
				if payload, ok, _ := idem.GetResult(c.Request.Context(), idemStorageKey); ok {
					c.Header("Idempotency-Key", idemKey)
					c.Data(http.StatusCreated, "application/json; charset=utf-8", []byte(payload))
					return
				}
				c.Header("Retry-After", "1")
				c.JSON(http.StatusConflict, ErrorResponse{Error: "idempotency key in progress"})
				return
			}
		}

		rlKey := "ip:" + c.ClientIP()

		inv, err := svcs.Orders.Checkout(c.Request.Context(), tableID, req.FolioRef, rlKey)
		if err != nil {
			if idemStorageKey != "" && idem != nil {
				_ = idem.Release(c.Request.Context(), idemStorageKey)
			}
			respondErr(c, err)
			return
		}

		if idemStorageKey != "" && idem != nil {
			b, _ := json.Marshal(inv)
			_ = idem.SaveResult(c.Request.Context(), idemStorageKey, string(b))
			c.Header("Idempotency-Key", idemKey)
		}

		c.JSON(http.StatusCreated, inv)
	}
}

// @Summary  Provision a table
// @Param    req  body  CreateTableRequest  true  "payload"
// @Success  201  {object}  TableStateResponse
// @Failure  409  {object}  ErrorResponse
// @Router   /admin/tables [post]
func handleCreateTable(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateTableRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		if err := svcs.Admin.CreateTable(
			c.Request.Context(),
			req.ID,
			req.Seats,
			req.Geometry.toDomain(),
		); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, TableStateResponse{
			TableID: req.ID,
			State:   domain.TableFree.String(),
		})
	}
}

// @Summary  Save floor-plan layout
// @Param    req  body  SaveLayoutRequest  true  "payload"
// @Success  200  {object}  map[string]int
// @Failure  404  {object}  ErrorResponse
// @Router   /admin/layout [put]
func handleSaveLayout(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SaveLayoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		placements := make([]admin.Placement, 0, len(req.Placements))
		for _, p := range req.Placements {
			placements = append(placements, admin.Placement{
				TableID:  p.TableID,
				Geometry: p.Geometry.toDomain(),
			})
		}

		if err := svcs.Admin.SaveLayout(c.Request.Context(), placements); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"updated": len(placements)})
	}
}

// --- Helpers ---

func parseInt64Param(c *gin.Context, name string) (int64, bool) {
	s := c.Param(name)
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return v, true
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

func respondErr(c *gin.Context, err error) {
	if err == nil {
		c.Status(http.StatusNoContent)
		return
	}

	switch {
	// orders service
	case errors.Is(err, orders.ErrTableNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "table not found"})
	case errors.Is(err, orders.ErrItemNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "item not found"})
	case errors.Is(err, orders.ErrAlreadyOccupied):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "table already occupied"})
	case errors.Is(err, orders.ErrAlreadyReserved):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "table already reserved"})
	case errors.Is(err, orders.ErrTableNotOpen):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "table is not open"})
	case errors.Is(err, orders.ErrOpenItems):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "table still has open items"})
	case errors.Is(err, orders.ErrItemClosed):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "item already invoiced"})
	case errors.Is(err, orders.ErrEmptyBill):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "no open items to invoice"})
	case errors.Is(err, orders.ErrFolioTaken):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "folio reference already used"})
	case errors.Is(err, orders.ErrInvalidQuantity):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "quantity must be positive"})
	case errors.Is(err, orders.ErrInvalidPrice):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "unit price must not be negative"})
	case errors.Is(err, orders.ErrRateLimited):
		c.Header("Retry-After", "60")
		c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: "rate limited"})

	// floor service
	case errors.Is(err, floor.ErrTableNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "table not found"})
	case errors.Is(err, floor.ErrFolioNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "folio not found"})

	// admin service
	case errors.Is(err, admin.ErrTableExists):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "table id already provisioned"})
	case errors.Is(err, admin.ErrTableNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "table not found"})
	case errors.Is(err, admin.ErrInvalidSeats), errors.Is(err, admin.ErrInvalidShape):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})

	// domain / store
	case errors.Is(err, domain.ErrInvalidState):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "invalid table state"})
	case errors.Is(err, repository.ErrUnavailable):
		c.Header("Retry-After", "5")
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "store unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
