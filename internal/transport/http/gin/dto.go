package httpgin

import (
	"github.com/JulianVillasenor/restaurante/internal/domain"
)

type AddItemRequest struct {
	ProductRef string  `json:"product_ref" binding:"required"`
	UnitPrice  string  `json:"unit_price" binding:"required"`
	Quantity   int     `json:"quantity" binding:"required,gt=0"`
	Notes      *string `json:"notes"`
}

type UpdateItemRequest struct {
	Quantity int     `json:"quantity" binding:"required,gt=0"`
	Notes    *string `json:"notes"`
}

type CheckoutRequest struct {
	FolioRef string `json:"folio_ref" binding:"required"`
}

type GeometryInput struct {
	PosX   int    `json:"pos_x"`
	PosY   int    `json:"pos_y"`
	Width  int    `json:"width" binding:"gte=0"`
	Height int    `json:"height" binding:"gte=0"`
	Shape  string `json:"shape" binding:"required"`
}

type CreateTableRequest struct {
	ID       int64         `json:"id" binding:"required,gt=0"`
	Seats    int           `json:"seats" binding:"required,gt=0"`
	Geometry GeometryInput `json:"geometry" binding:"required"`
}

type PlacementInput struct {
	TableID  int64         `json:"table_id" binding:"required,gt=0"`
	Geometry GeometryInput `json:"geometry" binding:"required"`
}

type SaveLayoutRequest struct {
	Placements []PlacementInput `json:"placements" binding:"required,min=1,dive"`
}

type TableStateResponse struct {
	TableID int64  `json:"table_id"`
	State   string `json:"state"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func (g GeometryInput) toDomain() domain.Geometry {
	return domain.Geometry{
		PosX:   g.PosX,
		PosY:   g.PosY,
		Width:  g.Width,
		Height: g.Height,
		Shape:  g.Shape,
	}
}
