package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/farmacia-api/internal/application/dto"
	"github.com/jhoicas/farmacia-api/internal/application/inventory"
)

// StockInHandler recepciones de mercancía.
type StockInHandler struct {
	uc *inventory.StockInUseCase
}

// NewStockInHandler construye el handler.
func NewStockInHandler(uc *inventory.StockInUseCase) *StockInHandler {
	return &StockInHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar recepción de mercancía
// @Tags         stock-ins
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.StockInRequest  true  "medicine_id o batch_number (o datos del medicamento nuevo), supplier_id, quantity"
// @Success      201   {object}  dto.StockInDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock-ins [post]
func (h *StockInHandler) Create(c *fiber.Ctx) error {
	var in dto.StockInRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CreateStockIn(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List GET /api/stock-ins?limit=&offset=
func (h *StockInHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badQuery(c)
	}
	out, err := h.uc.List(c.UserContext(), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
