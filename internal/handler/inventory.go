package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/inventory-service/internal/middleware"
	"github.com/iliyamo/inventory-service/internal/model"
	"github.com/iliyamo/inventory-service/internal/service"
)

// InventoryHandler serves /api/inventory.
type InventoryHandler struct {
	Items *service.InventoryService
}

func NewInventoryHandler(items *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{Items: items}
}

func (h *InventoryHandler) List(c echo.Context) error {
	ctx, cancel := dbContext(c)
	defer cancel()

	items, err := h.Items.List(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (h *InventoryHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	it, err := h.Items.Get(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, it)
}

func (h *InventoryHandler) Create(c echo.Context) error {
	var req model.ItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	it, err := h.Items.Create(ctx, req, middleware.CurrentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, it)
}

// Update replaces name and quantity.  Concurrent updates are last write wins.
func (h *InventoryHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req model.ItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	it, err := h.Items.Update(ctx, id, req, middleware.CurrentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, it)
}

func (h *InventoryHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	if err := h.Items.Delete(ctx, id, middleware.CurrentUser(c)); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Item deleted successfully"})
}
