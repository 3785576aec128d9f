package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/africamarket/companion/internal/catalog"
	"github.com/africamarket/companion/internal/store"
)

type CartHandler struct {
	Store   *store.Store
	Catalog *catalog.Client
	Log     *slog.Logger
}

func (h *CartHandler) GetCart(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Store.Lines())
}

func (h *CartHandler) GetTotal(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"total": h.Store.TotalPrice()})
}

// AddToCart accepts either full product info or just a barcode, in which case
// the product is resolved through the lookup service first.
func (h *CartHandler) AddToCart(c echo.Context) error {
	var req struct {
		Barcode   string `json:"barcode"`
		ProductID string `json:"product_id"`
		Title     string `json:"title"`
		UnitPrice int64  `json:"unit_price"`
		Quantity  int64  `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, err)
	}

	if req.Quantity < 1 {
		req.Quantity = 1
	}

	if req.Barcode != "" {
		if h.Catalog == nil {
			return echo.NewHTTPError(http.StatusBadGateway, "no catalog configured")
		}
		product, err := h.Catalog.LookupBarcode(c.Request().Context(), req.Barcode)
		if errors.Is(err, catalog.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		if err != nil {
			h.Log.Error("barcode lookup", "barcode", req.Barcode, "error", err)
			return echo.NewHTTPError(http.StatusBadGateway, "catalog unavailable")
		}
		req.ProductID = product.ID
		req.Title = product.Name
		req.UnitPrice = product.Price
	}

	if req.ProductID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "product_id or barcode required")
	}

	item, err := h.Store.AddLine(req.ProductID, req.Title, req.UnitPrice, req.Quantity)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, item)
}

func (h *CartHandler) SetQuantity(c echo.Context) error {
	var req struct {
		Quantity int64 `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, err)
	}

	if err := h.Store.SetQuantity(c.Param("id"), req.Quantity); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CartHandler) DeleteFromCart(c echo.Context) error {
	if err := h.Store.RemoveLine(c.Param("id")); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CartHandler) ClearCart(c echo.Context) error {
	if err := h.Store.Clear(); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
