package handlers

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/africamarket/companion/internal/store"
)

type HistoryHandler struct {
	Store *store.Store
	Log   *slog.Logger
}

// Checkout is called by the payment flow once the charge is confirmed
// out-of-band. A failed commit leaves the cart exactly as it was, so the
// caller must not treat the error as success.
func (h *HistoryHandler) Checkout(c echo.Context) error {
	order, err := h.Store.CommitCart()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if order == nil {
		// empty cart, nothing committed
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, order)
}

// GetHistory degrades to an empty list on storage errors so the history
// screen always renders.
func (h *HistoryHandler) GetHistory(c echo.Context) error {
	entries, err := h.Store.History()
	if err != nil {
		h.Log.Error("reading order history", "error", err)
		return c.JSON(http.StatusOK, []store.HistoryEntry{})
	}
	return c.JSON(http.StatusOK, entries)
}

func (h *HistoryHandler) PurgeHistory(c echo.Context) error {
	if err := h.Store.PurgeHistory(); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
