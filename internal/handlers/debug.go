package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/africamarket/companion/internal/store"
)

type DebugHandler struct {
	Store *store.Store
}

// DumpDB exposes the raw contents of every table for support sessions.
func (h *DebugHandler) DumpDB(c echo.Context) error {
	dump, err := h.Store.DumpAll()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, dump)
}
