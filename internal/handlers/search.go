package handlers

import (
	"net/http"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"

	"github.com/sawitmart/order-service/internal/service/search"
	"github.com/sawitmart/order-service/internal/util"
)

type SearchHandler struct {
	ES    *elasticsearch.Client
	Index string
}

func NewSearchHandler(es *elasticsearch.Client, index string) *SearchHandler {
	return &SearchHandler{
		ES:    es,
		Index: index,
	}
}

func (h *SearchHandler) Search(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query error")
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), 0)
	from, size := util.Calculate(page, size)

	ctx := c.Request().Context()

	total, orders, err := search.Search(ctx, h.ES, h.Index, q, from, size)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"total": total, "orders": orders})
}
