package api

import (
	"errors"

	"ShelfWatch/internal/domain/models"
	"ShelfWatch/internal/service/ratelimit"
	"ShelfWatch/internal/usecase"
	xhttp "ShelfWatch/pkg/http"
	xlogger "ShelfWatch/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ItemsEchoHandler implements Echo-based HTTP handlers for the catalog.
type ItemsEchoHandler struct {
	logger        *xlogger.Logger
	items         *usecase.ItemsUsecase
	limiter       *ratelimit.Limiter
	writeCapacity float64
	writeRefill   float64
}

func NewItemsEchoHandler(logger *xlogger.Logger, items *usecase.ItemsUsecase, writeCapacity, writeRefill float64) *ItemsEchoHandler {
	return &ItemsEchoHandler{
		logger:        logger,
		items:         items,
		limiter:       ratelimit.New(),
		writeCapacity: writeCapacity,
		writeRefill:   writeRefill,
	}
}

func (h *ItemsEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/items", h.List)
	g.GET("/items/:id", h.Get)
	g.POST("/items", h.Create)
}

func (h *ItemsEchoHandler) List(c echo.Context) error {
	req := &models.ListItemsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	page, err := h.items.List(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("list items usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, page)
}

func (h *ItemsEchoHandler) Get(c echo.Context) error {
	req := &models.GetItemRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	item, err := h.items.Get(c.Request().Context(), req.ID)
	if err != nil {
		if errors.Is(err, usecase.ErrItemNotFound) {
			return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("item %d not found", req.ID))
		}
		h.logger.Error("get item usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, item)
}

func (h *ItemsEchoHandler) Create(c echo.Context) error {
	if !h.limiter.Allow(c.RealIP(), h.writeCapacity, h.writeRefill) {
		return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("too many writes, slow down"))
	}

	req := &models.CreateItemRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	item, err := h.items.Create(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("create item usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.CreatedResponse(c, item)
}
