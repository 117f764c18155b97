package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/commerce-system/internal/api/metrics"
	"github.com/99minutos/commerce-system/internal/core/ports"
)

const idempotencyHeader = "Idempotency-Key"

// OrderHandler handles HTTP requests for order operations.
type OrderHandler struct {
	service ports.OrderService
	idem    ports.IdempotencyStore
	log     zerolog.Logger
}

// NewOrderHandler wires the handler. idem may be nil, which disables
// Idempotency-Key replays.
func NewOrderHandler(service ports.OrderService, idem ports.IdempotencyStore, log zerolog.Logger) *OrderHandler {
	return &OrderHandler{service: service, idem: idem, log: log}
}

// Get handles GET /orders/:id.
//
// @Summary      Get an order by id
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Order id"
// @Success      200  {object}  orderResponse
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /orders/{id} [get]
func (h *OrderHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	view, err := h.service.FindByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderResponse(view))
}

// Create handles POST /orders.
//
// @Summary      Create an order for the authenticated client
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string              false  "Idempotency key to prevent duplicate submissions"
// @Param        body             body      createOrderRequest  true   "Order items"
// @Success      200              {object}  orderResponse  "replayed from Idempotency-Key"
// @Success      201              {object}  orderResponse
// @Failure      400              {object}  errorResponse
// @Failure      401              {object}  errorResponse
// @Failure      404              {object}  errorResponse
// @Failure      409              {object}  errorResponse  "same Idempotency-Key still in flight"
// @Failure      422              {object}  errorResponse
// @Router       /orders [post]
func (h *OrderHandler) Create(c echo.Context) error {
	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	ctx := c.Request().Context()
	key := strings.TrimSpace(c.Request().Header.Get(idempotencyHeader))
	claimed := false
	if key != "" && h.idem != nil {
		key = idempotencyScope(c, key)
		reserved, orderID, err := h.idem.Reserve(ctx, key)
		switch {
		case err != nil:
			h.log.Warn().Err(err).Msg("idempotency reserve failed, creating anyway")
		case reserved:
			claimed = true
		case orderID == 0:
			return echo.NewHTTPError(http.StatusConflict, "a request with this Idempotency-Key is still being processed")
		default:
			view, err := h.service.FindByID(ctx, orderID)
			if err != nil {
				return err
			}
			metrics.OrderReplaysTotal.Inc()
			h.log.Info().Int64("order_id", orderID).Msg("idempotent replay")
			return c.JSON(http.StatusOK, toOrderResponse(view))
		}
	}

	view, err := h.service.Insert(ctx, toCreateInput(req))
	if err != nil {
		if claimed {
			if rerr := h.idem.Release(ctx, key); rerr != nil {
				h.log.Warn().Err(rerr).Msg("failed to release idempotency key")
			}
		}
		return err
	}
	metrics.OrdersCreatedTotal.Inc()
	metrics.OrderItemsPerOrder.Observe(float64(len(view.Items)))

	if claimed {
		if err := h.idem.Complete(ctx, key, view.ID); err != nil {
			h.log.Warn().Err(err).Int64("order_id", view.ID).Msg("failed to store idempotency key")
		}
	}

	return c.JSON(http.StatusCreated, toOrderResponse(view))
}
