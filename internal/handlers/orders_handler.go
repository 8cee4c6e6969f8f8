package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/imrishuroy/bakery-storefront/internal/idempotency"
	"github.com/imrishuroy/bakery-storefront/internal/logger"
	"github.com/imrishuroy/bakery-storefront/internal/orders"
	"github.com/imrishuroy/bakery-storefront/internal/validation"
)

type ordersHandler struct {
	cfg HandlerConfig
}

func registerOrderRoutes(r *gin.Engine, admin gin.HandlerFunc, cfg HandlerConfig) {
	h := &ordersHandler{cfg: cfg}

	r.POST("/orders", h.create)
	r.GET("/orders/by-phone", h.listByPhone)
	r.POST("/orders/:id/cancel", h.cancel)

	r.GET("/orders", admin, h.list)
	r.GET("/orders/:id", admin, h.get)
	r.PATCH("/orders/:id", admin, h.updateStatus)
	r.DELETE("/orders/:id", admin, h.delete)
}

// createOrderResponse is returned (and replayed for duplicate keys) by POST /orders.
type createOrderResponse struct {
	OrderID     string        `json:"orderId"`
	OrderNumber string        `json:"orderNumber"`
	Status      orders.Status `json:"status"`
}

func (h *ordersHandler) create(c *gin.Context) {
	ctx := c.Request.Context()

	var req validation.CreateOrderRequest
	raw, ok := validation.BindJSONBody(c, &req)
	if !ok {
		return
	}

	idempKey := c.GetHeader("Idempotency-Key")
	claimed := false
	if idempKey != "" && h.cfg.Idempotency != nil {
		decision, rec, err := h.cfg.Idempotency.Begin(ctx, idempKey, idempotency.Fingerprint(raw))
		if err != nil {
			logger.Error(c, "idempotency check failed", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "idempotency_check_failed"})
			return
		}
		switch decision {
		case idempotency.Replay:
			c.Header("Idempotent-Replayed", "true")
			c.Data(rec.ResponseStatus, "application/json", []byte(rec.ResponseBody))
			return
		case idempotency.InProgress:
			c.JSON(http.StatusAccepted, gin.H{"message": "request already in progress"})
			return
		case idempotency.Mismatch:
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "idempotency_key_reused"})
			return
		}
		claimed = true
	}

	order, err := h.cfg.Orders.CreateOrder(ctx, req)
	if err != nil {
		if claimed {
			// let the client retry with the same key
			if mErr := h.cfg.Idempotency.MarkFailed(ctx, idempKey, err.Error()); mErr != nil {
				logger.Warn(c, "failed to mark idempotency key failed", zap.Error(mErr))
			}
		}
		respondError(c, err)
		return
	}

	body, _ := json.Marshal(createOrderResponse{
		OrderID:     order.ID.String(),
		OrderNumber: order.OrderNumber,
		Status:      order.Status,
	})
	if claimed {
		if err := h.cfg.Idempotency.MarkDone(ctx, idempKey, order.ID.String(), string(body), http.StatusCreated); err != nil {
			logger.Warn(c, "failed to record idempotent response", zap.Error(err))
		}
	}

	if session := c.GetHeader(cartSessionHeader); session != "" && h.cfg.Cart != nil {
		if err := h.cfg.Cart.Clear(ctx, session); err != nil {
			logger.Warn(c, "failed to clear cart after checkout", zap.Error(err))
		}
	}

	c.Header("Location", fmt.Sprintf("/orders/%s", order.ID))
	c.Data(http.StatusCreated, "application/json", body)
}

func (h *ordersHandler) list(c *gin.Context) {
	out, err := h.cfg.Orders.ListOrders(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if out == nil {
		out = []orders.Order{}
	}
	c.JSON(http.StatusOK, out)
}

func (h *ordersHandler) listByPhone(c *gin.Context) {
	out, err := h.cfg.Orders.ListOrdersByPhone(c.Request.Context(), c.Query("phone"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *ordersHandler) get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	order, err := h.cfg.Orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *ordersHandler) updateStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req validation.StatusRequest
	if !validation.BindAndValidate(c, &req, h.cfg.Validator) {
		return
	}
	order, err := h.cfg.Orders.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *ordersHandler) cancel(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req validation.CancelRequest
	if !validation.BindAndValidate(c, &req, h.cfg.Validator) {
		return
	}
	order, err := h.cfg.Orders.CancelOrder(c.Request.Context(), id, req.Phone)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *ordersHandler) delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.cfg.Orders.DeleteOrder(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
