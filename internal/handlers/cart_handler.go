package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/imrishuroy/bakery-storefront/internal/apperror"
	"github.com/imrishuroy/bakery-storefront/internal/cart"
	"github.com/imrishuroy/bakery-storefront/internal/pricing"
	"github.com/imrishuroy/bakery-storefront/internal/validation"
)

const cartSessionHeader = "X-Cart-Session"

type cartHandler struct {
	holder    *cart.Holder
	validator *validation.Validator
}

// cartResponse carries the same pricing the checkout will recompute.
type cartResponse struct {
	Items   []pricing.LineItem `json:"items"`
	Pricing pricing.Summary    `json:"pricing"`
}

func registerCartRoutes(r *gin.Engine, cfg HandlerConfig) {
	h := &cartHandler{holder: cfg.Cart, validator: cfg.Validator}

	g := r.Group("/cart", requireCartSession)
	g.GET("", h.get)
	g.DELETE("", h.clear)
	g.POST("/items", h.addItem)
	g.DELETE("/items/:index", h.mutateAt((*cart.Holder).RemoveItem))
	g.POST("/items/:index/increase", h.mutateAt((*cart.Holder).IncreaseQuantity))
	g.POST("/items/:index/decrease", h.mutateAt((*cart.Holder).DecreaseQuantity))
}

func requireCartSession(c *gin.Context) {
	if c.GetHeader(cartSessionHeader) == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "missing_cart_session"})
		return
	}
	c.Next()
}

func (h *cartHandler) get(c *gin.Context) {
	ct, err := h.holder.Get(c.Request.Context(), c.GetHeader(cartSessionHeader))
	h.respond(c, ct, err)
}

func (h *cartHandler) addItem(c *gin.Context) {
	var item pricing.LineItem
	if !validation.BindAndValidate(c, &item, h.validator) {
		return
	}
	ct, err := h.holder.AddItem(c.Request.Context(), c.GetHeader(cartSessionHeader), item)
	if errors.Is(err, cart.ErrInvalidItem) {
		respondError(c, apperror.BadRequest("invalid_item"))
		return
	}
	if errors.Is(err, cart.ErrCartFull) {
		respondError(c, apperror.Conflict("cart_full", nil))
		return
	}
	h.respond(c, ct, err)
}

func (h *cartHandler) clear(c *gin.Context) {
	session := c.GetHeader(cartSessionHeader)
	if err := h.holder.Clear(c.Request.Context(), session); err != nil {
		h.respond(c, nil, err)
		return
	}
	h.respond(c, &cart.Cart{}, nil)
}

type indexMutation func(h *cart.Holder, ctx context.Context, session string, index int) (*cart.Cart, error)

func (h *cartHandler) mutateAt(fn indexMutation) gin.HandlerFunc {
	return func(c *gin.Context) {
		index, err := strconv.Atoi(c.Param("index"))
		if err != nil {
			respondError(c, apperror.BadRequest("invalid_index"))
			return
		}
		ct, err := fn(h.holder, c.Request.Context(), c.GetHeader(cartSessionHeader), index)
		h.respond(c, ct, err)
	}
}

func (h *cartHandler) respond(c *gin.Context, ct *cart.Cart, err error) {
	if err != nil {
		respondError(c, apperror.Internal("failed to update cart", err))
		return
	}
	items := ct.Items
	if items == nil {
		items = []pricing.LineItem{}
	}
	c.JSON(http.StatusOK, cartResponse{Items: items, Pricing: ct.Summary()})
}
