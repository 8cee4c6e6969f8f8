package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/imrishuroy/bakery-storefront/internal/validation"
)

func registerProductRoutes(r *gin.Engine, admin gin.HandlerFunc, cfg HandlerConfig) {
	m := cfg.Products

	r.GET("/products", func(c *gin.Context) {
		out, err := m.ListProducts(c.Request.Context(), c.Query("category"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	})

	r.GET("/products/:slug", func(c *gin.Context) {
		p, err := m.GetProduct(c.Request.Context(), c.Param("slug"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	})

	r.POST("/products", admin, func(c *gin.Context) {
		var req validation.ProductRequest
		if !validation.BindJSON(c, &req) {
			return
		}
		p, err := m.CreateProduct(c.Request.Context(), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, p)
	})

	r.PUT("/products/:id", admin, func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		var req validation.ProductRequest
		if !validation.BindJSON(c, &req) {
			return
		}
		p, err := m.UpdateProduct(c.Request.Context(), id, req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	})

	r.DELETE("/products/:id", admin, func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		if err := m.DeleteProduct(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})
}
