package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/imrishuroy/bakery-storefront/internal/validation"
)

func registerEnquiryRoutes(r *gin.Engine, admin gin.HandlerFunc, cfg HandlerConfig) {
	m := cfg.Enquiries

	r.POST("/customize-cake", func(c *gin.Context) {
		var req validation.EnquiryRequest
		if !validation.BindJSON(c, &req) {
			return
		}
		e, err := m.CreateEnquiry(c.Request.Context(), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, e)
	})

	r.GET("/customize-cake", admin, func(c *gin.Context) {
		out, err := m.ListEnquiries(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	})

	r.PATCH("/customize-cake/:id", admin, func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		var req validation.StatusRequest
		if !validation.BindAndValidate(c, &req, cfg.Validator) {
			return
		}
		e, err := m.UpdateStatus(c.Request.Context(), id, req.Status)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, e)
	})

	r.DELETE("/customize-cake/:id", admin, func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		if err := m.DeleteEnquiry(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})
}
