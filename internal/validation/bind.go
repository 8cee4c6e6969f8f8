package validation

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// BindAndValidate binds JSON body into `out` and runs validation.
// If either step fails, it writes a 400 response and returns false so the handler can short-circuit.
func BindAndValidate(c *gin.Context, out interface{}, v *Validator) bool {
	if !BindJSON(c, out) {
		return false
	}

	if errs := v.Struct(out); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "validation_failed",
			"fields": errs,
		})
		return false
	}
	return true
}

// BindJSON decodes the body into out, writing a 400 on malformed JSON.
func BindJSON(c *gin.Context, out interface{}) bool {
	if err := c.ShouldBindJSON(out); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid_request_body",
			"msg":   err.Error(),
		})
		return false
	}
	return true
}

// BindJSONBody is BindJSON that also returns the raw body, cached on the context so
// it can be fingerprinted after binding.
func BindJSONBody(c *gin.Context, out interface{}) ([]byte, bool) {
	if err := c.ShouldBindBodyWith(out, binding.JSON); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid_request_body",
			"msg":   err.Error(),
		})
		return nil, false
	}
	raw, _ := c.Get(gin.BodyBytesKey)
	body, _ := raw.([]byte)
	return body, true
}
