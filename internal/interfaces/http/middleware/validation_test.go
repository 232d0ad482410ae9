package middleware

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type searchQuery struct {
	Name string `form:"name" binding:"omitempty,max=5"`
	Kind string `form:"kind" binding:"omitempty,oneof=a b"`
}

func TestValidationMessage(t *testing.T) {
	SetupValidator()

	var got string
	router := gin.New()
	router.GET("/test", func(c *gin.Context) {
		var q searchQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			got = ValidationMessage(err)
			c.Status(http.StatusBadRequest)
			return
		}
		c.Status(http.StatusOK)
	})

	w := serve(router, http.MethodGet, "/test?name="+strings.Repeat("x", 6)+"&kind=c", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, got, "Invalid attribute: name must be at most 5 characters")
	assert.Contains(t, got, "Invalid attribute: kind must be one of: a b")

	w = serve(router, http.MethodGet, "/test?name=ok", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestValidationMessage_PlainError(t *testing.T) {
	assert.Equal(t, "boom", ValidationMessage(errors.New("boom")))
}
