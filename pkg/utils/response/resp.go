package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

func NoContent(c *gin.Context, _ any) {
	c.Status(http.StatusNoContent)
}

// Failed hands err to the error middleware and stops the handler chain.
func Failed(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
