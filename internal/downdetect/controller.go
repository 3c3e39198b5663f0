package downdetect

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type DowndetectController struct {
	service *DowndetectService
}

func (c *DowndetectController) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/downdetect/is-available", c.IsAvailable)
}

// IsAvailable
// @Summary Check API availability
// @Description Check that the document store and the cache answer
// @Tags downdetect
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /downdetect/is-available [get]
func (c *DowndetectController) IsAvailable(ctx *gin.Context) {
	if err := c.service.IsAvailable(ctx.Request.Context()); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "API and connections are available"})
}
