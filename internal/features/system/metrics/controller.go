package system_metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type MetricsController struct{}

func (c *MetricsController) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/system/metrics", c.GetMetrics)
}

// GetMetrics
// @Summary Prometheus metrics
// @Description Expose process, store and HTTP metrics in Prometheus text format
// @Tags system/metrics
// @Produce plain
// @Success 200 {string} string
// @Router /system/metrics [get]
func (c *MetricsController) GetMetrics(ctx *gin.Context) {
	promhttp.Handler().ServeHTTP(ctx.Writer, ctx.Request)
}

var metricsController = &MetricsController{}

func GetMetricsController() *MetricsController {
	return metricsController
}
