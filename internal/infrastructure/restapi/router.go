package restapi

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter configures and returns the Gin router.
func SetupRouter(networkHandler *NetworkHandler) *gin.Engine {
	router := gin.Default() // standard Logger and Recovery middleware
	router.Use(cors.Default())

	v1 := router.Group("/api/v1")
	{
		v1.GET("/networks", networkHandler.ListNetworksHandler)
		v1.GET("/networks/:identifier/config", networkHandler.GetNetworkConfigHandler)
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}
