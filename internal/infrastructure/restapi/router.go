package restapi

import (
	"net/http"
	"strings"

	"issuance_tracker/internal/infrastructure/configloader"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

const swaggerSpecRoute = "/docs/swagger.yaml"

// SetupRouter настраивает и возвращает экземпляр Gin роутера.
func SetupRouter(handler *AdapterHandler, swagger configloader.SwaggerConfig, logger *zap.Logger) *gin.Engine {
	router := gin.New()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	router.Use(cors.New(corsConfig))

	router.Use(ZapLoggerMiddleware(logger.Named("http")))
	router.Use(gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/adapters", handler.ListAdaptersHandler)
		v1.GET("/adapters/:id", handler.GetAdapterHandler)
		v1.GET("/adapters/:id/icon", handler.GetIconHandler)
		v1.GET("/adapters/:id/queries/:query", handler.RunQueryHandler)
		v1.GET("/networks", handler.ListNetworksHandler)
	}

	if swagger.Enabled {
		router.StaticFile(swaggerSpecRoute, swagger.Spec)
		path := "/" + strings.Trim(swagger.Path, "/")
		router.GET(path+"/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL(swaggerSpecRoute)))
		logger.Info("Swagger UI enabled", zap.String("path", path+"/index.html"))
	}

	return router
}
