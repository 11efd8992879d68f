package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.uber.org/zap"

	"storybook-server/internal/ai"
	"storybook-server/internal/service"
	"storybook-server/internal/sse"
)

// RouterDeps собирает зависимости HTTP-слоя.
type RouterDeps struct {
	Storybooks  service.IStorybookService
	Contents    service.IContentService
	Drafts      service.IDraftService
	Tools       service.IToolsService
	Client      ai.GenerationClient
	Hub         *sse.Hub
	CORSOrigins []string
	Logger      *zap.Logger
}

// NewRouter настраивает gin-роутер со всеми маршрутами и middleware.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if len(deps.CORSOrigins) == 1 && deps.CORSOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = deps.CORSOrigins
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	prom := ginprometheus.NewPrometheus("gin")
	prom.Use(router)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")

	NewRunHandler(deps.Storybooks, deps.Hub, deps.Logger).RegisterRoutes(api)
	NewContentHandler(deps.Contents, deps.Logger).RegisterRoutes(api)
	NewDraftHandler(deps.Drafts, deps.Logger).RegisterRoutes(api)
	NewToolsHandler(deps.Tools, deps.Client, deps.Logger).RegisterRoutes(api)
	NewOptionsHandler().RegisterRoutes(api)

	return router
}
