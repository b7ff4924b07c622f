// Package router はgin.Engineを組み立てる（ミドルウェア、/api、/ws、/swagger）
package router

import (
	"net/http"
	"time"

	"worldstage/auth"
	_ "worldstage/docs" // swagger定義の登録
	"worldstage/handlers"
	"worldstage/middlewares"
	"worldstage/realtime"
	"worldstage/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

type Deps struct {
	Handler        *handlers.Handler
	Issuer         *auth.Issuer
	Hub            *realtime.Hub
	Limiter        *middlewares.IPRateLimiter
	Logger         *zap.Logger
	AllowedOrigins []string
}

func New(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middlewares.RequestID(), utils.RequestLogger(d.Logger))
	// 許可Originが空なら同一オリジンのみ（CORSヘッダーを付けない）
	if len(d.AllowedOrigins) > 0 {
		r.Use(cors.New(corsConfig(d.AllowedOrigins)))
	}

	r.NoRoute(func(c *gin.Context) {
		utils.SendError(c, http.StatusNotFound, "Route not found")
	})

	h := d.Handler
	api := r.Group("/api")
	api.GET("/health", h.Health)

	authGroup := api.Group("/auth", middlewares.RateLimiter(d.Limiter))
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.GET("/profile", middlewares.AuthMiddleware(d.Issuer, d.Logger), h.Profile)
	}

	protected := api.Group("", middlewares.AuthMiddleware(d.Issuer, d.Logger))
	games := protected.Group("/games")
	{
		games.GET("", h.ListGames)
		games.POST("", h.CreateGame)
		games.GET("/:id", h.GameDetails)
		games.POST("/:id/join", h.JoinGame)
		games.POST("/:id/start", h.StartGame)
	}
	players := protected.Group("/players")
	{
		players.GET("/countries", h.Countries)
		players.GET("/games", h.PlayerGames)
		players.GET("/building-types", h.BuildingTypes)
		players.POST("/buildings/:id/upgrade", h.UpgradeBuilding)
		players.GET("/:id/resources", h.Resources)
		players.GET("/:id/buildings", h.Buildings)
		players.POST("/:id/buildings", h.ConstructBuilding)
		players.GET("/:id/technologies", h.Technologies)
		players.POST("/:id/technologies/research", h.StartResearch)
		players.POST("/:id/ready", h.ToggleReady)
	}

	upgrader := realtime.NewUpgrader(d.AllowedOrigins)
	r.GET("/ws", realtime.HandleConnections(d.Hub, d.Issuer, upgrader, d.Logger))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	return cfg
}
