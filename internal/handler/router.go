package handler

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter wires the API routes. Everything under /api requires a valid
// session resolved by authMiddleware.
func NewRouter(h *Handler, authMiddleware gin.HandlerFunc, frontendURL string) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{frontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", h.HealthCheck)

	api := router.Group("/api")
	api.Use(authMiddleware)
	{
		api.GET("/me", h.Me)
		api.POST("/upload", h.Upload)
		api.POST("/generate-caption", h.GenerateSync)

		captions := api.Group("/captions")
		{
			captions.POST("/generate", h.Generate)
			captions.GET("/get-all", h.GetAll)
			captions.GET("/get-by-id", h.GetByID)
			captions.PUT("/update", h.Update)
			captions.DELETE("/delete", h.Delete)
		}
	}

	return router
}
