package router

import (
	"github.com/gin-gonic/gin"
	"github.com/minegocio/backend/config"
	"github.com/minegocio/backend/internal/app/controller"
	"github.com/minegocio/backend/internal/middleware"
)

type Router struct {
	authController    *controller.AuthController
	usuarioController *controller.UsuarioController
	negocioController *controller.NegocioController
	authMiddleware    *middleware.AuthMiddleware
	config            *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	usuarioController *controller.UsuarioController,
	negocioController *controller.NegocioController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:    authController,
		usuarioController: usuarioController,
		negocioController: negocioController,
		authMiddleware:    authMiddleware,
		config:            cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "MiNegocio API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/validate-code", r.authController.ValidateCode)
			auth.POST("/reset-password", r.authController.ResetPassword)
		}

		users := v1.Group("/users")
		users.Use(r.authMiddleware.Authenticate())
		{
			users.GET("", r.usuarioController.SearchUsers)
			users.GET("/user/:id_usuario", r.usuarioController.GetProfile)
			users.PUT("/user/:id_usuario", r.usuarioController.UpdateProfile)
		}

		negocios := v1.Group("/negocios")
		negocios.Use(r.authMiddleware.Authenticate())
		{
			negocios.POST("", r.negocioController.CreateNegocio)
			negocios.GET("", r.negocioController.ListNegocios)

			// Member management hangs off /negocios/users to keep the
			// negocio id free for the resource routes below
			negocios.GET("/users/:id", r.negocioController.ListMembers)
			negocios.POST("/users/:id", r.negocioController.GrantAccess)
			negocios.PUT("/users/:id", r.negocioController.ChangeRole)
			negocios.DELETE("/users/:id/:id_usuario", r.negocioController.RevokeAccess)

			negocios.GET("/:id", r.negocioController.GetNegocio)
			negocios.PUT("/:id", r.negocioController.UpdateNegocio)
			negocios.DELETE("/:id", r.negocioController.DeleteNegocio)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
