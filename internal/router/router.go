package router

import (
	"github.com/cloudwego/hertz/pkg/app/server"

	"github.com/mohameodo/nova-v5/internal/handler"
	"github.com/mohameodo/nova-v5/internal/middleware"
)

// Setup wires every route. Auth, health, and blob serving are public;
// everything else requires a valid JWT.
func Setup(
	h *server.Hertz,
	authHandler *handler.AuthHandler,
	sessionHandler *handler.SessionHandler,
	chatsHandler *handler.ChatsHandler,
	modelHandler *handler.ModelHandler,
	blobHandler *handler.BlobHandler,
	healthHandler *handler.HealthHandler,
) {
	h.Use(middleware.Recovery())
	h.Use(middleware.Logger())
	h.Use(middleware.CORS())

	h.GET("/ping", healthHandler.Ping)
	h.GET("/health/live", healthHandler.Liveness)
	h.GET("/health/ready", healthHandler.Readiness)

	// Attachment bytes are public so image markdown renders without an
	// Authorization header.
	h.GET("/blobs/:key", blobHandler.Serve)

	apiV1 := h.Group("/api/v1")
	{
		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
		}

		authorized := apiV1.Group("")
		authorized.Use(authHandler.AuthMiddleware())
		{
			users := authorized.Group("/users")
			{
				users.GET("/me", authHandler.Me)
				users.PUT("/me/bio", authHandler.UpdateBio)
			}

			session := authorized.Group("/session")
			{
				session.GET("", sessionHandler.GetSession)
				session.POST("/messages", sessionHandler.SendMessage)
				session.POST("/retry", sessionHandler.Retry)
				session.POST("/reset", sessionHandler.Reset)
				session.POST("/chats/:id", sessionHandler.LoadChat)
				session.PUT("/model", sessionHandler.SetModel)
				session.PUT("/location", sessionHandler.SetLocation)
			}

			chats := authorized.Group("/chats")
			{
				chats.GET("", chatsHandler.List)
				chats.GET("/:id", chatsHandler.Get)
				chats.DELETE("/:id", chatsHandler.Delete)
			}

			authorized.GET("/models", modelHandler.List)
			authorized.POST("/uploads", blobHandler.Upload)
		}
	}
}
