package routes

import (
	"chatterbug_server/middlewares"
	"chatterbug_server/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// SetRoutes mounts all route groups on the app.
func SetRoutes(app *fiber.App, s *services.Service) {
	app.Use(cors.New(cors.Config{
		AllowCredentials: true,
	}))

	authenticate := middlewares.Authenticate(s.Config.TokenSecret)

	authRoutes(app, s)
	socialRoutes(app, s, authenticate)
	chatRoutes(app, s, authenticate)
	publicRoutes(app, s)
}
