package routes

import (
	"chatterbug_server/services"

	"github.com/gofiber/fiber/v2"
)

func authRoutes(app *fiber.App, s *services.Service) {
	app.Post("/register", s.Register)
	app.Get("/signin", s.SignIn)

	app.Get("/verify/:token", s.VerifyEmail)
	app.Get("/verify", s.VerifyLanding)

	reset := app.Group("/passwordreset")
	reset.Put("/forgot", s.ForgotPassword)
	reset.Put("/reset/:token", s.ResetPassword)
}
