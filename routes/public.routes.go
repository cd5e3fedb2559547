package routes

import (
	"chatterbug_server/services"

	"github.com/gofiber/fiber/v2"
)

func publicRoutes(app *fiber.App, s *services.Service) {
	app.Get("/weather", s.GetWeather)

	app.Get("/", func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.SendString(`<h style="color:blue">This server belongs to Chatterbug!</h>`)
	})
}
