package routes

import (
	"chatterbug_server/services"

	"github.com/gofiber/fiber/v2"
)

func socialRoutes(app *fiber.App, s *services.Service, authenticate fiber.Handler) {
	app.Get("/search/:email", s.SearchByEmail)

	account := app.Group("/account")
	account.Get("/", authenticate, s.GetAccount)
	account.Put("/change/:userid/:type/:newname", authenticate, s.ChangeAccount)
	account.Put("/delete/:email", s.DeleteAccount)

	friends := app.Group("/friendsList", authenticate)
	friends.Get("/", s.FriendsList)
	friends.Get("/requests", s.FriendRequests)
	friends.Post("/request", s.RequestFriend)
	friends.Put("/verify", s.VerifyFriend)
	friends.Delete("/:memberid", s.RemoveFriend)
}
