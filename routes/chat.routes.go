package routes

import (
	"chatterbug_server/services"

	"github.com/gofiber/fiber/v2"
)

func chatRoutes(app *fiber.App, s *services.Service, authenticate fiber.Handler) {
	chats := app.Group("/chats", authenticate)
	chats.Post("/", s.CreateChat)
	chats.Get("/", s.ChatList)
	chats.Get("/members/:chatId", s.ChatMembers)
	chats.Put("/:chatId", s.JoinChat)
	chats.Delete("/:chatId/:email", s.RemoveChatMember)

	messages := app.Group("/messages", authenticate)
	messages.Post("/", s.PostMessage)
	messages.Get("/:chatId/:messageId?", s.MessageList)

	pushTokens := app.Group("/auth", authenticate)
	pushTokens.Put("/", s.RegisterPushToken)
	pushTokens.Delete("/", s.DeletePushToken)
}
