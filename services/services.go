// Package services holds the route pipelines. Every handler is a linear
// sequence of guarded steps: validate input, check preconditions against the
// store, mutate, optionally notify, respond. Any failing step short-circuits
// with its error response; notification never blocks the response.
package services

import (
	"context"

	"chatterbug_server/config"
	"chatterbug_server/errors"
	"chatterbug_server/mail"
	"chatterbug_server/push"
	"chatterbug_server/weather"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
)

var validate = validator.New()

// Service carries the process-wide dependencies the route pipelines need.
// Constructed once in main; no module-level state.
type Service struct {
	DB      *sqlx.DB
	Redis   *redis.Client
	Config  *config.Config
	Mail    *mail.Sender
	Push    *push.Client
	Weather *weather.Client
}

// New wires a Service.
func New(db *sqlx.DB, rdb *redis.Client, cfg *config.Config, sender *mail.Sender, pusher *push.Client, forecaster *weather.Client) *Service {
	return &Service{
		DB:      db,
		Redis:   rdb,
		Config:  cfg,
		Mail:    sender,
		Push:    pusher,
		Weather: forecaster,
	}
}

// memberID reads the identity the auth middleware attached.
func memberID(c *fiber.Ctx) int {
	return c.Locals("memberid").(int)
}

// memberEmail reads the email the auth middleware attached.
func memberEmail(c *fiber.Ctx) string {
	return c.Locals("email").(string)
}

// fanOutPush notifies every registered device token in a chat. Runs detached
// from the request: per-recipient failures are logged and never abort the
// loop, and the HTTP response is never blocked on delivery.
func (s *Service) fanOutPush(chatID int, data interface{}) {
	ctx := context.Background()

	var tokens []string
	err := s.DB.SelectContext(ctx, &tokens, `
		SELECT token FROM push_token
		INNER JOIN chatmembers ON push_token.memberid = chatmembers.memberid
		WHERE chatmembers.chatid = $1`,
		chatID,
	)
	if err != nil {
		errors.MonitorLogger.Println("push token lookup error: " + err.Error())
		return
	}

	for _, token := range tokens {
		if err := s.Push.Send(ctx, token, data); err != nil {
			errors.MonitorLogger.Println("push send error: " + err.Error())
		}
	}
}
