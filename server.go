package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"chatterbug_server/config"
	"chatterbug_server/errors"
	"chatterbug_server/mail"
	"chatterbug_server/push"
	"chatterbug_server/routes"
	"chatterbug_server/services"
	"chatterbug_server/storage"
	"chatterbug_server/weather"

	redis "github.com/go-redis/redis/v8"
	fiber "github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
)

func main() {

	cfg, err := config.Load()
	errors.HandleFatalError(err)

	internalErrorsFile, err := os.OpenFile("internal_errors.txt", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	errors.HandleFatalError(err)

	monitorErrorsFile, err := os.OpenFile("monitor_logs.txt", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	errors.HandleFatalError(err)

	errors.InitLoggers(internalErrorsFile, monitorErrorsFile)

	ctx := context.Background()

	db, err := storage.Open(ctx, cfg.DatabaseURL)
	errors.HandleFatalError(err)
	defer db.Close()

	err = storage.Migrate(ctx, db)
	errors.HandleFatalError(err)
	fmt.Println("Database initialized")

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()

	service := services.New(
		db,
		redisClient,
		cfg,
		mail.New(cfg.EmailFrom, cfg.SMTP, errors.MonitorLogger),
		push.New(cfg.PushyAPIKey),
		weather.New(cfg.WeatherAPIKey, redisClient),
	)

	codec := jsoniter.ConfigCompatibleWithStandardLibrary
	app := fiber.New(fiber.Config{
		JSONEncoder: codec.Marshal,
		JSONDecoder: codec.Unmarshal,
	})
	defer app.Shutdown()

	routes.SetRoutes(app, service)

	fmt.Println("Starting server on port: " + cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
