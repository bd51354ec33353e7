package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/kennelapp/dog-kennel/internal/config"
	"github.com/kennelapp/dog-kennel/internal/database"
	"github.com/kennelapp/dog-kennel/internal/handler"
	"github.com/kennelapp/dog-kennel/internal/middleware"
	"github.com/kennelapp/dog-kennel/internal/queue"
	"github.com/kennelapp/dog-kennel/internal/repository"
	"github.com/kennelapp/dog-kennel/internal/router"
	"github.com/kennelapp/dog-kennel/internal/service"
)

func main() {
	// .env is a convenience for local runs; deployed instances configure
	// through real environment variables.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	categories := repository.NewCategoryRepo(db)
	dogs := repository.NewDogRepo(db)
	parents := repository.NewParentRepo(db)
	reviews := repository.NewReviewRepo(db)

	cache := service.NewCategoryCache(config.LoadCacheConfig(), rdb, categories)

	var notifier queue.Notifier
	if cfg.AMQPURL != "" {
		notifier = service.NewMailPublisher(cfg.AMQPURL)
		go queue.StartMailConsumer(cfg.AMQPURL,
			service.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass))
	} else {
		log.Println("RABBITMQ_URL not set, mail notifications disabled")
	}

	h := router.Handlers{
		Home:     handler.NewHomeHandler(cache),
		Auth:     handler.NewAuthHandler(cfg, users, tokens, notifier),
		Users:    handler.NewUserHandler(cfg, users, notifier),
		Category: handler.NewCategoryHandler(categories, dogs, cache),
		Dogs:     handler.NewDogHandler(cfg, dogs, parents, categories, users, notifier),
		Reviews:  handler.NewReviewHandler(reviews, dogs),
	}

	e := echo.New()
	rate := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	router.Register(e, cfg.JWTSecret, rate, h)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
