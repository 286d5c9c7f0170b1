package main

import (
	"fmt"
	"log"

	"campfire/internal/config"
	"campfire/internal/handler"
	"campfire/internal/model"
	"campfire/internal/pkg"
	"campfire/internal/realtime"
	"campfire/internal/repository/mysql"
	"campfire/internal/repository/redis"
	"campfire/internal/router"
	"campfire/internal/service"
	"campfire/internal/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)
	pkg.SetJWTSecret(cfg.JWTSecret)
	pkg.SetCookieSecure(cfg.CookieSecure)

	if err := mysql.InitDB(cfg.MySQLDSN); err != nil {
		log.Fatalf("mysql init failed: %v", err)
	}
	if err := mysql.DB.AutoMigrate(
		&model.User{},
		&model.DeletedUser{},
		&model.Community{},
		&model.CommunityRelation{},
		&model.Post{},
		&model.Draft{},
		&model.Comment{},
		&model.Reaction{},
		&model.Follow{},
		&model.Notification{},
		&model.Message{},
	); err != nil {
		log.Fatalf("migrate failed: %v", err)
	}

	if err := redis.Init(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
		log.Fatalf("redis init failed: %v", err)
	}
	defer redis.Close()

	store, err := storage.NewMinIOClient(cfg.MinIO)
	if err != nil {
		log.Fatalf("minio init failed: %v", err)
	}

	producer := pkg.NewKafkaProducer(pkg.KafkaConfig{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.Topic,
	})
	defer producer.Close()

	hub := realtime.NewHub(
		realtime.NewMemoryRegistry(),
		&mysql.MessageRepository{DB: mysql.DB},
		&redis.TicketRepository{},
		cfg.AllowedOrigin,
	)

	otp := service.NewOtpService(pkg.SMTPConfig(cfg.SMTP))
	users := service.NewUserService(otp)
	notifications := service.NewNotificationService(hub, producer)
	communities := service.NewCommunityService()
	posts := service.NewPostService(communities, notifications)
	comments := service.NewCommentService(notifications)
	follows := service.NewFollowService(notifications)
	chats := service.NewChatService()

	r := router.InitRouter(router.Handlers{
		Auth:      handler.NewAuthHandler(users, otp),
		User:      handler.NewUserHandler(users, follows, notifications, store),
		Post:      handler.NewPostHandler(posts, store),
		Comment:   handler.NewCommentHandler(comments),
		Community: handler.NewCommunityHandler(communities, store),
		Public:    handler.NewPublicHandler(posts, comments, communities, users),
		Chat:      handler.NewChatHandler(chats),
	}, hub, cfg.AllowedOrigin)

	addr := fmt.Sprintf(":%d", cfg.ServerPort)
	log.Printf("listening on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
