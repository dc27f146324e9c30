package main

import (
	"log"
	"os"

	"anoa.com/sanggarseni/internal/config"
	"anoa.com/sanggarseni/internal/entity"
	"anoa.com/sanggarseni/internal/server"
	"anoa.com/sanggarseni/pkg/database"
	"anoa.com/sanggarseni/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg := config.Load()
	logger.Init(cfg.AppEnv)

	db := database.Connect()
	if err := migrate(db); err != nil {
		logger.L().Fatal("migration failed", zap.Error(err))
	}

	if cfg.AppEnv == "development" {
		if err := seedModerator(db); err != nil {
			logger.L().Fatal("failed to seed moderator", zap.Error(err))
		}
	}

	redisClient := connectRedis(cfg.RedisURL)

	srv := server.NewServer(cfg, db, redisClient)

	logger.L().Info("server starting", zap.String("port", cfg.Port))
	if err := srv.Run(":" + cfg.Port); err != nil {
		logger.L().Fatal("server exited", zap.Error(err))
	}
}

func connectRedis(redisURL string) *redis.Client {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		logger.L().Fatal("invalid REDIS_URL", zap.Error(err))
	}
	return redis.NewClient(opts)
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.User{},
		&entity.Wallet{},
		&entity.UserFellow{},
		&entity.Collective{},
		&entity.Channel{},
		&entity.CollectiveMembership{},
		&entity.Post{},
		&entity.Gallery{},
		&entity.Heart{},
		&entity.Praise{},
		&entity.Trophy{},
		&entity.GalleryAward{},
		&entity.Comment{},
		&entity.Critique{},
		&entity.Notification{},
	)
}

func seedModerator(db *gorm.DB) error {
	email := os.Getenv("MODERATOR_EMAIL")
	if email == "" {
		email = "moderator@sanggarseni.local"
	}

	var count int64
	if err := db.Model(&entity.User{}).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	password := os.Getenv("MODERATOR_PASSWORD")
	if password == "" {
		password = "change-me-now"
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	moderator := &entity.User{
		Username:     "moderator",
		Email:        email,
		PasswordHash: string(hashed),
		IsModerator:  true,
		Wallet:       &entity.Wallet{BrushDrips: 1000},
	}
	if err := db.Create(moderator).Error; err != nil {
		return err
	}

	logger.L().Info("seeded moderator account", zap.String("email", email))
	return nil
}
