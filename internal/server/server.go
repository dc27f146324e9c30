package server

import (
	"os"
	"strings"
	"time"

	"anoa.com/sanggarseni/internal/config"
	"anoa.com/sanggarseni/internal/middleware"
	"anoa.com/sanggarseni/internal/ranking/invalidation"
	"anoa.com/sanggarseni/internal/ranking/rankcache"
	"anoa.com/sanggarseni/pkg/logger"
	"anoa.com/sanggarseni/pkg/storage"

	collectiveHttp "anoa.com/sanggarseni/internal/modules/collective/delivery/http"
	collectiveRepo "anoa.com/sanggarseni/internal/modules/collective/repository"
	collectiveService "anoa.com/sanggarseni/internal/modules/collective/service"

	feedHttp "anoa.com/sanggarseni/internal/modules/feed/delivery/http"
	feedRepo "anoa.com/sanggarseni/internal/modules/feed/repository"
	feedService "anoa.com/sanggarseni/internal/modules/feed/service"

	fellowHttp "anoa.com/sanggarseni/internal/modules/fellow/delivery/http"
	fellowRepo "anoa.com/sanggarseni/internal/modules/fellow/repository"
	fellowService "anoa.com/sanggarseni/internal/modules/fellow/service"

	galleryHttp "anoa.com/sanggarseni/internal/modules/gallery/delivery/http"
	galleryRepo "anoa.com/sanggarseni/internal/modules/gallery/repository"
	galleryService "anoa.com/sanggarseni/internal/modules/gallery/service"

	interactionHttp "anoa.com/sanggarseni/internal/modules/interaction/delivery/http"
	interactionRepo "anoa.com/sanggarseni/internal/modules/interaction/repository"
	interactionService "anoa.com/sanggarseni/internal/modules/interaction/service"

	notiHttp "anoa.com/sanggarseni/internal/modules/notification/delivery/http"
	notifRepo "anoa.com/sanggarseni/internal/modules/notification/repository"
	notifService "anoa.com/sanggarseni/internal/modules/notification/service"

	postHttp "anoa.com/sanggarseni/internal/modules/post/delivery/http"
	postRepo "anoa.com/sanggarseni/internal/modules/post/repository"
	postService "anoa.com/sanggarseni/internal/modules/post/service"

	searchService "anoa.com/sanggarseni/internal/modules/search/service"

	toplistHttp "anoa.com/sanggarseni/internal/modules/toplist/delivery/http"
	toplistRepo "anoa.com/sanggarseni/internal/modules/toplist/repository"
	toplistService "anoa.com/sanggarseni/internal/modules/toplist/service"

	userHttp "anoa.com/sanggarseni/internal/modules/user/delivery/http"
	userRepo "anoa.com/sanggarseni/internal/modules/user/repository"
	userService "anoa.com/sanggarseni/internal/modules/user/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
}

func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	userRepository := userRepo.NewUserRepository(db)

	artworkStorage, err := storage.NewCloudinaryStorage()
	if err != nil {
		logger.L().Warn("cloudinary storage unavailable, uploads disabled", zap.Error(err))
		artworkStorage = nil
	}

	// Meilisearch
	meiliHost := os.Getenv("MEILISEARCH_HOST")
	if meiliHost == "" {
		meiliHost = "http://localhost:7700"
	}
	if !strings.HasPrefix(meiliHost, "http") {
		meiliHost = "http://" + meiliHost + ":7700"
	}
	meiliClient := meilisearch.New(meiliHost, meilisearch.WithAPIKey(os.Getenv("MEILI_MASTER_KEY")))
	searchSvc := searchService.NewSearchService(meiliClient)

	// Ranking core
	factsRepo := rankcache.NewFactsRepository(db)
	derivedCache := rankcache.NewDerivedCache(redisClient, factsRepo)
	versionRegister := rankcache.NewVersionRegister(redisClient)
	dispatcher := invalidation.NewDispatcher(redisClient, derivedCache, versionRegister)

	authSvc := userService.NewAuthService(userRepository)
	userHandler := userHttp.NewUserHandler(authSvc)

	notificationRepository := notifRepo.NewNotificationRepository(db)
	notificationSvc := notifService.NewNotificationService(notificationRepository, redisClient)
	notificationHandler := notiHttp.NewNotificationHandler(notificationSvc, redisClient)

	postRepository := postRepo.NewPostRepository(db)
	galleryRepository := galleryRepo.NewGalleryRepository(db)

	interactionRepository := interactionRepo.NewRepository(db)
	interactionSvc := interactionService.NewInteractionService(interactionRepository, postRepository, galleryRepository, redisClient, dispatcher, notificationSvc)
	interactionHandler := interactionHttp.NewInteractionHandler(interactionSvc)

	postSvc := postService.NewPostService(postRepository, userRepository, interactionSvc, redisClient, dispatcher, searchSvc)
	postHandler := postHttp.NewPostHandler(postSvc, artworkStorage)

	gallerySvc := galleryService.NewGalleryService(galleryRepository, userRepository, interactionSvc, redisClient, dispatcher, searchSvc)
	galleryHandler := galleryHttp.NewGalleryHandler(gallerySvc)

	fellowRepository := fellowRepo.NewFellowRepository(db)
	fellowSvc := fellowService.NewFellowService(fellowRepository, dispatcher, notificationSvc)
	fellowHandler := fellowHttp.NewFellowHandler(fellowSvc)

	collectiveRepository := collectiveRepo.NewCollectiveRepository(db)
	collectiveSvc := collectiveService.NewCollectiveService(collectiveRepository, dispatcher)
	collectiveHandler := collectiveHttp.NewCollectiveHandler(collectiveSvc)

	feedRepository := feedRepo.NewRepository(db)
	feedSvc := feedService.NewService(feedRepository, redisClient, derivedCache, versionRegister)
	feedHandler := feedHttp.NewFeedHandler(feedSvc)

	toplistRepository := toplistRepo.NewRepository(db)
	toplistSvc := toplistService.NewService(toplistRepository, redisClient)
	toplistHandler := toplistHttp.NewTopListHandler(toplistSvc)

	if !cfg.DisableBackgroundJobs {
		toplistSvc.StartInitialGeneration(cfg.TopListWarmup)
	}

	router := gin.New()

	setupCORS(router, cfg.AllowedOrigins)

	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	authMiddleware := middleware.NewAuthMiddleware(userRepository)

	api := router.Group("/api")

	// Public routes
	auth := api.Group("/auth")
	{
		auth.POST("/register", userHandler.Register)
		auth.POST("/login", userHandler.Login)
	}

	// The feed serves anonymous visitors a degraded global ranking, so auth
	// is optional here.
	api.GET("/feed", authMiddleware.OptionalAuth(), feedHandler.GetFeed)

	api.GET("/top/posts", toplistHandler.GetTopPosts)
	api.GET("/top/galleries", toplistHandler.GetTopGalleries)

	api.GET("/posts/:id", postHandler.GetPost)
	api.GET("/galleries/:id", galleryHandler.GetGallery)
	api.GET("/items/:kind/:id/counts", interactionHandler.GetItemCounts)

	api.GET("/collectives", collectiveHandler.ListCollectives)
	api.GET("/collectives/:slug", collectiveHandler.GetCollective)
	api.GET("/collectives/:slug/channels", collectiveHandler.ListChannels)

	// Protected routes
	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		protected.GET("/profile/me", userHandler.GetProfile)
		protected.POST("/wallet/topup", userHandler.TopUpDrips)

		protected.POST("/posts", postHandler.CreatePost)
		protected.PUT("/posts/:id", postHandler.UpdatePost)
		protected.DELETE("/posts/:id", postHandler.DeletePost)
		protected.POST("/upload", postHandler.UploadArtwork)

		protected.POST("/galleries", galleryHandler.CreateGallery)
		protected.PUT("/galleries/:id", galleryHandler.UpdateGallery)
		protected.DELETE("/galleries/:id", galleryHandler.DeleteGallery)

		protected.POST("/interactions/heart", interactionHandler.ToggleHeart)
		protected.POST("/interactions/praise", interactionHandler.TogglePraise)
		protected.POST("/interactions/trophy", interactionHandler.GiveTrophy)
		protected.POST("/interactions/award", interactionHandler.GiveGalleryAward)
		protected.POST("/comments", interactionHandler.AddComment)
		protected.DELETE("/comments/:id", interactionHandler.DeleteComment)
		protected.POST("/critiques", interactionHandler.AddCritique)

		protected.POST("/fellows/:id", fellowHandler.RequestFellow)
		protected.PUT("/fellows/:id/accept", fellowHandler.AcceptFellow)
		protected.PUT("/fellows/:id/block", fellowHandler.BlockFellow)
		protected.DELETE("/fellows/:id", fellowHandler.RemoveFellow)
		protected.GET("/fellows", fellowHandler.ListFellows)
		protected.GET("/fellows/requests", fellowHandler.ListPending)

		protected.POST("/collectives", collectiveHandler.CreateCollective)
		protected.POST("/collectives/:id/channels", collectiveHandler.CreateChannel)
		protected.POST("/collectives/:id/join", collectiveHandler.JoinCollective)
		protected.DELETE("/collectives/:id/leave", collectiveHandler.LeaveCollective)

		protected.GET("/notifications", notificationHandler.GetNotifications)
		protected.GET("/notifications/unread-count", notificationHandler.UnreadCount)
		protected.PUT("/notifications/:id/read", notificationHandler.MarkAsRead)
		protected.PUT("/notifications/read-all", notificationHandler.MarkAllAsRead)
		protected.GET("/notifications/ws", notificationHandler.HandleWebSocket)

		// Moderator routes
		mod := protected.Group("/admin")
		mod.Use(authMiddleware.RequireModerator())
		{
			mod.POST("/toplists/regenerate", toplistHandler.RegenerateTopList)
		}
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
	}
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	var origins []string
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	} else {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
