package main

import (
	"admincore/internal/config"
	"admincore/internal/database"
	"admincore/internal/handler"
	"admincore/internal/repository"
	"admincore/internal/service"
	"admincore/internal/websocket"
	"admincore/pkg/cache"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	if err := godotenv.Load("configs/.env"); err != nil {
		log.Info("no configs/.env file found, relying on the environment")
	}

	cfg := config.Load(log)

	secret := cfg.Auth.JWTSecret
	if secret == "" {
		if gin.Mode() == gin.ReleaseMode {
			log.Fatal("AUTH_JWT_SECRET is required in release mode")
		}
		secret = "default_super_secret_key" // development fallback only
	}

	db, err := database.NewConnection(cfg.Database.DSN())
	if err != nil {
		log.WithError(err).Fatal("database connection failed")
	}
	log.Info("connected to PostgreSQL")

	redisClient := cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	cacheStore := cache.NewRedisStore(redisClient)

	// Live activity feed
	wsHub := websocket.NewHub(log)
	go wsHub.Run()

	// Repositories
	txManager := repository.NewTransactionManager(db)
	exec := repository.NewExecutor(db)
	resolver := repository.NewResolver(db)
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	permRepo := repository.NewPermissionRepository(db)
	activityRepo := repository.NewActivityRepository(db)

	// Services
	activityService := service.NewActivityService(activityRepo, wsHub, log)
	permissionService := service.NewPermissionService(
		profileRepo, permRepo, groupRepo, exec, txManager,
		cacheStore, cfg.Cache.PermissionTTL(), log)
	accountService := service.NewAccountService(
		userRepo, profileRepo, exec, resolver, txManager, activityService, log)
	groupService := service.NewGroupService(
		groupRepo, permRepo, exec, resolver, txManager, permissionService, activityService, log)
	authService := service.NewAuthService(
		userRepo, profileRepo, activityService, []byte(secret), cfg.Auth.TokenTTL(), log)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	accountHandler := handler.NewAccountHandler(accountService, permissionService)
	groupHandler := handler.NewGroupHandler(groupService, permissionService)
	permissionHandler := handler.NewPermissionHandler(permissionService)
	activityHandler := handler.NewActivityHandler(activityService, permissionService)

	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173"}
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	router.GET("/ws/activity", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, []byte(secret), permissionService)
	})

	root := router.Group("")
	authHandler.RegisterRoutes(root)
	accountHandler.RegisterRoutes(root, []byte(secret))
	groupHandler.RegisterRoutes(root, []byte(secret))
	permissionHandler.RegisterRoutes(root, []byte(secret))
	activityHandler.RegisterRoutes(root, []byte(secret))

	log.WithField("port", cfg.Server.Port).Info("server listening")
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.WithError(err).Fatal("server failed")
	}
}
