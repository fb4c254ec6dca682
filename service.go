package main

import (
	"context"
	"passkey_auth_ms/repository"
	"passkey_auth_ms/services"

	"os"
	"os/signal"
	"syscall"
	"time"
	"passkey_auth_ms/config"
	"passkey_auth_ms/controller"
	"passkey_auth_ms/middleware"

	"github.com/go-webauthn/webauthn/webauthn"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type service struct {
	//DB
	dbConnection *gorm.DB

	//Redis Client
	redisClient *redis.Client

	//WebAuthn Conf
	webAuthn *webauthn.WebAuthn

	//Structured logger
	logger *zap.Logger

	// Repository
	userRepository     repository.IUserRepository
	passkeyRepository  repository.IPasskeyRepository
	settingsRepository repository.ISettingsRepository

	// Service
	jwtService        services.IJWTService
	redisService      services.IRedisService
	verifier          services.IWebAuthnVerifier
	eventPublisher    services.ISecurityEventPublisher
	passkeyService    services.IPasskeyService
	credentialService services.ICredentialService

	// Controller
	passkeyController    controller.IPasskeyController
	credentialController controller.ICredentialController
}

// NOTE: Service Start
func (s *service) Start() {
	log.Info("Opening database connection...")
	s.dbConnection = config.OpenDatabaseConnection(config.Conf.Application.Datasource.PrimaryURL)
	config.Migrate(config.Conf.Application.Datasource.PrimaryURL)

	log.Info("Opening redis connection...")
	s.redisClient = config.ConnectToRedis(config.Conf.Application.Redis.Host)

	log.Info("WebAuthn config")
	s.webAuthn = config.InitWebAuthn()
	s.logger = config.InitLogger()

	middleware.InitValidator()

	// NOTE: Dependency Injections
	s.DependencyInjection()

	// NOTE: Start Fiber server...
	app := NewServer(s.passkeyController, s.credentialController, s.logger).Start()

	log.Info("Server starting..")
	// NOTE: Server start with goroutine
	go func() {
		if err := app.Listen(config.Conf.Application.Server.Port); err != nil {
			log.Fatal("Server failed to start")
		}
	}()
	// NOTE: Keep OS signals for graceful shutdown
	s.gracefulShutdown(app)
}

// NOTE: Depency Injection Operation
func (s *service) DependencyInjection() {
	// NOTE: Repositories Injections
	s.userRepository = repository.NewUserRepository()
	s.passkeyRepository = repository.NewPasskeyRepository()
	s.settingsRepository = repository.NewSettingsRepository()

	// NOTE: Services Injections
	s.redisService = services.NewRedisService(s.redisClient)
	s.jwtService = &services.JWTService{
		Secret:     []byte(config.Conf.Application.Security.Secret),
		Issuer:     config.Conf.Application.Security.Issuer,
		AccessTTL:  time.Duration(config.Conf.Application.Security.TokenValidityInSeconds) * time.Second,
		RefreshTTL: time.Duration(config.Conf.Application.Security.TokenValidityInSecondsForRememberMe) * time.Second,
		DB:         s.dbConnection,
		Settings:   s.settingsRepository,
		Users:      s.userRepository,
		Redis:      s.redisService,
		Logger:     s.logger,
	}
	s.verifier = services.NewWebAuthnVerifier(s.webAuthn, s.logger)
	s.eventPublisher = services.NewKafkaEventPublisher()
	s.passkeyService = services.NewPasskeyService(s.webAuthn, s.verifier, s.dbConnection, s.userRepository, s.passkeyRepository, s.redisService, s.jwtService, s.eventPublisher, s.logger)
	s.credentialService = services.NewCredentialService(s.dbConnection, s.passkeyRepository, s.redisService, s.eventPublisher, s.logger)

	// NOTE: Controllers Injections
	s.passkeyController = controller.NewPasskeyController(s.passkeyService, s.jwtService)
	s.credentialController = controller.NewCredentialController(s.credentialService)
}

// NOTE: Graceful shutdown operation
func (s *service) gracefulShutdown(app *fiber.App) {

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// NOTE:Server Shutdown when keep signal
	<-sigChan
	log.Info("Shutting down server...")
	// NOTE: Creating context with timeout for graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// NOTE: Shutdown Fiber server
	if err := app.Shutdown(); err != nil {
		log.Error("error while shutting down app", err)
	}

	// NOTE: Shutdown Database connection
	done := make(chan bool)
	go func() {
		config.CloseDatabaseConnection(s.dbConnection)
		done <- true
	}()

	select {
	case <-ctx.Done():
		log.Error("timeout while shutting down database", ctx.Err())
	case <-done:
		log.Info("database is gracefully shutdown", ctx.Err())
	}
}
