package main

import (
	"time"
	"passkey_auth_ms/config"
	"passkey_auth_ms/controller"
	"passkey_auth_ms/dtos/request"
	"passkey_auth_ms/middleware"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Server struct {
	PasskeyController    controller.IPasskeyController
	CredentialController controller.ICredentialController
	Logger               *zap.Logger
}

// NOTE: Server Constructor
func NewServer(
	PasskeyController controller.IPasskeyController,
	CredentialController controller.ICredentialController,
	Logger *zap.Logger,
) *Server {
	return &Server{
		PasskeyController:    PasskeyController,
		CredentialController: CredentialController,
		Logger:               Logger,
	}
}

// NOTE: Start Fiber Server
func (s *Server) Start() *fiber.App {
	// NOTE: Initialize Fiber Server
	app := fiber.New()

	app.Use(middleware.RecoveryMiddleware())
	app.Use(middleware.LoggingMiddleware(s.Logger))
	app.Use(middleware.GlobalRateLimiter())

	// NOTE: Define API paths (context path and grouping by version)
	contextPath := app.Group(config.Conf.Application.Server.ContextPath)
	apiVersion := contextPath.Group(config.Conf.Application.Server.ApiVersion)

	passkeyGroup := apiVersion.Group("/passkey")

	// Login endpoints are public and rate limited; a challenge costs a redis
	// write per call.
	passkeyGroup.Post("/login/start",
		middleware.RouteRateLimiter(10, 30*time.Second),
		middleware.ValidateBody[request.StartPasskeyLoginRequest](),
		s.PasskeyController.LoginStart)
	passkeyGroup.Post("/login/finish",
		middleware.RouteRateLimiter(10, 30*time.Second),
		s.PasskeyController.LoginFinish)

	apiVersion.Post("/token/refresh",
		middleware.RouteRateLimiter(10, 30*time.Second),
		middleware.ValidateBody[request.RefreshTokenRequest](),
		s.PasskeyController.Refresh)

	// Enrollment and credential management require an authenticated caller.
	passkeyGroup.Post("/register/start", middleware.AuthMiddleware(), s.PasskeyController.RegisterStart)
	passkeyGroup.Post("/register/finish", middleware.AuthMiddleware(), s.PasskeyController.RegisterFinish)

	credentialGroup := passkeyGroup.Group("/credentials", middleware.AuthMiddleware())
	credentialGroup.Get("/", s.CredentialController.List)
	credentialGroup.Patch("/:id",
		middleware.ValidateBody[request.RenameCredentialRequest](),
		s.CredentialController.Rename)
	credentialGroup.Delete("/:id", s.CredentialController.Delete)

	return app
}
