package controller

import (
	"errors"
	"net/http"
	"passkey_auth_ms/domain"
	"passkey_auth_ms/dtos/request"
	"passkey_auth_ms/middleware"
	"passkey_auth_ms/services"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

type IPasskeyController interface {
	RegisterStart(c *fiber.Ctx) error
	RegisterFinish(c *fiber.Ctx) error
	LoginStart(c *fiber.Ctx) error
	LoginFinish(c *fiber.Ctx) error
	Refresh(c *fiber.Ctx) error
}

type PasskeyController struct {
	service services.IPasskeyService
	jwt     services.IJWTService
}

func NewPasskeyController(service services.IPasskeyService, jwt services.IJWTService) IPasskeyController {
	return &PasskeyController{service: service, jwt: jwt}
}

func (pc *PasskeyController) RegisterStart(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid user id"})
	}

	options, err := pc.service.RegisterStart(&request.StartPasskeyRegistrationRequest{
		UserId: userID,
	})
	if err != nil {
		return ceremonyError(c, err)
	}
	return c.JSON(options)
}

func (pc *PasskeyController) RegisterFinish(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid user id"})
	}

	// The finish body is the raw attestation JSON, so the device label rides
	// in the query string and gets the same rule as the rename body field.
	deviceName := c.Query("device_name")
	if err := middleware.Validate.Var(deviceName, "omitempty,devicename"); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "device_name must be 1-64 printable characters"})
	}

	// Convert Fiber (fasthttp) request to *http.Request for the webauthn parser
	req := new(http.Request)
	if err := fasthttpadaptor.ConvertRequest(c.Context(), req, true); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to convert request"})
	}

	if err := pc.service.RegisterFinish(userID, deviceName, req); err != nil {
		return ceremonyError(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

func (pc *PasskeyController) LoginStart(c *fiber.Ctx) error {
	body, ok := c.Locals("body").(*request.StartPasskeyLoginRequest)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	options, err := pc.service.LoginStart(body.Email)
	if err != nil {
		return ceremonyError(c, err)
	}
	return c.JSON(options)
}

func (pc *PasskeyController) LoginFinish(c *fiber.Ctx) error {
	req := new(http.Request)
	if err := fasthttpadaptor.ConvertRequest(c.Context(), req, true); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to convert request"})
	}

	result, err := pc.service.LoginFinish(req)
	if err != nil {
		return ceremonyError(c, err)
	}
	return c.JSON(result)
}

func (pc *PasskeyController) Refresh(c *fiber.Ctx) error {
	body, ok := c.Locals("body").(*request.RefreshTokenRequest)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	tokens, err := pc.jwt.RefreshTokens(body.RefreshToken)
	if err != nil {
		return ceremonyError(c, err)
	}
	return c.JSON(tokens)
}

// ceremonyError maps the ceremony error taxonomy onto HTTP statuses without
// leaking which sub-check failed.
func ceremonyError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, domain.ErrNoCredentials):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, domain.ErrCredentialNotFound):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, domain.ErrSessionExpired):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, domain.ErrVerificationFailed):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, domain.ErrCredentialExists):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, domain.ErrAccountDisabled):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, domain.ErrTokenRejected):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}
}

// currentUserID reads the subject set by the auth middleware. JWT numeric
// claims arrive as float64.
func currentUserID(c *fiber.Ctx) (uint, error) {
	switch v := c.Locals("userId").(type) {
	case float64:
		return uint(v), nil
	case uint:
		return v, nil
	default:
		return 0, errors.New("missing user id")
	}
}
