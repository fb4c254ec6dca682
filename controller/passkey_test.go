package controller

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"passkey_auth_ms/dtos/request"
	"passkey_auth_ms/dtos/response"
	"passkey_auth_ms/middleware"

	"github.com/go-webauthn/webauthn/protocol"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

type stubPasskeyService struct {
	finishCalls int
	finishName  string
}

func (s *stubPasskeyService) RegisterStart(*request.StartPasskeyRegistrationRequest) (*protocol.CredentialCreation, error) {
	return &protocol.CredentialCreation{}, nil
}
func (s *stubPasskeyService) RegisterFinish(_ uint, deviceName string, _ *http.Request) error {
	s.finishCalls++
	s.finishName = deviceName
	return nil
}
func (s *stubPasskeyService) LoginStart(string) (*protocol.CredentialAssertion, error) {
	return &protocol.CredentialAssertion{}, nil
}
func (s *stubPasskeyService) LoginFinish(*http.Request) (*response.PasskeyLoginResponse, error) {
	return &response.PasskeyLoginResponse{}, nil
}

func newRegisterFinishApp(svc *stubPasskeyService) *fiber.App {
	middleware.InitValidator()
	ctrl := NewPasskeyController(svc, nil)

	app := fiber.New()
	app.Post("/register/finish", func(c *fiber.Ctx) error {
		c.Locals("userId", float64(1))
		return c.Next()
	}, ctrl.RegisterFinish)
	return app
}

// The device label rides in the query string, so it must pass the same rule
// as the rename body field before the ceremony runs.
func TestRegisterFinish_RejectsOversizedDeviceName(t *testing.T) {
	svc := &stubPasskeyService{}
	app := newRegisterFinishApp(svc)

	req := httptest.NewRequest(fiber.MethodPost, "/register/finish?device_name="+strings.Repeat("a", 65), nil)
	resp, err := app.Test(req)

	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, 0, svc.finishCalls, "invalid label must not reach the ceremony")
}

func TestRegisterFinish_PassesDeviceNameThrough(t *testing.T) {
	svc := &stubPasskeyService{}
	app := newRegisterFinishApp(svc)

	req := httptest.NewRequest(fiber.MethodPost, "/register/finish?device_name=YubiKey+5C", nil)
	resp, err := app.Test(req)

	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, svc.finishCalls)
	assert.Equal(t, "YubiKey 5C", svc.finishName)
}
