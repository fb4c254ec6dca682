package controller

import (
	"errors"
	"strconv"
	"passkey_auth_ms/domain"
	"passkey_auth_ms/dtos/request"
	"passkey_auth_ms/services"

	"github.com/gofiber/fiber/v2"
)

type ICredentialController interface {
	List(c *fiber.Ctx) error
	Rename(c *fiber.Ctx) error
	Delete(c *fiber.Ctx) error
}

type CredentialController struct {
	service services.ICredentialService
}

func NewCredentialController(service services.ICredentialService) ICredentialController {
	return &CredentialController{service: service}
}

func (cc *CredentialController) List(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid user id"})
	}

	summaries, err := cc.service.ListCredentials(userID)
	if err != nil {
		return ceremonyError(c, err)
	}
	return c.JSON(summaries)
}

func (cc *CredentialController) Rename(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid user id"})
	}
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid credential id"})
	}
	body, ok := c.Locals("body").(*request.RenameCredentialRequest)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := cc.service.RenameCredential(uint(id), userID, body.DeviceName); err != nil {
		return lifecycleError(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

func (cc *CredentialController) Delete(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid user id"})
	}
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid credential id"})
	}

	if err := cc.service.DeleteCredential(uint(id), userID); err != nil {
		return lifecycleError(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

// lifecycleError: outside a ceremony, a credential that is missing or owned
// by someone else is a plain 404 either way.
func lifecycleError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrCredentialNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return ceremonyError(c, err)
}
