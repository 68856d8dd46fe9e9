package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "bazaar/internal/log"
	"bazaar/internal/services"
)

type AuthHandler struct {
	Auth *services.AuthService
}

type loginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in loginInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}

	token, u, err := h.Auth.Login(in.Username, in.Password)
	if err != nil {
		if errors.Is(err, services.ErrBadCreds) {
			res := errJSON(c, fiber.StatusUnauthorized, "invalid username or password")
			applog.Security(c, "auth.login.fail", map[string]any{"username": in.Username})
			return res
		}
		return err
	}

	res := c.JSON(fiber.Map{
		"token": token,
		"user":  services.CompactUser{ID: u.ID, Username: u.Username},
	})
	applog.Audit(c, "auth.login.success", map[string]any{"username": u.Username})
	return res
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.Auth.Logout(bearerToken(c)); err != nil {
		return err
	}
	res := c.SendStatus(fiber.StatusNoContent)
	applog.Audit(c, "auth.logout", nil)
	return res
}
