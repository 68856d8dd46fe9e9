package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "bazaar/internal/log"
	"bazaar/internal/services"
	"bazaar/internal/validate"
)

type CartHandler struct {
	Cart *services.CartService
}

// Add puts the item in the caller's cart. Idempotent: re-adding an
// item already present still answers 200.
func (h *CartHandler) Add(c *fiber.Ctx) error {
	u := caller(c)
	itemID, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFound(c)
	}

	view, err := h.Cart.Add(*u, itemID)
	if errors.Is(err, services.ErrNotFound) {
		return notFound(c)
	}
	if err != nil {
		return err
	}
	res := c.JSON(view)
	applog.Audit(c, "cart.add", map[string]any{"item": itemID})
	return res
}

// Remove takes the item out of the caller's cart. Idempotent: removing
// an absent item still answers 200.
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	u := caller(c)
	itemID, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFound(c)
	}

	view, err := h.Cart.Remove(*u, itemID)
	if errors.Is(err, services.ErrNotFound) {
		return notFound(c)
	}
	if err != nil {
		return err
	}
	res := c.JSON(view)
	applog.Audit(c, "cart.remove", map[string]any{"item": itemID})
	return res
}
