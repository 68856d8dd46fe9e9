package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "bazaar/internal/log"
	"bazaar/internal/services"
	"bazaar/internal/validate"
)

type ReviewHandler struct {
	Reviews *services.ReviewService
}

type reviewInput struct {
	Rate *int   `json:"rate"`
	Text string `json:"text"`
}

func parseReviewInput(c *fiber.Ctx, ve validate.Errors) (rate int, text string) {
	var in reviewInput
	if err := c.BodyParser(&in); err != nil {
		ve.Add("body", "malformed request body")
		return 0, ""
	}
	if in.Rate == nil {
		ve.Add("rate", "this field is required")
		return 0, in.Text
	}
	if !validate.Rate(*in.Rate) {
		ve.Add("rate", "must be between 0 and 10")
		return 0, in.Text
	}
	return *in.Rate, in.Text
}

func (h *ReviewHandler) Create(c *fiber.Ctx) error {
	u := caller(c)
	itemID, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFound(c)
	}

	ve := validate.Errors{}
	rate, text := parseReviewInput(c, ve)
	if ve.Any() {
		res := fieldErrs(c, ve)
		applog.Security(c, "validation.fail", map[string]any{"resource": "review"})
		return res
	}

	view, err := h.Reviews.Create(*u, itemID, rate, text)
	if errors.Is(err, services.ErrNotFound) {
		return notFound(c)
	}
	if err != nil {
		return err
	}
	res := c.Status(fiber.StatusCreated).JSON(view)
	applog.Audit(c, "review.create", map[string]any{"item": itemID, "review": view.ID})
	return res
}

func (h *ReviewHandler) Update(c *fiber.Ctx) error {
	itemID, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFound(c)
	}
	reviewID, ok := validate.ID(c.Params("rid"))
	if !ok {
		return notFound(c)
	}

	rv, err := h.Reviews.Find(itemID, reviewID)
	if errors.Is(err, services.ErrNotFound) {
		return notFound(c)
	}
	if err != nil {
		return err
	}
	if !canMutateReview(caller(c), rv) {
		res := forbidden(c)
		applog.Security(c, "access.denied.review", map[string]any{"review": rv.ID})
		return res
	}

	ve := validate.Errors{}
	rate, text := parseReviewInput(c, ve)
	if ve.Any() {
		res := fieldErrs(c, ve)
		applog.Security(c, "validation.fail", map[string]any{"resource": "review"})
		return res
	}

	view, err := h.Reviews.Update(rv.ID, rate, text)
	if err != nil {
		return err
	}
	res := c.JSON(view)
	applog.Audit(c, "review.update", map[string]any{"review": rv.ID})
	return res
}

func (h *ReviewHandler) Delete(c *fiber.Ctx) error {
	itemID, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFound(c)
	}
	reviewID, ok := validate.ID(c.Params("rid"))
	if !ok {
		return notFound(c)
	}

	rv, err := h.Reviews.Find(itemID, reviewID)
	if errors.Is(err, services.ErrNotFound) {
		return notFound(c)
	}
	if err != nil {
		return err
	}
	if !canMutateReview(caller(c), rv) {
		res := forbidden(c)
		applog.Security(c, "access.denied.review", map[string]any{"review": rv.ID})
		return res
	}

	if err := h.Reviews.Delete(rv.ID); err != nil {
		return err
	}
	res := c.SendStatus(fiber.StatusNoContent)
	applog.Audit(c, "review.delete", map[string]any{"review": rv.ID})
	return res
}
