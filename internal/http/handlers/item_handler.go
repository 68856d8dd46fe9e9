package handlers

import (
	"errors"
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	applog "bazaar/internal/log"
	"bazaar/internal/services"
	"bazaar/internal/validate"
)

type ItemHandler struct {
	Catalog  *services.CatalogService
	MediaDir string
}

// priceField tolerates both JSON strings and bare numbers.
type priceField string

func (p *priceField) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	*p = priceField(s)
	return nil
}

type itemInput struct {
	Name        *string     `json:"name"`
	Description *string     `json:"description"`
	Price       *priceField `json:"price"`
	Available   *bool       `json:"available"`
}

// parseItemInput reads a listing payload from either a JSON body or a
// multipart form (the latter may carry inline photo uploads). Any
// seller field in the payload is ignored; the seller is the caller.
func parseItemInput(c *fiber.Ctx, ve validate.Errors) (itemInput, []*multipart.FileHeader) {
	var in itemInput
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		form, err := c.MultipartForm()
		if err != nil {
			ve.Add("body", "malformed request body")
			return in, nil
		}
		if v, ok := formValue(form, "name"); ok {
			in.Name = &v
		}
		if v, ok := formValue(form, "description"); ok {
			in.Description = &v
		}
		if v, ok := formValue(form, "price"); ok {
			p := priceField(v)
			in.Price = &p
		}
		if v, ok := formValue(form, "available"); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				ve.Add("available", "must be a boolean")
			} else {
				in.Available = &b
			}
		}
		return in, form.File["photos"]
	}
	if err := c.BodyParser(&in); err != nil {
		ve.Add("body", "malformed request body")
	}
	return in, nil
}

func formValue(form *multipart.Form, key string) (string, bool) {
	vals := form.Value[key]
	if len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}

// savePhotos writes uploaded files under the media dir and returns
// their media-relative paths.
func savePhotos(c *fiber.Ctx, mediaDir string, files []*multipart.FileHeader) ([]string, error) {
	if len(files) == 0 {
		return nil, nil
	}
	dir := filepath.Join(mediaDir, "item_photos")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(files))
	for _, fh := range files {
		name := uuid.NewString() + strings.ToLower(filepath.Ext(fh.Filename))
		if err := c.SaveFile(fh, filepath.Join(dir, name)); err != nil {
			return nil, err
		}
		out = append(out, "item_photos/"+name)
	}
	return out, nil
}

func (h *ItemHandler) List(c *fiber.Ctx) error {
	views, err := h.Catalog.ListItems()
	if err != nil {
		return err
	}
	return c.JSON(views)
}

func (h *ItemHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFound(c)
	}
	view, err := h.Catalog.GetItem(id)
	if errors.Is(err, services.ErrNotFound) {
		return notFound(c)
	}
	if err != nil {
		return err
	}
	return c.JSON(view)
}

func (h *ItemHandler) Create(c *fiber.Ctx) error {
	u := caller(c)

	ve := validate.Errors{}
	in, files := parseItemInput(c, ve)

	var name, description string
	var price decimal.Decimal
	if in.Name == nil {
		ve.Add("name", "this field is required")
	} else if n, ok := validate.ItemName(*in.Name); !ok {
		ve.Add("name", "must be between 1 and 150 characters")
	} else {
		name = n
	}
	if in.Description == nil || strings.TrimSpace(*in.Description) == "" {
		ve.Add("description", "this field is required")
	} else {
		description = *in.Description
	}
	if in.Price == nil {
		ve.Add("price", "this field is required")
	} else if p, ok := validate.Price(string(*in.Price)); !ok {
		ve.Add("price", "must be a decimal of at least 0.1 with at most 2 decimal places")
	} else {
		price = p
	}
	available := true
	if in.Available != nil {
		available = *in.Available
	}
	if ve.Any() {
		res := fieldErrs(c, ve)
		applog.Security(c, "validation.fail", map[string]any{"resource": "item"})
		return res
	}

	photos, err := savePhotos(c, h.MediaDir, files)
	if err != nil {
		applog.Error(c, "item.photo.save.fail", err, nil)
		return err
	}

	view, err := h.Catalog.CreateItem(*u, name, description, price, available, photos)
	if err != nil {
		return err
	}
	res := c.Status(fiber.StatusCreated).JSON(view)
	applog.Audit(c, "item.create", map[string]any{"item": view.ID})
	return res
}

func (h *ItemHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFound(c)
	}
	it, err := h.Catalog.Find(id)
	if errors.Is(err, services.ErrNotFound) {
		return notFound(c)
	}
	if err != nil {
		return err
	}
	if !canMutateItem(caller(c), it) {
		res := forbidden(c)
		applog.Security(c, "access.denied.item", map[string]any{"item": it.ID})
		return res
	}

	ve := validate.Errors{}
	in, files := parseItemInput(c, ve)
	if in.Name != nil {
		if n, ok := validate.ItemName(*in.Name); ok {
			it.Name = n
		} else {
			ve.Add("name", "must be between 1 and 150 characters")
		}
	}
	if in.Description != nil {
		if strings.TrimSpace(*in.Description) == "" {
			ve.Add("description", "may not be blank")
		} else {
			it.Description = *in.Description
		}
	}
	if in.Price != nil {
		if p, ok := validate.Price(string(*in.Price)); ok {
			it.Price = p
		} else {
			ve.Add("price", "must be a decimal of at least 0.1 with at most 2 decimal places")
		}
	}
	if in.Available != nil {
		it.Available = *in.Available
	}
	if ve.Any() {
		res := fieldErrs(c, ve)
		applog.Security(c, "validation.fail", map[string]any{"resource": "item"})
		return res
	}

	photos, err := savePhotos(c, h.MediaDir, files)
	if err != nil {
		applog.Error(c, "item.photo.save.fail", err, nil)
		return err
	}

	view, err := h.Catalog.UpdateItem(it, photos)
	if err != nil {
		return err
	}
	res := c.JSON(view)
	applog.Audit(c, "item.update", map[string]any{"item": it.ID})
	return res
}

func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFound(c)
	}
	it, err := h.Catalog.Find(id)
	if errors.Is(err, services.ErrNotFound) {
		return notFound(c)
	}
	if err != nil {
		return err
	}
	if !canMutateItem(caller(c), it) {
		res := forbidden(c)
		applog.Security(c, "access.denied.item", map[string]any{"item": it.ID})
		return res
	}
	if err := h.Catalog.DeleteItem(it.ID); err != nil {
		return err
	}
	res := c.SendStatus(fiber.StatusNoContent)
	applog.Audit(c, "item.delete", map[string]any{"item": it.ID})
	return res
}
