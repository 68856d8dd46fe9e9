package handlers

import (
	"errors"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	applog "bazaar/internal/log"
	"bazaar/internal/services"
	"bazaar/internal/validate"
)

type UserHandler struct {
	Users    *services.UserService
	MediaDir string
}

type createUserInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type updateUserInput struct {
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Bio       *string `json:"bio"`
	Country   *string `json:"country"`
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	views, err := h.Users.List()
	if err != nil {
		return err
	}
	return c.JSON(views)
}

func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFound(c)
	}
	view, err := h.Users.Get(id)
	if errors.Is(err, services.ErrNotFound) {
		return notFound(c)
	}
	if err != nil {
		return err
	}
	return c.JSON(view)
}

// Create registers an account. Only username and password are read
// from the payload; the password never appears in any response.
func (h *UserHandler) Create(c *fiber.Ctx) error {
	var in createUserInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}

	ve := validate.Errors{}
	username, ok := validate.Username(in.Username)
	if !ok {
		ve.Add("username", "must be between 1 and 150 characters")
	}
	if !validate.Password(in.Password) {
		ve.Add("password", "must be between 1 and 128 characters")
	}
	if ve.Any() {
		res := fieldErrs(c, ve)
		applog.Security(c, "validation.fail", map[string]any{"resource": "user"})
		return res
	}

	view, err := h.Users.Create(username, in.Password)
	if errors.Is(err, services.ErrUsernameTaken) {
		ve.Add("username", "a user with that username already exists")
		return fieldErrs(c, ve)
	}
	if err != nil {
		return err
	}
	res := c.Status(fiber.StatusCreated).JSON(view)
	applog.Audit(c, "user.create", map[string]any{"user": view.ID})
	return res
}

func (h *UserHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFound(c)
	}
	target, err := h.Users.Find(id)
	if errors.Is(err, services.ErrNotFound) {
		return notFound(c)
	}
	if err != nil {
		return err
	}
	if !canMutateUser(caller(c), target.ID) {
		res := forbidden(c)
		applog.Security(c, "access.denied.user", map[string]any{"target": target.ID})
		return res
	}

	ve := validate.Errors{}
	in, pic := parseUserUpdate(c, ve)
	if in.Email != nil {
		if *in.Email == "" {
			target.Email = ""
		} else if e, ok := validate.Email(*in.Email); ok {
			target.Email = e
		} else {
			ve.Add("email", "enter a valid email address")
		}
	}
	if in.FirstName != nil {
		target.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		target.LastName = *in.LastName
	}
	if in.Bio != nil {
		target.Bio = *in.Bio
	}
	if in.Country != nil {
		if *in.Country == "" {
			target.Country = ""
		} else if cc, ok := validate.Country(*in.Country); ok {
			target.Country = cc
		} else {
			ve.Add("country", "enter a valid ISO country code")
		}
	}
	if ve.Any() {
		res := fieldErrs(c, ve)
		applog.Security(c, "validation.fail", map[string]any{"resource": "user"})
		return res
	}

	if pic != nil {
		rel, err := h.saveProfilePic(c, pic)
		if err != nil {
			applog.Error(c, "user.profile_pic.save.fail", err, nil)
			return err
		}
		target.ProfilePic = rel
	}

	view, err := h.Users.Update(*target)
	if err != nil {
		return err
	}
	res := c.JSON(view)
	applog.Audit(c, "user.update", map[string]any{"user": target.ID})
	return res
}

func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFound(c)
	}
	target, err := h.Users.Find(id)
	if errors.Is(err, services.ErrNotFound) {
		return notFound(c)
	}
	if err != nil {
		return err
	}
	if !canMutateUser(caller(c), target.ID) {
		res := forbidden(c)
		applog.Security(c, "access.denied.user", map[string]any{"target": target.ID})
		return res
	}
	if err := h.Users.Delete(target.ID); err != nil {
		return err
	}
	res := c.SendStatus(fiber.StatusNoContent)
	applog.Audit(c, "user.delete", map[string]any{"user": target.ID})
	return res
}

func parseUserUpdate(c *fiber.Ctx, ve validate.Errors) (updateUserInput, *multipart.FileHeader) {
	var in updateUserInput
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		form, err := c.MultipartForm()
		if err != nil {
			ve.Add("body", "malformed request body")
			return in, nil
		}
		if v, ok := formValue(form, "email"); ok {
			in.Email = &v
		}
		if v, ok := formValue(form, "first_name"); ok {
			in.FirstName = &v
		}
		if v, ok := formValue(form, "last_name"); ok {
			in.LastName = &v
		}
		if v, ok := formValue(form, "bio"); ok {
			in.Bio = &v
		}
		if v, ok := formValue(form, "country"); ok {
			in.Country = &v
		}
		var pic *multipart.FileHeader
		if files := form.File["profile_pic"]; len(files) > 0 {
			pic = files[0]
		}
		return in, pic
	}
	if err := c.BodyParser(&in); err != nil {
		ve.Add("body", "malformed request body")
	}
	return in, nil
}

func (h *UserHandler) saveProfilePic(c *fiber.Ctx, fh *multipart.FileHeader) (string, error) {
	dir := filepath.Join(h.MediaDir, "profile_pic")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	name := uuid.NewString() + strings.ToLower(filepath.Ext(fh.Filename))
	if err := c.SaveFile(fh, filepath.Join(dir, name)); err != nil {
		return "", err
	}
	return "profile_pic/" + name, nil
}
