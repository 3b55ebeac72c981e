package handlers

import (
	"bytes"
	"errors"
	"mime"

	"github.com/ahmetcoskunkizilkaya/nexo/internal/models"
	"github.com/ahmetcoskunkizilkaya/nexo/internal/modes"
	"github.com/ahmetcoskunkizilkaya/nexo/internal/services"
	"github.com/ahmetcoskunkizilkaya/nexo/internal/views"
	"github.com/gofiber/fiber/v2"
)

// TagPageHandler answers public taps on /t/:code.
type TagPageHandler struct {
	resolver *services.ResolverService
}

func NewTagPageHandler(resolver *services.ResolverService) *TagPageHandler {
	return &TagPageHandler{resolver: resolver}
}

func (h *TagPageHandler) Resolve(c *fiber.Ctx) error {
	c.Set("X-Robots-Tag", "noindex, nofollow")
	code := c.Params("code")

	res, err := h.resolver.Resolve(c.UserContext(), code)
	if err != nil {
		if errors.Is(err, services.ErrTagNotFound) {
			return notFoundPage(c)
		}
		return err
	}

	switch {
	case res.NotConfigured:
		return render(c, fiber.StatusOK, "not_configured", views.Page{
			Title:   res.Mode.Label() + " Not Configured",
			NoIndex: true,
			Data:    res.Mode.Label(),
		})
	case res.RedirectURL != "":
		return c.Redirect(res.RedirectURL, fiber.StatusFound)
	}

	var buf bytes.Buffer
	if err := res.Mode.Render(&buf, modes.Page{Code: res.Tag.Code, Data: res.Data}); err != nil {
		return err
	}
	return html(c, fiber.StatusOK, buf.Bytes())
}

// VCard downloads the business card of a tag whose active mode is a
// configured business card. Downloads are not counted as taps.
func (h *TagPageHandler) VCard(c *fiber.Ctx) error {
	c.Set("X-Robots-Tag", "noindex, nofollow")

	tag, err := h.resolver.Lookup(c.UserContext(), c.Params("code"))
	if err != nil {
		return notFoundPage(c)
	}
	if tag.ActiveMode != models.ModeBusinessCard || tag.BusinessCard == nil {
		return notFoundPage(c)
	}

	c.Set(fiber.HeaderContentType, "text/vcard; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, mime.FormatMediaType("attachment", map[string]string{
		"filename": modes.VCardFilename(tag.BusinessCard),
	}))
	return c.SendString(modes.VCard(tag.BusinessCard))
}

func notFoundPage(c *fiber.Ctx) error {
	return render(c, fiber.StatusNotFound, "not_found", views.Page{Title: "Tag Not Found", NoIndex: true})
}
