package handlers

import (
	"bytes"

	"github.com/ahmetcoskunkizilkaya/nexo/internal/dto"
	"github.com/ahmetcoskunkizilkaya/nexo/internal/models"
	"github.com/ahmetcoskunkizilkaya/nexo/internal/modes"
	"github.com/ahmetcoskunkizilkaya/nexo/internal/views"
	"github.com/gofiber/fiber/v2"
)

// PageHandler serves the static landing, auth and mode preview pages.
type PageHandler struct {
	registry *modes.Registry
}

func NewPageHandler(registry *modes.Registry) *PageHandler {
	return &PageHandler{registry: registry}
}

func (h *PageHandler) Home(c *fiber.Ctx) error {
	catalog := make([]dto.ModeOption, 0, len(h.registry.All()))
	for _, m := range h.registry.All() {
		catalog = append(catalog, dto.ModeOption{Key: m.Key(), Label: m.Label(), Description: m.Description()})
	}
	return render(c, fiber.StatusOK, "home", views.Page{Title: "Nexo · Smart NFC Tags", Data: catalog})
}

func (h *PageHandler) Login(c *fiber.Ctx) error {
	return render(c, fiber.StatusOK, "login", views.Page{Title: "Sign In · Nexo", NoIndex: true})
}

func (h *PageHandler) Signup(c *fiber.Ctx) error {
	return render(c, fiber.StatusOK, "signup", views.Page{Title: "Create Account · Nexo", NoIndex: true})
}

// Preview renders a mode's public page with demo data.
func (h *PageHandler) Preview(c *fiber.Ctx) error {
	mode, ok := h.registry.Lookup(models.TagMode(c.Params("mode")))
	if !ok {
		return render(c, fiber.StatusNotFound, "not_found", views.Page{Title: "Tag Not Found", NoIndex: true})
	}

	var buf bytes.Buffer
	if err := mode.Render(&buf, modes.Page{Data: mode.Demo(), Preview: true}); err != nil {
		return err
	}
	return html(c, fiber.StatusOK, buf.Bytes())
}
