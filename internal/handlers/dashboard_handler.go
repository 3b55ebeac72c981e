package handlers

import (
	"io"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/nexo/internal/config"
	"github.com/ahmetcoskunkizilkaya/nexo/internal/dto"
	"github.com/ahmetcoskunkizilkaya/nexo/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/nexo/internal/models"
	"github.com/ahmetcoskunkizilkaya/nexo/internal/qr"
	"github.com/ahmetcoskunkizilkaya/nexo/internal/services"
	"github.com/ahmetcoskunkizilkaya/nexo/internal/tagcode"
	"github.com/ahmetcoskunkizilkaya/nexo/internal/validation"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// DashboardHandler serves the owner-facing JSON API behind the session guard.
type DashboardHandler struct {
	tags      *services.TagService
	modes     *services.ModeService
	analytics *services.AnalyticsService
	profiles  *services.ProfileService
	avatars   *services.AvatarService
	validator *validation.Validator
	cfg       *config.Config
}

func NewDashboardHandler(
	tags *services.TagService,
	modes *services.ModeService,
	analytics *services.AnalyticsService,
	profiles *services.ProfileService,
	avatars *services.AvatarService,
	validator *validation.Validator,
	cfg *config.Config,
) *DashboardHandler {
	return &DashboardHandler{
		tags:      tags,
		modes:     modes,
		analytics: analytics,
		profiles:  profiles,
		avatars:   avatars,
		validator: validator,
		cfg:       cfg,
	}
}

func (h *DashboardHandler) Home(c *fiber.Ctx) error {
	userID, err := sessionUser(c)
	if err != nil {
		return err
	}

	profile, err := h.profiles.Get(c.UserContext(), userID)
	if err != nil {
		return serviceError(c, err)
	}
	// A failed read shows the empty state rather than an error.
	tags, err := h.tags.List(c.UserContext(), userID, services.NewestFirst)
	if err != nil {
		slog.Error("dashboard: list tags failed", "action", "dashboard_list", "user_id", userID.String(), "error", err)
		tags = nil
	}

	out := dto.DashboardResponse{Profile: *profile, Tags: make([]dto.TagResponse, 0, len(tags))}
	for i := range tags {
		out.Tags = append(out.Tags, h.tagResponse(&tags[i]))
	}
	return c.JSON(out)
}

func (h *DashboardHandler) NewTagOptions(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"modes": h.tags.Catalog()})
}

func (h *DashboardHandler) CreateTag(c *fiber.Ctx) error {
	userID, err := sessionUser(c)
	if err != nil {
		return err
	}

	var req dto.CreateTagRequest
	if err := parseBody(c, h.validator, &req); err != nil {
		return serviceError(c, err)
	}

	tag, err := h.tags.Create(c.UserContext(), userID, &req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(h.tagResponse(tag))
}

func (h *DashboardHandler) GetTag(c *fiber.Ctx) error {
	userID, tagID, err := h.ids(c)
	if err != nil {
		return err
	}

	tag, err := h.tags.Get(c.UserContext(), userID, tagID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(h.tagResponse(tag))
}

func (h *DashboardHandler) UpdateTag(c *fiber.Ctx) error {
	userID, tagID, err := h.ids(c)
	if err != nil {
		return err
	}

	var req dto.UpdateTagRequest
	if err := parseBody(c, h.validator, &req); err != nil {
		return serviceError(c, err)
	}

	tag, err := h.tags.Update(c.UserContext(), userID, tagID, &req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(h.tagResponse(tag))
}

func (h *DashboardHandler) DeleteTag(c *fiber.Ctx) error {
	userID, tagID, err := h.ids(c)
	if err != nil {
		return err
	}

	if err := h.tags.Delete(c.UserContext(), userID, tagID); err != nil {
		return serviceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SaveMode upserts the row for one mode from the editor's JSON body.
func (h *DashboardHandler) SaveMode(c *fiber.Ctx) error {
	userID, tagID, err := h.ids(c)
	if err != nil {
		return err
	}

	row, err := h.modes.Save(c.UserContext(), userID, tagID, models.TagMode(c.Params("mode")), c.Body())
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(row)
}

func (h *DashboardHandler) QRCode(c *fiber.Ctx) error {
	userID, tagID, err := h.ids(c)
	if err != nil {
		return err
	}

	tag, err := h.tags.Get(c.UserContext(), userID, tagID)
	if err != nil {
		return serviceError(c, err)
	}

	png, err := qr.PNG(tagcode.URL(h.cfg.AppDomain, tag.Code), c.QueryInt("size", qr.DefaultSize))
	if err != nil {
		return serviceError(c, err)
	}
	c.Set(fiber.HeaderContentType, "image/png")
	c.Set(fiber.HeaderCacheControl, "private, max-age=300")
	return c.Send(png)
}

func (h *DashboardHandler) UploadAvatar(c *fiber.Ctx) error {
	userID, tagID, err := h.ids(c)
	if err != nil {
		return err
	}

	header, err := c.FormFile("avatar")
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "avatar file is required")
	}
	f, err := header.Open()
	if err != nil {
		return serviceError(c, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return serviceError(c, err)
	}

	url, err := h.avatars.Upload(c.UserContext(), userID, tagID, data)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.AvatarResponse{URL: url})
}

func (h *DashboardHandler) DeleteAvatar(c *fiber.Ctx) error {
	userID, tagID, err := h.ids(c)
	if err != nil {
		return err
	}

	if err := h.avatars.Remove(c.UserContext(), userID, tagID, c.Query("url")); err != nil {
		return serviceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *DashboardHandler) TagAnalytics(c *fiber.Ctx) error {
	userID, tagID, err := h.ids(c)
	if err != nil {
		return err
	}

	out, err := h.analytics.ForTag(c.UserContext(), userID, tagID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(out)
}

func (h *DashboardHandler) Analytics(c *fiber.Ctx) error {
	userID, err := sessionUser(c)
	if err != nil {
		return err
	}
	return c.JSON(h.analytics.Overview(c.UserContext(), userID))
}

func (h *DashboardHandler) GetProfile(c *fiber.Ctx) error {
	userID, err := sessionUser(c)
	if err != nil {
		return err
	}

	profile, err := h.profiles.Get(c.UserContext(), userID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(profile)
}

func (h *DashboardHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, err := sessionUser(c)
	if err != nil {
		return err
	}

	var req dto.UpdateProfileRequest
	if err := parseBody(c, h.validator, &req); err != nil {
		return serviceError(c, err)
	}

	profile, err := h.profiles.Update(c.UserContext(), userID, &req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(profile)
}

// ids reads the session user and the :id tag parameter.
func (h *DashboardHandler) ids(c *fiber.Ctx) (uuid.UUID, uuid.UUID, error) {
	userID, err := sessionUser(c)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	tagID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, fiber.NewError(fiber.StatusNotFound, "Tag not found")
	}
	return userID, tagID, nil
}

func sessionUser(c *fiber.Ctx) (uuid.UUID, error) {
	userID, err := middleware.UserID(c)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	return userID, nil
}

func (h *DashboardHandler) tagResponse(tag *models.Tag) dto.TagResponse {
	return dto.TagResponse{Tag: tag, URL: tagcode.URL(h.cfg.AppDomain, tag.Code)}
}
