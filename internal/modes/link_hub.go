package modes

import (
	"fmt"
	"io"

	"github.com/ahmetcoskunkizilkaya/nexo/internal/models"
	"github.com/ahmetcoskunkizilkaya/nexo/internal/validation"
	"github.com/ahmetcoskunkizilkaya/nexo/internal/views"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type LinkHub struct{}

type linkHubInput struct {
	Title     string        `json:"title" validate:"max=255"`
	Bio       string        `json:"bio" validate:"max=1000"`
	AvatarURL string        `json:"avatar_url" validate:"omitempty,http_url,max=1024"`
	Links     []models.Link `json:"links" validate:"max=50,dive"`
}

type linkHubView struct {
	Hub *models.LinkHub
}

func (LinkHub) Key() models.TagMode { return models.ModeLinkHub }
func (LinkHub) Label() string       { return "Link Hub" }
func (LinkHub) Description() string {
	return "A single page with all your important links."
}

func (LinkHub) Pick(tag *models.Tag) (any, bool) {
	if tag.LinkHub == nil {
		return nil, false
	}
	return tag.LinkHub, true
}

func (LinkHub) Seed(in SeedInput) any {
	return &models.LinkHub{TagID: in.TagID, Title: "My Links", Links: datatypes.JSONSlice[models.Link]{}}
}

func (LinkHub) Decode(tagID uuid.UUID, body []byte, v *validation.Validator) (any, error) {
	var in linkHubInput
	if err := decodeInto(body, &in, v); err != nil {
		return nil, err
	}
	links := in.Links
	if links == nil {
		links = []models.Link{}
	}
	return &models.LinkHub{
		TagID:     tagID,
		Title:     in.Title,
		Bio:       in.Bio,
		AvatarURL: in.AvatarURL,
		Links:     datatypes.JSONSlice[models.Link](links),
	}, nil
}

func (LinkHub) Columns() []string {
	return []string{"title", "bio", "avatar_url", "links", "updated_at"}
}

func (LinkHub) Demo() any {
	return &models.LinkHub{
		Title: "Jamie's Links",
		Bio:   "Photographer and coffee enthusiast.",
		Links: datatypes.JSONSlice[models.Link]{
			{Title: "Portfolio", URL: "https://jamie.example"},
			{Title: "Instagram", URL: "https://instagram.com/jamie"},
			{Title: "Book a session", URL: "https://jamie.example/book"},
		},
	}
}

func (m LinkHub) Render(w io.Writer, page Page) error {
	hub, ok := page.Data.(*models.LinkHub)
	if !ok {
		return fmt.Errorf("link hub: unexpected data %T", page.Data)
	}
	return views.Render(w, "link_hub", page.view(m.Label(), linkHubView{Hub: hub}))
}
