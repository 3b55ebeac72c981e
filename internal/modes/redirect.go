package modes

import (
	"fmt"
	"io"
	"strings"

	"github.com/ahmetcoskunkizilkaya/nexo/internal/models"
	"github.com/ahmetcoskunkizilkaya/nexo/internal/validation"
	"github.com/ahmetcoskunkizilkaya/nexo/internal/views"
	"github.com/google/uuid"
)

type Redirect struct{}

type redirectInput struct {
	URL string `json:"url" validate:"required,http_url,max=2048"`
}

func (in *redirectInput) normalize() {
	in.URL = strings.TrimSpace(in.URL)
}

func (Redirect) Key() models.TagMode { return models.ModeRedirect }
func (Redirect) Label() string       { return "Redirect" }
func (Redirect) Description() string {
	return "Send visitors straight to any website."
}

// Pick treats a row with an empty URL the same as a missing row.
func (Redirect) Pick(tag *models.Tag) (any, bool) {
	if tag.CustomRedirect == nil || strings.TrimSpace(tag.CustomRedirect.URL) == "" {
		return nil, false
	}
	return tag.CustomRedirect, true
}

func (Redirect) Seed(in SeedInput) any {
	return &models.CustomRedirect{TagID: in.TagID, URL: "https://example.com"}
}

func (Redirect) Decode(tagID uuid.UUID, body []byte, v *validation.Validator) (any, error) {
	var in redirectInput
	if err := decodeInto(body, &in, v); err != nil {
		return nil, err
	}
	return &models.CustomRedirect{TagID: tagID, URL: in.URL}, nil
}

func (Redirect) Columns() []string {
	return []string{"url", "updated_at"}
}

func (Redirect) Demo() any {
	return &models.CustomRedirect{URL: "https://example.com"}
}

func (Redirect) Target(data any) string {
	if r, ok := data.(*models.CustomRedirect); ok {
		return r.URL
	}
	return ""
}

// Render only serves previews; live redirect tags answer with a 302.
func (m Redirect) Render(w io.Writer, page Page) error {
	if !page.Preview {
		return ErrNoPage
	}
	r, ok := page.Data.(*models.CustomRedirect)
	if !ok {
		return fmt.Errorf("redirect: unexpected data %T", page.Data)
	}
	return views.Render(w, "redirect", page.view(m.Label(), r))
}
