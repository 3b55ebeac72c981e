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

type BusinessCard struct{}

type businessCardInput struct {
	Name      string `json:"name" validate:"required,max=255"`
	Title     string `json:"title" validate:"max=255"`
	Company   string `json:"company" validate:"max=255"`
	Email     string `json:"email" validate:"omitempty,email,max=255"`
	Phone     string `json:"phone" validate:"max=50"`
	Website   string `json:"website" validate:"omitempty,http_url,max=1024"`
	LinkedIn  string `json:"linkedin" validate:"omitempty,http_url,max=1024"`
	Bio       string `json:"bio" validate:"max=2000"`
	AvatarURL string `json:"avatar_url" validate:"omitempty,http_url,max=1024"`
}

func (in *businessCardInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Website = strings.TrimSpace(in.Website)
	in.LinkedIn = strings.TrimSpace(in.LinkedIn)
}

type businessCardView struct {
	Card     *models.BusinessCard
	VCardURL string
}

func (BusinessCard) Key() models.TagMode { return models.ModeBusinessCard }
func (BusinessCard) Label() string       { return "Business Card" }
func (BusinessCard) Description() string {
	return "Share your contact details and let people save them in one tap."
}

func (BusinessCard) Pick(tag *models.Tag) (any, bool) {
	if tag.BusinessCard == nil {
		return nil, false
	}
	return tag.BusinessCard, true
}

func (BusinessCard) Seed(in SeedInput) any {
	name := strings.TrimSpace(in.FullName)
	if name == "" {
		name = "Your Name"
	}
	return &models.BusinessCard{TagID: in.TagID, Name: name, Email: in.Email}
}

func (BusinessCard) Decode(tagID uuid.UUID, body []byte, v *validation.Validator) (any, error) {
	var in businessCardInput
	if err := decodeInto(body, &in, v); err != nil {
		return nil, err
	}
	return &models.BusinessCard{
		TagID:     tagID,
		Name:      in.Name,
		Title:     in.Title,
		Company:   in.Company,
		Email:     in.Email,
		Phone:     in.Phone,
		Website:   in.Website,
		LinkedIn:  in.LinkedIn,
		Bio:       in.Bio,
		AvatarURL: in.AvatarURL,
	}, nil
}

func (BusinessCard) Columns() []string {
	return []string{"name", "title", "company", "email", "phone", "website", "linkedin", "bio", "avatar_url", "updated_at"}
}

func (BusinessCard) Demo() any {
	return &models.BusinessCard{
		Name:     "Alex Morgan",
		Title:    "Product Designer",
		Company:  "Studio North",
		Email:    "alex@studionorth.example",
		Phone:    "+1 555 0100",
		Website:  "https://studionorth.example",
		LinkedIn: "https://linkedin.com/in/alexmorgan",
		Bio:      "Designing calm software for busy people.",
	}
}

func (m BusinessCard) Render(w io.Writer, page Page) error {
	card, ok := page.Data.(*models.BusinessCard)
	if !ok {
		return fmt.Errorf("business card: unexpected data %T", page.Data)
	}
	view := businessCardView{Card: card}
	if !page.Preview {
		view.VCardURL = "/t/" + page.Code + "/contact.vcf"
	}
	return views.Render(w, "business_card", page.view(m.Label(), view))
}

// VCard renders the card as a vCard 3.0 document.
func VCard(card *models.BusinessCard) string {
	lines := []string{
		"BEGIN:VCARD",
		"VERSION:3.0",
		"FN:" + vcardEscape(card.Name),
		"TITLE:" + vcardEscape(card.Title),
		"ORG:" + vcardEscape(card.Company),
		"TEL:" + vcardEscape(card.Phone),
		"EMAIL:" + vcardEscape(card.Email),
		"URL:" + vcardEscape(card.Website),
		"NOTE:" + vcardEscape(card.Bio),
		"END:VCARD",
	}
	return strings.Join(lines, "\r\n") + "\r\n"
}

// VCardFilename is the download name offered for a card.
func VCardFilename(card *models.BusinessCard) string {
	name := strings.Map(func(r rune) rune {
		if r == '"' || r == '/' || r == '\\' || r < 0x20 {
			return -1
		}
		return r
	}, strings.TrimSpace(card.Name))
	if name == "" {
		name = "contact"
	}
	return name + ".vcf"
}

var vcardReplacer = strings.NewReplacer(`\`, `\\`, "\r\n", `\n`, "\n", `\n`, ",", `\,`, ";", `\;`)

func vcardEscape(s string) string {
	return vcardReplacer.Replace(s)
}
