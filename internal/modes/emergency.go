package modes

import (
	"fmt"
	"io"
	"strings"

	"github.com/ahmetcoskunkizilkaya/nexo/internal/models"
	"github.com/ahmetcoskunkizilkaya/nexo/internal/validation"
	"github.com/ahmetcoskunkizilkaya/nexo/internal/views"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Emergency struct{}

type emergencyInput struct {
	BloodType         string                    `json:"blood_type" validate:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	Allergies         []string                  `json:"allergies" validate:"max=50,dive,max=200"`
	Medications       []string                  `json:"medications" validate:"max=50,dive,max=200"`
	Conditions        []string                  `json:"conditions" validate:"max=50,dive,max=200"`
	EmergencyContacts []models.EmergencyContact `json:"emergency_contacts" validate:"max=10,dive"`
	DoctorName        string                    `json:"doctor_name" validate:"max=255"`
	DoctorPhone       string                    `json:"doctor_phone" validate:"max=50"`
	Notes             string                    `json:"notes" validate:"max=2000"`
}

type emergencyView struct {
	Info *models.EmergencyInfo
}

func (Emergency) Key() models.TagMode { return models.ModeEmergency }
func (Emergency) Label() string       { return "Emergency Info" }
func (Emergency) Description() string {
	return "Medical details and contacts for first responders."
}

func (Emergency) Pick(tag *models.Tag) (any, bool) {
	if tag.EmergencyInfo == nil {
		return nil, false
	}
	return tag.EmergencyInfo, true
}

func (Emergency) Seed(in SeedInput) any {
	return &models.EmergencyInfo{TagID: in.TagID}
}

func (Emergency) Decode(tagID uuid.UUID, body []byte, v *validation.Validator) (any, error) {
	var in emergencyInput
	if err := decodeInto(body, &in, v); err != nil {
		return nil, err
	}
	contacts := in.EmergencyContacts
	if contacts == nil {
		contacts = []models.EmergencyContact{}
	}
	return &models.EmergencyInfo{
		TagID:             tagID,
		BloodType:         in.BloodType,
		Allergies:         stringSet(in.Allergies),
		Medications:       stringSet(in.Medications),
		Conditions:        stringSet(in.Conditions),
		EmergencyContacts: datatypes.JSONSlice[models.EmergencyContact](contacts),
		DoctorName:        in.DoctorName,
		DoctorPhone:       in.DoctorPhone,
		Notes:             in.Notes,
	}, nil
}

func (Emergency) Columns() []string {
	return []string{"blood_type", "allergies", "medications", "conditions", "emergency_contacts", "doctor_name", "doctor_phone", "notes", "updated_at"}
}

func (Emergency) Demo() any {
	return &models.EmergencyInfo{
		BloodType:   "O+",
		Allergies:   datatypes.JSONSlice[string]{"Peanuts", "Penicillin"},
		Medications: datatypes.JSONSlice[string]{"Ibuprofen"},
		Conditions:  datatypes.JSONSlice[string]{"Asthma"},
		EmergencyContacts: datatypes.JSONSlice[models.EmergencyContact]{
			{Name: "Sam Rivera", Phone: "555-0101", Relationship: "Partner"},
		},
		DoctorName:  "Dr. Smith",
		DoctorPhone: "555-0200",
		Notes:       "Carries an inhaler in the left jacket pocket.",
	}
}

func (m Emergency) Render(w io.Writer, page Page) error {
	info, ok := page.Data.(*models.EmergencyInfo)
	if !ok {
		return fmt.Errorf("emergency: unexpected data %T", page.Data)
	}
	vp := page.view(m.Label(), emergencyView{Info: info})
	vp.BodyClass = "emergency"
	return views.Render(w, "emergency", vp)
}

// stringSet trims entries and drops blanks and case-insensitive repeats,
// keeping first-seen order.
func stringSet(in []string) datatypes.JSONSlice[string] {
	out := make(datatypes.JSONSlice[string], 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}
