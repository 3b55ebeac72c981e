package modes

import (
	"fmt"
	"html/template"
	"io"
	"strconv"
	"strings"

	"github.com/ahmetcoskunkizilkaya/nexo/internal/models"
	"github.com/ahmetcoskunkizilkaya/nexo/internal/qr"
	"github.com/ahmetcoskunkizilkaya/nexo/internal/validation"
	"github.com/ahmetcoskunkizilkaya/nexo/internal/views"
	"github.com/google/uuid"
)

type Wifi struct{}

type wifiInput struct {
	SSID     string              `json:"ssid" validate:"required,max=32"`
	Password string              `json:"password" validate:"max=63"`
	Security models.WifiSecurity `json:"security" validate:"required,oneof=WPA WPA2 WPA3 WEP nopass"`
	Hidden   bool                `json:"hidden"`
}

type wifiView struct {
	Config        *models.WifiConfig
	QRCode        template.URL
	ShowPassword  bool
	SecurityLabel string
}

func (Wifi) Key() models.TagMode { return models.ModeWifi }
func (Wifi) Label() string       { return "Wi-Fi" }
func (Wifi) Description() string {
	return "Let guests join your network without typing a password."
}

func (Wifi) Pick(tag *models.Tag) (any, bool) {
	if tag.WifiConfig == nil {
		return nil, false
	}
	return tag.WifiConfig, true
}

// Seed leaves the password empty so a fresh tag never advertises a
// placeholder credential.
func (Wifi) Seed(in SeedInput) any {
	return &models.WifiConfig{TagID: in.TagID, SSID: "My Network", Security: models.SecurityWPA2}
}

func (Wifi) Decode(tagID uuid.UUID, body []byte, v *validation.Validator) (any, error) {
	var in wifiInput
	if err := decodeInto(body, &in, v); err != nil {
		return nil, err
	}
	cfg := &models.WifiConfig{
		TagID:    tagID,
		SSID:     in.SSID,
		Password: in.Password,
		Security: in.Security,
		Hidden:   in.Hidden,
	}
	if cfg.Security == models.SecurityNoPass {
		cfg.Password = ""
	}
	return cfg, nil
}

func (Wifi) Columns() []string {
	return []string{"ssid", "password", "security", "hidden", "updated_at"}
}

func (Wifi) Demo() any {
	return &models.WifiConfig{SSID: "Cafe Guest", Password: "espresso2024", Security: models.SecurityWPA2}
}

func (m Wifi) Render(w io.Writer, page Page) error {
	cfg, ok := page.Data.(*models.WifiConfig)
	if !ok {
		return fmt.Errorf("wifi: unexpected data %T", page.Data)
	}
	uri, err := qr.DataURI(JoinString(cfg), 240)
	if err != nil {
		return fmt.Errorf("wifi: render qr: %w", err)
	}
	view := wifiView{
		Config:        cfg,
		QRCode:        template.URL(uri),
		ShowPassword:  cfg.Security != models.SecurityNoPass && cfg.Password != "",
		SecurityLabel: securityLabel(cfg.Security),
	}
	return views.Render(w, "wifi", page.view(m.Label(), view))
}

// JoinString encodes cfg in the WIFI: URI scheme understood by phone
// cameras, e.g. WIFI:T:WPA;S:home;P:secret;H:false;;
func JoinString(cfg *models.WifiConfig) string {
	var b strings.Builder
	b.WriteString("WIFI:")
	b.WriteString("T:" + string(cfg.Security) + ";")
	b.WriteString("S:" + escapeWifi(cfg.SSID) + ";")
	if cfg.Security != models.SecurityNoPass {
		b.WriteString("P:" + escapeWifi(cfg.Password) + ";")
	}
	b.WriteString("H:" + strconv.FormatBool(cfg.Hidden) + ";;")
	return b.String()
}

var wifiReplacer = strings.NewReplacer(`\`, `\\`, ";", `\;`, ",", `\,`, ":", `\:`)

func escapeWifi(s string) string {
	return wifiReplacer.Replace(s)
}

func securityLabel(s models.WifiSecurity) string {
	if s == models.SecurityNoPass {
		return "Open network"
	}
	return string(s)
}
