package modes

import (
	"bytes"
	"errors"
	"testing"

	"github.com/ahmetcoskunkizilkaya/nexo/internal/models"
	"github.com/ahmetcoskunkizilkaya/nexo/internal/validation"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinString(t *testing.T) {
	cases := []struct {
		name string
		cfg  models.WifiConfig
		want string
	}{
		{"wpa", models.WifiConfig{SSID: "MyNetwork", Password: "secretpassword", Security: models.SecurityWPA}, "WIFI:T:WPA;S:MyNetwork;P:secretpassword;H:false;;"},
		{"wep", models.WifiConfig{SSID: "MyNetwork", Password: "secretpassword", Security: models.SecurityWEP}, "WIFI:T:WEP;S:MyNetwork;P:secretpassword;H:false;;"},
		{"nopass omits password", models.WifiConfig{SSID: "FreeWifi", Password: "ignored", Security: models.SecurityNoPass}, "WIFI:T:nopass;S:FreeWifi;H:false;;"},
		{"hidden", models.WifiConfig{SSID: "HiddenNet", Password: "pass", Security: models.SecurityWPA, Hidden: true}, "WIFI:T:WPA;S:HiddenNet;P:pass;H:true;;"},
		{"escapes", models.WifiConfig{SSID: `My;Network\Name`, Password: "pass:word,", Security: models.SecurityWPA}, `WIFI:T:WPA;S:My\;Network\\Name;P:pass\:word\,;H:false;;`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, JoinString(&tc.cfg))
		})
	}
}

func TestVCard(t *testing.T) {
	card := &models.BusinessCard{
		Name:    "John Doe",
		Title:   "Software Engineer",
		Company: "Tech; Corp",
		Email:   "john@example.com",
		Phone:   "+1234567890",
		Website: "https://example.com",
		Bio:     "Line one\nline two",
	}
	want := "BEGIN:VCARD\r\nVERSION:3.0\r\nFN:John Doe\r\nTITLE:Software Engineer\r\nORG:Tech\\; Corp\r\n" +
		"TEL:+1234567890\r\nEMAIL:john@example.com\r\nURL:https://example.com\r\nNOTE:Line one\\nline two\r\nEND:VCARD\r\n"
	assert.Equal(t, want, VCard(card))
	assert.Equal(t, "John Doe.vcf", VCardFilename(card))
	assert.Equal(t, "contact.vcf", VCardFilename(&models.BusinessCard{}))
}

func TestRegistry(t *testing.T) {
	r := Default()

	var keys []models.TagMode
	for _, m := range r.All() {
		keys = append(keys, m.Key())
	}
	assert.Equal(t, []models.TagMode{
		models.ModeBusinessCard, models.ModeWifi, models.ModeLinkHub, models.ModeEmergency, models.ModeRedirect,
	}, keys)

	m, ok := r.Lookup(models.ModeEmergency)
	require.True(t, ok)
	assert.Equal(t, "Emergency Info", m.Label())

	_, ok = r.Lookup("hologram")
	assert.False(t, ok)
}

func TestPick(t *testing.T) {
	tag := &models.Tag{}
	for _, m := range Default().All() {
		data, configured := m.Pick(tag)
		assert.False(t, configured, m.Key())
		assert.Nil(t, data, m.Key())
	}

	tag.CustomRedirect = &models.CustomRedirect{URL: "  "}
	_, configured := Redirect{}.Pick(tag)
	assert.False(t, configured)

	tag.CustomRedirect.URL = "https://example.org"
	data, configured := Redirect{}.Pick(tag)
	assert.True(t, configured)
	assert.Equal(t, "https://example.org", Redirect{}.Target(data))
}

func TestSeed(t *testing.T) {
	in := SeedInput{TagID: uuid.New(), Email: "me@example.com"}

	card := BusinessCard{}.Seed(in).(*models.BusinessCard)
	assert.Equal(t, "Your Name", card.Name)
	assert.Equal(t, "me@example.com", card.Email)
	assert.Equal(t, in.TagID, card.TagID)

	in.FullName = "Ada Lovelace"
	assert.Equal(t, "Ada Lovelace", BusinessCard{}.Seed(in).(*models.BusinessCard).Name)

	wifi := Wifi{}.Seed(in).(*models.WifiConfig)
	assert.Equal(t, "My Network", wifi.SSID)
	assert.Equal(t, models.SecurityWPA2, wifi.Security)
	assert.Empty(t, wifi.Password)

	assert.Equal(t, "My Links", LinkHub{}.Seed(in).(*models.LinkHub).Title)
	assert.Equal(t, "https://example.com", Redirect{}.Seed(in).(*models.CustomRedirect).URL)
}

func TestDecode(t *testing.T) {
	v := validation.New()
	tagID := uuid.New()

	t.Run("redirect requires http url", func(t *testing.T) {
		_, err := Redirect{}.Decode(tagID, []byte(`{"url":"javascript:alert(1)"}`), v)
		var verr *validation.Error
		require.True(t, errors.As(err, &verr))
		assert.Contains(t, verr.Fields, "url")

		row, err := Redirect{}.Decode(tagID, []byte(`{"url":" https://example.org "}`), v)
		require.NoError(t, err)
		assert.Equal(t, "https://example.org", row.(*models.CustomRedirect).URL)
		assert.Equal(t, tagID, row.(*models.CustomRedirect).TagID)
	})

	t.Run("wifi security and nopass", func(t *testing.T) {
		_, err := Wifi{}.Decode(tagID, []byte(`{"ssid":"Home","security":"WPA9"}`), v)
		assert.Error(t, err)

		row, err := Wifi{}.Decode(tagID, []byte(`{"ssid":"Open","password":"x","security":"nopass"}`), v)
		require.NoError(t, err)
		assert.Empty(t, row.(*models.WifiConfig).Password)
	})

	t.Run("link hub validates links", func(t *testing.T) {
		_, err := LinkHub{}.Decode(tagID, []byte(`{"title":"Me","links":[{"title":"","url":"nope"}]}`), v)
		var verr *validation.Error
		require.True(t, errors.As(err, &verr))
		assert.Contains(t, verr.Fields, "links[0].title")
		assert.Contains(t, verr.Fields, "links[0].url")
	})

	t.Run("emergency dedupes lists", func(t *testing.T) {
		row, err := Emergency{}.Decode(tagID, []byte(`{"blood_type":"O+","allergies":["Peanuts"," peanuts ","","Latex"]}`), v)
		require.NoError(t, err)
		info := row.(*models.EmergencyInfo)
		assert.Equal(t, []string{"Peanuts", "Latex"}, []string(info.Allergies))
		assert.Empty(t, info.Medications)
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := BusinessCard{}.Decode(tagID, []byte(`{`), v)
		var verr *validation.Error
		require.True(t, errors.As(err, &verr))
		assert.Contains(t, verr.Fields, "body")
	})
}

func TestRender(t *testing.T) {
	for _, m := range Default().All() {
		t.Run(string(m.Key()), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, m.Render(&buf, Page{Data: m.Demo(), Preview: true}))
			assert.Contains(t, buf.String(), `<meta name="robots" content="noindex">`)
		})
	}
}

func TestRender_BusinessCard(t *testing.T) {
	var buf bytes.Buffer
	card := &models.BusinessCard{Name: "John Doe", Title: "Engineer", Company: "Tech Corp"}
	require.NoError(t, BusinessCard{}.Render(&buf, Page{Code: "ABCD2345", Data: card}))

	html := buf.String()
	assert.Contains(t, html, "Nexo Tag | ABCD2345")
	assert.Contains(t, html, "John Doe")
	assert.Contains(t, html, "Engineer · Tech Corp")
	assert.Contains(t, html, "/t/ABCD2345/contact.vcf")
}

func TestRender_WifiEmbedsQR(t *testing.T) {
	var buf bytes.Buffer
	cfg := &models.WifiConfig{SSID: "Home", Password: "secret", Security: models.SecurityWPA2}
	require.NoError(t, Wifi{}.Render(&buf, Page{Code: "ABCD2345", Data: cfg}))
	assert.Contains(t, buf.String(), `src="data:image/png;base64,`)
	assert.Contains(t, buf.String(), "secret")
}

func TestRender_RedirectHasNoLivePage(t *testing.T) {
	var buf bytes.Buffer
	err := Redirect{}.Render(&buf, Page{Code: "ABCD2345", Data: &models.CustomRedirect{URL: "https://example.org"}})
	assert.ErrorIs(t, err, ErrNoPage)
}

func TestDecode_TrimsBeforeValidating(t *testing.T) {
	v := validation.New()
	tagID := uuid.New()

	_, err := BusinessCard{}.Decode(tagID, []byte(`{"name":"   "}`), v)
	var verr *validation.Error
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "name")

	row, err := BusinessCard{}.Decode(tagID, []byte(`{"name":" Ada ","website":" https://ada.example "}`), v)
	require.NoError(t, err)
	card := row.(*models.BusinessCard)
	assert.Equal(t, "Ada", card.Name)
	assert.Equal(t, "https://ada.example", card.Website)

	row, err = Redirect{}.Decode(tagID, []byte(`{"url":"\thttps://example.org/path \n"}`), v)
	require.NoError(t, err)
	assert.Equal(t, "https://example.org/path", row.(*models.CustomRedirect).URL)
}
