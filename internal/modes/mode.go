// Package modes implements the five tag modes. Each mode knows how to pick
// its row off a loaded tag, seed a default row, decode editor payloads and
// render the public page.
package modes

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/ahmetcoskunkizilkaya/nexo/internal/models"
	"github.com/ahmetcoskunkizilkaya/nexo/internal/validation"
	"github.com/ahmetcoskunkizilkaya/nexo/internal/views"
	"github.com/google/uuid"
)

var ErrNoPage = errors.New("mode has no public page")

// Mode defines what every tag mode must implement.
type Mode interface {
	Key() models.TagMode
	Label() string
	Description() string

	// Pick returns the mode's row from a tag loaded with all mode
	// associations. configured is false when the visitor should see the
	// "not configured" page instead.
	Pick(tag *models.Tag) (data any, configured bool)

	// Seed builds the default row created alongside a new tag.
	Seed(in SeedInput) any

	// Decode parses and validates an editor payload into a row for tagID.
	Decode(tagID uuid.UUID, body []byte, v *validation.Validator) (any, error)

	// Columns lists the columns an editor save overwrites.
	Columns() []string

	// Demo returns sample data for the public preview pages.
	Demo() any

	Render(w io.Writer, page Page) error
}

// Redirector is implemented by modes that answer with a redirect instead of
// a page.
type Redirector interface {
	Target(data any) string
}

// SeedInput carries the account details used to prefill a new tag.
type SeedInput struct {
	TagID    uuid.UUID
	FullName string
	Email    string
}

// Page is what a public render needs besides the row itself.
type Page struct {
	Code    string
	Data    any
	Preview bool
}

func (p Page) title(label string) string {
	if p.Preview {
		return "Preview · " + label
	}
	return "Nexo Tag | " + p.Code
}

func (p Page) view(label string, data any) views.Page {
	return views.Page{Title: p.title(label), NoIndex: true, Data: data}
}

// Registry is the ordered set of known modes.
type Registry struct {
	modes []Mode
	byKey map[models.TagMode]Mode
}

func NewRegistry(modes ...Mode) *Registry {
	r := &Registry{byKey: make(map[models.TagMode]Mode, len(modes))}
	for _, m := range modes {
		r.modes = append(r.modes, m)
		r.byKey[m.Key()] = m
	}
	return r
}

// Default registers the five built-in modes in catalog order.
func Default() *Registry {
	return NewRegistry(
		BusinessCard{},
		Wifi{},
		LinkHub{},
		Emergency{},
		Redirect{},
	)
}

func (r *Registry) Lookup(key models.TagMode) (Mode, bool) {
	m, ok := r.byKey[key]
	return m, ok
}

func (r *Registry) All() []Mode {
	return r.modes
}

// normalizer is implemented by editor inputs that clean up values before
// they are validated.
type normalizer interface {
	normalize()
}

// decodeInto unmarshals body into dst, normalizes it and runs struct
// validation.
func decodeInto(body []byte, dst any, v *validation.Validator) error {
	if err := json.Unmarshal(body, dst); err != nil {
		return validation.NewError("body", fmt.Sprintf("invalid JSON: %v", err))
	}
	if n, ok := dst.(normalizer); ok {
		n.normalize()
	}
	return v.Struct(dst)
}
