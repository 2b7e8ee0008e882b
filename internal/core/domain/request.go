package domain

import (
	"encoding/json"
	"errors"
	"time"
)

// StatusNew is the status assigned to every freshly created request.
// Status is free-form afterwards; no state machine constrains it.
const StatusNew = "new"

var ErrRequestNotFound = errors.New("request not found")
var ErrForbidden = errors.New("access forbidden")
var ErrValidation = errors.New("validation failed")

// ClientInfo is the private client sub-record of a request. It is shown only
// to the owning manager and to admins.
type ClientInfo struct {
	Name    string `json:"name" bson:"name"`
	Company string `json:"company" bson:"company"`
	Contact string `json:"contact" bson:"contact"`
}

// ServiceItem is one parsed line of the services field. Desc and Price are
// optional; Name is present on every item the parser emits.
type ServiceItem struct {
	Name  string `json:"name" bson:"name"`
	Desc  string `json:"desc,omitempty" bson:"desc,omitempty"`
	Price string `json:"price,omitempty" bson:"price,omitempty"`
}

// SiteSpec is the site sub-record of a request: a documented set of optional
// fields plus an open remainder. Unknown keys written through Patch land in
// Extra and survive storage round-trips (bson inline) and export (merged by
// MarshalJSON), so forward-compatible payloads are never rejected.
type SiteSpec struct {
	Company      string        `json:"company,omitempty" bson:"company,omitempty"`
	BusinessType string        `json:"business_type,omitempty" bson:"business_type,omitempty"`
	ColorPalette string        `json:"color_palette,omitempty" bson:"color_palette,omitempty"`
	SiteContacts string        `json:"site_contacts,omitempty" bson:"site_contacts,omitempty"`
	ShortDesc    string        `json:"short_desc,omitempty" bson:"short_desc,omitempty"`
	WorkHours    string        `json:"work_hours,omitempty" bson:"work_hours,omitempty"`
	Structure    []string      `json:"structure,omitempty" bson:"structure,omitempty"`
	Images       string        `json:"images,omitempty" bson:"images,omitempty"`
	Services     []ServiceItem `json:"services,omitempty" bson:"services,omitempty"`

	Extra map[string]string `json:"-" bson:",inline"`
}

// Patch applies a single named edit. The two list-valued fields are re-parsed
// from raw text; every other known field is overwritten verbatim; unknown
// field names are stored verbatim under Extra.
func (s *SiteSpec) Patch(field, raw string) {
	switch field {
	case "structure":
		s.Structure = SplitSections(raw)
	case "services":
		s.Services = ParseServiceLines(raw)
	case "company":
		s.Company = raw
	case "business_type":
		s.BusinessType = raw
	case "color_palette":
		s.ColorPalette = raw
	case "site_contacts":
		s.SiteContacts = raw
	case "short_desc":
		s.ShortDesc = raw
	case "work_hours":
		s.WorkHours = raw
	case "images":
		s.Images = raw
	default:
		if s.Extra == nil {
			s.Extra = make(map[string]string)
		}
		s.Extra[field] = raw
	}
}

// MarshalJSON folds Extra back into the object so the exported site payload
// carries unknown keys alongside the documented ones. Documented keys win on
// collision.
func (s SiteSpec) MarshalJSON() ([]byte, error) {
	type plain SiteSpec
	b, err := json.Marshal(plain(s))
	if err != nil {
		return nil, err
	}
	if len(s.Extra) == 0 {
		return b, nil
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	for k, v := range s.Extra {
		if _, taken := m[k]; !taken {
			m[k] = v
		}
	}
	return json.Marshal(m)
}

// EditableField pairs a site field name with the label shown in the edit menu.
type EditableField struct {
	Name  string
	Title string
}

// EditableFields is the documented set of fields reachable from the edit
// menu, in display order. Patch itself accepts any field name.
var EditableFields = []EditableField{
	{"company", "Company name"},
	{"business_type", "Business type"},
	{"color_palette", "Color palette"},
	{"site_contacts", "Site contacts"},
	{"short_desc", "Short description"},
	{"work_hours", "Working hours"},
	{"structure", "Structure (comma separated)"},
	{"images", "Images (description)"},
	{"services", "Services (name — desc — price per line)"},
}

// Request is the aggregate collected by the intake form. It is owned by
// exactly one manager and mutated only field-by-field through SiteSpec.Patch.
type Request struct {
	ID        string     `json:"id" bson:"_id,omitempty"`
	ManagerID string     `json:"manager_id" bson:"manager_id"`
	Client    ClientInfo `json:"client" bson:"client"`
	Site      SiteSpec   `json:"site" bson:"site"`
	Status    string     `json:"status" bson:"status"`
	CreatedAt time.Time  `json:"created_at" bson:"created_at"`
}
