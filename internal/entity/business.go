package entity

import "time"

// ContactStatus tracks how far outreach has progressed for a prospect.
type ContactStatus string

const (
	StatusNew           ContactStatus = "new"
	StatusContacted     ContactStatus = "contacted"
	StatusInterested    ContactStatus = "interested"
	StatusNotInterested ContactStatus = "not_interested"
)

// Valid reports whether the status is one of the known values.
func (s ContactStatus) Valid() bool {
	switch s {
	case StatusNew, StatusContacted, StatusInterested, StatusNotInterested:
		return true
	}
	return false
}

// Business categories use a small closed vocabulary; adapters map their
// native taxonomies onto these values.
const (
	CategoryRestaurant   = "Restaurant"
	CategoryRetail       = "Retail"
	CategoryBeauty       = "Beauty & Wellness"
	CategoryProfessional = "Professional Services"
	CategoryHealthcare   = "Healthcare"
	CategoryAutomotive   = "Automotive"
	CategoryHospitality  = "Hospitality"
	CategoryOther        = "Other"
)

// Business is a canonical prospect record. ID, ExternalID and CreatedAt are
// immutable after creation.
type Business struct {
	ID            int           `json:"id"`
	ExternalID    string        `json:"externalId"`
	Name          string        `json:"name"`
	Address       string        `json:"address"`
	Phone         *string       `json:"phone,omitempty"`
	Email         *string       `json:"email,omitempty"`
	Website       *string       `json:"website,omitempty"`
	HasWebsite    bool          `json:"hasWebsite"`
	Category      string        `json:"category"`
	Rating        *float64      `json:"rating,omitempty"`
	ReviewCount   *int          `json:"reviewCount,omitempty"`
	Latitude      *float64      `json:"latitude,omitempty"`
	Longitude     *float64      `json:"longitude,omitempty"`
	ContactStatus ContactStatus `json:"contactStatus"`
	Notes         *string       `json:"notes,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
}

// Stats aggregates prospect counts, recomputed from store contents per call.
type Stats struct {
	TotalSearched int `json:"totalSearched"`
	NoWebsite     int `json:"noWebsite"`
	Contacted     int `json:"contacted"`
	Interested    int `json:"interested"`
}
