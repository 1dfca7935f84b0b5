package dto

// BusinessFilter contains query parameters for prospect listing endpoints.
// Empty fields mean "no constraint"; set fields are AND-combined.
type BusinessFilter struct {
	ContactStatus string
	Category      string
	NoWebsiteOnly bool
}

// UpdateContactRequest is the payload for contact-status updates. Notes is a
// pointer so that an absent field leaves the stored notes untouched.
type UpdateContactRequest struct {
	ContactStatus     string  `json:"contactStatus"`
	Notes             *string `json:"notes,omitempty"`
	NotificationEmail string  `json:"notificationEmail,omitempty"`
}
