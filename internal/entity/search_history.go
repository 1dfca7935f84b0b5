package entity

import "time"

// SearchHistory records one ingestion run. Entries are append-only.
type SearchHistory struct {
	ID             int       `json:"id"`
	Location       string    `json:"location"`
	Category       *string   `json:"category,omitempty"`
	Radius         int       `json:"radius"`
	ResultsCount   int       `json:"resultsCount"`
	NoWebsiteCount int       `json:"noWebsiteCount"`
	CreatedAt      time.Time `json:"createdAt"`
}
