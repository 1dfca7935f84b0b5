package dto

import "github.com/leadlift/webtracker/api/internal/entity"

// SearchRequest is the payload accepted by the search endpoint.
type SearchRequest struct {
	Location string `json:"location"`
	Radius   int    `json:"radius"`
	Category string `json:"category,omitempty"`
}

// SearchResult carries the ingestion outcome back to the caller. Businesses
// holds only the no-website subset; the counts cover the full canonical set.
type SearchResult struct {
	Businesses     []entity.Business `json:"businesses"`
	TotalFound     int               `json:"totalFound"`
	NoWebsiteCount int               `json:"noWebsiteCount"`
}
