package source

import "context"

// Candidate is a source-reported business record before dedup and
// canonicalization. It lives only inside one ingestion call.
type Candidate struct {
	ExternalID  string
	Name        string
	Address     string
	Category    string
	Phone       *string
	Email       *string
	Website     *string
	Latitude    *float64
	Longitude   *float64
	Rating      *float64
	ReviewCount *int
}

// Adapter wraps one external business-data provider behind a uniform search
// contract. Zero results are an empty slice; an error signals adapter failure
// so the pipeline can distinguish it from "no businesses found here".
type Adapter interface {
	Name() string
	Search(ctx context.Context, location, category string, radiusKm int) ([]Candidate, error)
}
