package source

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"strings"

	"github.com/leadlift/webtracker/api/internal/entity"
)

// sampleNames holds per-category name stems used by the generator.
var sampleNames = map[string][]string{
	"restaurant": {
		"Local Kitchen", "Family Restaurant", "Corner Cafe", "Traditional Cuisine", "Quick Bites",
		"Home Style Food", "Community Diner", "Fresh Food Joint", "Local Flavors", "Neighborhood Grill",
	},
	"retail": {
		"Local Shop", "General Store", "Fashion Boutique", "Electronics Store", "Gift Shop",
		"Convenience Store", "Local Market", "Accessories Shop", "Phone Repair", "Computer Store",
	},
	"beauty": {
		"Beauty Salon", "Hair Studio", "Nail Care", "Barber Shop", "Spa Services",
		"Ladies Salon", "Gents Salon", "Beauty Center", "Hair & Beauty", "Wellness Spa",
	},
	"professional": {
		"Law Office", "Accounting Services", "Real Estate Agency", "Insurance Services", "Consulting Firm",
		"Tax Services", "Legal Aid", "Business Services", "Financial Advisory", "Property Management",
	},
	"automotive": {
		"Auto Repair", "Car Service", "Tire Shop", "Mechanic Workshop", "Car Wash",
		"Auto Parts", "Vehicle Service", "Garage Services", "Car Care Center", "Motor Services",
	},
}

var sampleCategories = map[string]string{
	"restaurant":   entity.CategoryRestaurant,
	"retail":       entity.CategoryRetail,
	"beauty":       entity.CategoryBeauty,
	"professional": entity.CategoryProfessional,
	"automotive":   entity.CategoryAutomotive,
}

var (
	sampleStreetNames    = []string{"Main", "Market", "Church", "High", "Park", "Station", "Victoria", "Commercial", "Industrial", "Central"}
	sampleStreetSuffixes = []string{"Street", "Road", "Avenue", "Drive", "Lane", "Close", "Way"}
	samplePhonePrefixes  = []string{"+256 70", "+256 75", "+256 77", "+256 78", "+256 79"}
)

const sampleResultCount = 8

// SampleAdapter generates synthetic businesses for a location. It always
// succeeds, which guarantees the pipeline never hard-fails for a well-formed
// location. Output is deterministic per (location, category) so repeated
// searches ingest the same external ids.
type SampleAdapter struct{}

// NewSampleAdapter builds the synthetic generator.
func NewSampleAdapter() *SampleAdapter { return &SampleAdapter{} }

var _ Adapter = (*SampleAdapter)(nil)

// Name identifies the adapter in pipeline logs.
func (a *SampleAdapter) Name() string { return "sample" }

// Search produces a stable synthetic result set; roughly a third of the
// generated businesses carry a website.
func (a *SampleAdapter) Search(ctx context.Context, location, category string, radiusKm int) ([]Candidate, error) {
	key := strings.ToLower(category)
	names, ok := sampleNames[key]
	if !ok {
		key = "retail"
		names = sampleNames[key]
	}

	area := strings.TrimSpace(strings.Split(location, ",")[0])
	rng := rand.New(rand.NewSource(sampleSeed(location, key)))

	candidates := make([]Candidate, 0, sampleResultCount)
	for i, name := range names[:sampleResultCount] {
		street := sampleStreetNames[i%len(sampleStreetNames)]
		suffix := sampleStreetSuffixes[i%len(sampleStreetSuffixes)]
		hasWebsite := rng.Float64() > 0.7

		candidate := Candidate{
			ExternalID: fmt.Sprintf("local-%s-%d-%d", key, i, rng.Int63n(1_000_000)),
			Name:       fmt.Sprintf("%s %s", name, area),
			Address:    fmt.Sprintf("%d %s %s, %s", 10+i*5, street, suffix, location),
			Category:   sampleCategories[key],
		}

		phone := fmt.Sprintf("%s %d", samplePhonePrefixes[rng.Intn(len(samplePhonePrefixes))], 1_000_000+rng.Intn(9_000_000))
		candidate.Phone = &phone

		if hasWebsite {
			website := fmt.Sprintf("www.%s.com", strings.ReplaceAll(strings.ToLower(name), " ", ""))
			candidate.Website = &website
		}

		lat := 0.3136 + (rng.Float64()-0.5)*0.1
		lng := 32.5811 + (rng.Float64()-0.5)*0.1
		candidate.Latitude = &lat
		candidate.Longitude = &lng

		rating := float64(int((3.5+rng.Float64()*1.5)*10)) / 10
		candidate.Rating = &rating
		reviews := 10 + rng.Intn(200)
		candidate.ReviewCount = &reviews

		candidates = append(candidates, candidate)
	}
	return candidates, nil
}

func sampleSeed(location, category string) int64 {
	h := fnv.New64a()
	h.Write([]byte(strings.ToLower(strings.TrimSpace(location))))
	h.Write([]byte{0})
	h.Write([]byte(category))
	return int64(h.Sum64())
}
