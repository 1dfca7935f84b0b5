package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/leadlift/webtracker/api/internal/entity"
)

const (
	defaultNominatimBaseURL = "https://nominatim.openstreetmap.org"
	defaultOverpassBaseURL  = "https://overpass-api.de/api/interpreter"
	osmUserAgent            = "webtracker-lead-finder/1.0"
	maxOSMResults           = 10
)

// OSMAdapter searches OpenStreetMap data: Nominatim geocodes the location,
// Overpass returns named amenities around it. No credentials required.
type OSMAdapter struct {
	client       *http.Client
	nominatimURL string
	overpassURL  string
}

// NewOSMAdapter builds the adapter. A nil client falls back to a
// timeout-bounded default.
func NewOSMAdapter(client *http.Client) *OSMAdapter {
	if client == nil {
		client = &http.Client{Timeout: 25 * time.Second}
	}
	return &OSMAdapter{
		client:       client,
		nominatimURL: defaultNominatimBaseURL,
		overpassURL:  defaultOverpassBaseURL,
	}
}

var _ Adapter = (*OSMAdapter)(nil)

// Name identifies the adapter in pipeline logs.
func (a *OSMAdapter) Name() string { return "openstreetmap" }

// WithBaseURLs overrides the upstream endpoints. Used by tests.
func (a *OSMAdapter) WithBaseURLs(nominatimURL, overpassURL string) *OSMAdapter {
	a.nominatimURL = nominatimURL
	a.overpassURL = overpassURL
	return a
}

// osmSelectors maps request categories onto Overpass tag selectors. Unmapped
// categories degrade to a generic amenity query.
var osmSelectors = map[string]string{
	"restaurant":   `"amenity"~"restaurant|cafe|fast_food"`,
	"retail":       `"shop"`,
	"beauty":       `"shop"~"beauty|hairdresser"`,
	"professional": `"office"`,
	"automotive":   `"shop"~"car_repair|car"`,
}

type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

type overpassResponse struct {
	Elements []struct {
		ID     int64             `json:"id"`
		Lat    float64           `json:"lat"`
		Lon    float64           `json:"lon"`
		Center *struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		} `json:"center"`
		Tags map[string]string `json:"tags"`
	} `json:"elements"`
}

// Search geocodes the location and queries Overpass for named businesses in
// the surrounding area.
func (a *OSMAdapter) Search(ctx context.Context, location, category string, radiusKm int) ([]Candidate, error) {
	lat, lon, err := a.geocode(ctx, location)
	if err != nil {
		return nil, err
	}

	selector, ok := osmSelectors[strings.ToLower(category)]
	if !ok {
		selector = `"amenity"`
	}

	radiusM := radiusKm * 1000
	if radiusM <= 0 {
		radiusM = 5000
	}
	query := fmt.Sprintf(`[out:json][timeout:25];
(
  node[%s]["name"](around:%d,%f,%f);
  way[%s]["name"](around:%d,%f,%f);
);
out center;`, selector, radiusM, lat, lon, selector, radiusM, lat, lon)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.overpassURL+"?data="+url.QueryEscape(query), nil)
	if err != nil {
		return nil, fmt.Errorf("create overpass request: %w", err)
	}
	req.Header.Set("User-Agent", osmUserAgent)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("overpass request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("overpass returned %d", resp.StatusCode)
	}

	var data overpassResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode overpass response: %w", err)
	}

	elements := data.Elements
	if len(elements) > maxOSMResults {
		elements = elements[:maxOSMResults]
	}

	candidates := make([]Candidate, 0, len(elements))
	for _, element := range elements {
		name := element.Tags["name"]
		if name == "" {
			continue
		}

		candidate := Candidate{
			ExternalID: fmt.Sprintf("osm-%d", element.ID),
			Name:       name,
			Address:    buildOSMAddress(element.Tags),
			Category:   categorizeOSM(element.Tags),
		}
		if phone := element.Tags["phone"]; phone != "" {
			candidate.Phone = &phone
		}
		if email := firstNonEmpty(element.Tags["email"], element.Tags["contact:email"]); email != "" {
			candidate.Email = &email
		}
		if website := element.Tags["website"]; website != "" {
			candidate.Website = &website
		}

		elLat, elLon := element.Lat, element.Lon
		if element.Center != nil {
			elLat, elLon = element.Center.Lat, element.Center.Lon
		}
		if elLat == 0 && elLon == 0 {
			elLat, elLon = lat, lon
		}
		candidate.Latitude = &elLat
		candidate.Longitude = &elLon

		candidates = append(candidates, candidate)
	}
	return candidates, nil
}

func (a *OSMAdapter) geocode(ctx context.Context, location string) (float64, float64, error) {
	params := url.Values{}
	params.Set("q", location)
	params.Set("format", "json")
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.nominatimURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return 0, 0, fmt.Errorf("create nominatim request: %w", err)
	}
	req.Header.Set("User-Agent", osmUserAgent)

	resp, err := a.client.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("nominatim request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return 0, 0, fmt.Errorf("nominatim returned %d", resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return 0, 0, fmt.Errorf("decode nominatim response: %w", err)
	}
	if len(results) == 0 {
		return 0, 0, fmt.Errorf("could not geocode location %q", location)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parse nominatim latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parse nominatim longitude: %w", err)
	}
	return lat, lon, nil
}

func buildOSMAddress(tags map[string]string) string {
	parts := make([]string, 0, 3)
	for _, key := range []string{"addr:housenumber", "addr:street", "addr:city"} {
		if value := tags[key]; value != "" {
			parts = append(parts, value)
		}
	}
	if len(parts) == 0 {
		return "Address not specified"
	}
	return strings.Join(parts, " ")
}

func categorizeOSM(tags map[string]string) string {
	if amenity := tags["amenity"]; amenity != "" {
		switch amenity {
		case "restaurant", "cafe", "fast_food":
			return entity.CategoryRestaurant
		case "bank":
			return entity.CategoryProfessional
		}
	}
	if shop := tags["shop"]; shop != "" {
		if shop == "beauty" || shop == "hairdresser" {
			return entity.CategoryBeauty
		}
		return entity.CategoryRetail
	}
	if tags["office"] != "" {
		return entity.CategoryProfessional
	}
	return entity.CategoryOther
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
