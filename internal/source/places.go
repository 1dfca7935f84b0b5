package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/leadlift/webtracker/api/internal/entity"
)

const defaultMapsBaseURL = "https://maps.googleapis.com/maps/api"

// placeDetailFields limits the details request to what ingestion consumes.
const placeDetailFields = "place_id,name,formatted_address,formatted_phone_number,website,types,geometry,rating,user_ratings_total"

// maxPlacesResults caps per-search detail lookups to stay inside API quotas.
const maxPlacesResults = 20

// GooglePlacesAdapter queries the Google Maps geocoding and places endpoints.
// Active only when an API key is configured.
type GooglePlacesAdapter struct {
	client  *http.Client
	apiKey  string
	baseURL string
}

// NewGooglePlacesAdapter builds the adapter. A nil client falls back to a
// timeout-bounded default.
func NewGooglePlacesAdapter(client *http.Client, apiKey string) *GooglePlacesAdapter {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &GooglePlacesAdapter{client: client, apiKey: apiKey, baseURL: defaultMapsBaseURL}
}

var _ Adapter = (*GooglePlacesAdapter)(nil)

// Name identifies the adapter in pipeline logs.
func (a *GooglePlacesAdapter) Name() string { return "google_places" }

// WithBaseURL overrides the Maps API base URL. Used by tests.
func (a *GooglePlacesAdapter) WithBaseURL(baseURL string) *GooglePlacesAdapter {
	a.baseURL = baseURL
	return a
}

// googlePlaceTypes maps Google place types onto the closed category vocabulary.
var googlePlaceTypes = map[string]string{
	"restaurant":         entity.CategoryRestaurant,
	"food":               entity.CategoryRestaurant,
	"meal_takeaway":      entity.CategoryRestaurant,
	"cafe":               entity.CategoryRestaurant,
	"bakery":             entity.CategoryRestaurant,
	"bar":                entity.CategoryRestaurant,
	"store":              entity.CategoryRetail,
	"clothing_store":     entity.CategoryRetail,
	"shoe_store":         entity.CategoryRetail,
	"electronics_store":  entity.CategoryRetail,
	"furniture_store":    entity.CategoryRetail,
	"jewelry_store":      entity.CategoryRetail,
	"book_store":         entity.CategoryRetail,
	"beauty_salon":       entity.CategoryBeauty,
	"hair_care":          entity.CategoryBeauty,
	"spa":                entity.CategoryBeauty,
	"gym":                entity.CategoryBeauty,
	"dentist":            entity.CategoryHealthcare,
	"doctor":             entity.CategoryHealthcare,
	"hospital":           entity.CategoryHealthcare,
	"pharmacy":           entity.CategoryHealthcare,
	"veterinary_care":    entity.CategoryHealthcare,
	"lawyer":             entity.CategoryProfessional,
	"accounting":         entity.CategoryProfessional,
	"real_estate_agency": entity.CategoryProfessional,
	"insurance_agency":   entity.CategoryProfessional,
	"car_repair":         entity.CategoryAutomotive,
	"car_dealer":         entity.CategoryAutomotive,
	"gas_station":        entity.CategoryAutomotive,
	"lodging":            entity.CategoryHospitality,
	"travel_agency":      entity.CategoryHospitality,
}

type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

type nearbySearchResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		PlaceID string `json:"place_id"`
	} `json:"results"`
}

type placeDetailsResponse struct {
	Status string `json:"status"`
	Result struct {
		PlaceID              string   `json:"place_id"`
		Name                 string   `json:"name"`
		FormattedAddress     string   `json:"formatted_address"`
		FormattedPhoneNumber string   `json:"formatted_phone_number"`
		Website              string   `json:"website"`
		Types                []string `json:"types"`
		Geometry             struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
		Rating           float64 `json:"rating"`
		UserRatingsTotal int     `json:"user_ratings_total"`
	} `json:"result"`
}

// Search geocodes the location, searches nearby establishments and resolves
// per-place details. Individual detail failures skip that place only.
func (a *GooglePlacesAdapter) Search(ctx context.Context, location, category string, radiusKm int) ([]Candidate, error) {
	lat, lng, err := a.geocode(ctx, location)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("location", fmt.Sprintf("%f,%f", lat, lng))
	params.Set("radius", fmt.Sprintf("%d", radiusKm*1000))
	params.Set("type", "establishment")
	if category != "" {
		params.Set("keyword", category)
	}
	params.Set("key", a.apiKey)

	var search nearbySearchResponse
	if err := a.getJSON(ctx, a.baseURL+"/place/nearbysearch/json?"+params.Encode(), &search); err != nil {
		return nil, err
	}
	if search.Status != "OK" && search.Status != "ZERO_RESULTS" {
		return nil, fmt.Errorf("places search status %s: %s", search.Status, search.ErrorMessage)
	}

	results := search.Results
	if len(results) > maxPlacesResults {
		results = results[:maxPlacesResults]
	}

	candidates := make([]Candidate, 0, len(results))
	for _, result := range results {
		candidate, err := a.placeDetails(ctx, result.PlaceID)
		if err != nil {
			continue
		}
		candidates = append(candidates, *candidate)
	}
	return candidates, nil
}

func (a *GooglePlacesAdapter) geocode(ctx context.Context, location string) (float64, float64, error) {
	params := url.Values{}
	params.Set("address", location)
	params.Set("key", a.apiKey)

	var resp geocodeResponse
	if err := a.getJSON(ctx, a.baseURL+"/geocode/json?"+params.Encode(), &resp); err != nil {
		return 0, 0, err
	}
	if resp.Status != "OK" || len(resp.Results) == 0 {
		return 0, 0, fmt.Errorf("could not geocode location %q: status %s", location, resp.Status)
	}
	loc := resp.Results[0].Geometry.Location
	return loc.Lat, loc.Lng, nil
}

func (a *GooglePlacesAdapter) placeDetails(ctx context.Context, placeID string) (*Candidate, error) {
	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", placeDetailFields)
	params.Set("key", a.apiKey)

	var resp placeDetailsResponse
	if err := a.getJSON(ctx, a.baseURL+"/place/details/json?"+params.Encode(), &resp); err != nil {
		return nil, err
	}
	if resp.Status != "OK" {
		return nil, fmt.Errorf("place details status %s", resp.Status)
	}

	detail := resp.Result
	candidate := Candidate{
		ExternalID: detail.PlaceID,
		Name:       detail.Name,
		Address:    detail.FormattedAddress,
		Category:   categorizeGooglePlace(detail.Types),
	}
	if detail.FormattedPhoneNumber != "" {
		phone := detail.FormattedPhoneNumber
		candidate.Phone = &phone
	}
	if detail.Website != "" {
		website := detail.Website
		candidate.Website = &website
	}
	lat := detail.Geometry.Location.Lat
	lng := detail.Geometry.Location.Lng
	candidate.Latitude = &lat
	candidate.Longitude = &lng
	if detail.Rating > 0 {
		rating := detail.Rating
		candidate.Rating = &rating
	}
	if detail.UserRatingsTotal > 0 {
		reviews := detail.UserRatingsTotal
		candidate.ReviewCount = &reviews
	}
	return &candidate, nil
}

func (a *GooglePlacesAdapter) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("create places request: %w", err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("places request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("places request returned %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode places response: %w", err)
	}
	return nil
}

func categorizeGooglePlace(types []string) string {
	for _, t := range types {
		if category, ok := googlePlaceTypes[t]; ok {
			return category
		}
	}
	return entity.CategoryOther
}
