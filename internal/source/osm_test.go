package source

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newOSMServers(t *testing.T, overpassBody string) (*httptest.Server, *httptest.Server) {
	t.Helper()
	nominatim := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != osmUserAgent {
			t.Errorf("expected custom user agent, got %q", r.Header.Get("User-Agent"))
		}
		fmt.Fprint(w, `[{"lat":"0.3136","lon":"32.5811"}]`)
	}))
	overpass := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, overpassBody)
	}))
	return nominatim, overpass
}

func TestOSMSearch(t *testing.T) {
	body := `{"elements":[
		{"id":101,"lat":0.31,"lon":32.58,"tags":{"name":"Nile Cafe","amenity":"cafe","phone":"+256700111222","addr:housenumber":"5","addr:street":"River Rd","addr:city":"Kampala"}},
		{"id":102,"tags":{"name":"Fix It Garage","shop":"car_repair","website":"https://fixit.example","contact:email":"garage@fixit.example"},"center":{"lat":0.32,"lon":32.59}},
		{"id":103,"lat":0.33,"lon":32.60,"tags":{"amenity":"cafe"}}
	]}`
	nominatim, overpass := newOSMServers(t, body)
	defer nominatim.Close()
	defer overpass.Close()

	adapter := NewOSMAdapter(nominatim.Client()).WithBaseURLs(nominatim.URL, overpass.URL)
	candidates, err := adapter.Search(context.Background(), "Kampala", "restaurant", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Element 103 has no name tag and must be skipped.
	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(candidates))
	}

	cafe := candidates[0]
	if cafe.ExternalID != "osm-101" || cafe.Name != "Nile Cafe" {
		t.Fatalf("unexpected candidate: %+v", cafe)
	}
	if cafe.Address != "5 River Rd Kampala" {
		t.Fatalf("unexpected address: %s", cafe.Address)
	}
	if cafe.Category != "Restaurant" {
		t.Fatalf("expected Restaurant, got %s", cafe.Category)
	}
	if cafe.Phone == nil || *cafe.Phone != "+256700111222" {
		t.Fatalf("expected phone carried over")
	}

	garage := candidates[1]
	if garage.Address != "Address not specified" {
		t.Fatalf("expected fallback address, got %s", garage.Address)
	}
	if garage.Email == nil || *garage.Email != "garage@fixit.example" {
		t.Fatalf("expected contact:email fallback")
	}
	if garage.Latitude == nil || *garage.Latitude != 0.32 {
		t.Fatalf("expected center coordinates for ways, got %v", garage.Latitude)
	}
}

func TestOSMGeocodeNoResults(t *testing.T) {
	nominatim := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	}))
	defer nominatim.Close()

	adapter := NewOSMAdapter(nominatim.Client()).WithBaseURLs(nominatim.URL, nominatim.URL)
	if _, err := adapter.Search(context.Background(), "Nowhere", "", 5); err == nil {
		t.Fatalf("expected geocode failure to surface")
	}
}

func TestCategorizeOSM(t *testing.T) {
	cases := map[string]struct {
		tags map[string]string
		want string
	}{
		"cafe":        {tags: map[string]string{"amenity": "cafe"}, want: "Restaurant"},
		"hairdresser": {tags: map[string]string{"shop": "hairdresser"}, want: "Beauty & Wellness"},
		"shop":        {tags: map[string]string{"shop": "bakery"}, want: "Retail"},
		"office":      {tags: map[string]string{"office": "lawyer"}, want: "Professional Services"},
		"unknown":     {tags: map[string]string{"amenity": "fountain"}, want: "Other"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if got := categorizeOSM(tc.tags); got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}
