package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/nyaruka/phonenumbers"
	"golang.org/x/net/idna"

	"github.com/leadlift/webtracker/api/internal/dto"
	"github.com/leadlift/webtracker/api/internal/entity"
	"github.com/leadlift/webtracker/api/internal/repository"
	"github.com/leadlift/webtracker/api/internal/source"
)

const defaultPhoneRegion = "UG"

// IngestService merges candidates from all configured source adapters into
// the canonical prospect list: concurrent fan-out, dedup, canonicalize
// against the store, rank no-website first, record search history.
type IngestService struct {
	adapters    []source.Adapter
	prospects   repository.ProspectRepository
	history     repository.SearchHistoryRepository
	phoneRegion string
}

// NewIngestService wires the pipeline. An empty phoneRegion falls back to the
// default market region.
func NewIngestService(adapters []source.Adapter, prospects repository.ProspectRepository, history repository.SearchHistoryRepository, phoneRegion string) *IngestService {
	region := strings.ToUpper(strings.TrimSpace(phoneRegion))
	if region == "" {
		region = defaultPhoneRegion
	}
	return &IngestService{
		adapters:    adapters,
		prospects:   prospects,
		history:     history,
		phoneRegion: region,
	}
}

// Ingest runs one search. Adapter failures are logged and contribute zero
// candidates; only store-level failures are fatal.
func (s *IngestService) Ingest(ctx context.Context, location, category string, radiusKm int) (*dto.SearchResult, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, errors.New("location must not be empty")
	}

	merged := s.collect(ctx, location, category, radiusKm)
	deduped := dedupCandidates(merged)

	canonical := make([]entity.Business, 0, len(deduped))
	for _, candidate := range deduped {
		business, err := s.canonicalize(ctx, candidate)
		if err != nil {
			return nil, err
		}
		canonical = append(canonical, *business)
	}

	// No-website entries first, insertion order preserved within each group.
	sort.SliceStable(canonical, func(i, j int) bool {
		return !canonical[i].HasWebsite && canonical[j].HasWebsite
	})

	noWebsite := make([]entity.Business, 0, len(canonical))
	for _, business := range canonical {
		if !business.HasWebsite {
			noWebsite = append(noWebsite, business)
		}
	}

	var categoryPtr *string
	if category != "" {
		categoryPtr = &category
	}
	if _, err := s.history.Create(ctx, repository.CreateSearchHistoryInput{
		Location:       location,
		Category:       categoryPtr,
		Radius:         radiusKm,
		ResultsCount:   len(canonical),
		NoWebsiteCount: len(noWebsite),
	}); err != nil {
		return nil, fmt.Errorf("record search history: %w", err)
	}

	return &dto.SearchResult{
		Businesses:     noWebsite,
		TotalFound:     len(canonical),
		NoWebsiteCount: len(noWebsite),
	}, nil
}

// collect invokes every adapter concurrently and concatenates the successful
// results in adapter order, then within-adapter order.
func (s *IngestService) collect(ctx context.Context, location, category string, radiusKm int) []source.Candidate {
	results := make([][]source.Candidate, len(s.adapters))

	var wg sync.WaitGroup
	for i, adapter := range s.adapters {
		wg.Add(1)
		go func(i int, adapter source.Adapter) {
			defer wg.Done()
			candidates, err := adapter.Search(ctx, location, category, radiusKm)
			if err != nil {
				log.Printf("source adapter %s failed: %v", adapter.Name(), err)
				return
			}
			results[i] = candidates
		}(i, adapter)
	}
	wg.Wait()

	var merged []source.Candidate
	for _, candidates := range results {
		merged = append(merged, candidates...)
	}
	return merged
}

type dedupKey struct {
	name    string
	address string
}

// dedupCandidates drops later candidates whose exact (name, address) pair was
// already seen. The key is deliberately not normalized.
func dedupCandidates(candidates []source.Candidate) []source.Candidate {
	seen := make(map[dedupKey]struct{}, len(candidates))
	unique := make([]source.Candidate, 0, len(candidates))
	for _, candidate := range candidates {
		key := dedupKey{name: candidate.Name, address: candidate.Address}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, candidate)
	}
	return unique
}

// canonicalize resolves a candidate against the store: an existing external
// id wins unchanged, otherwise a fresh prospect is created.
func (s *IngestService) canonicalize(ctx context.Context, candidate source.Candidate) (*entity.Business, error) {
	existing, err := s.prospects.GetByExternalID(ctx, candidate.ExternalID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrBusinessNotFound) {
		return nil, fmt.Errorf("lookup business %q: %w", candidate.ExternalID, err)
	}

	website := normalizeWebsite(candidate.Website)
	created, err := s.prospects.Create(ctx, repository.CreateBusinessInput{
		ExternalID:  candidate.ExternalID,
		Name:        candidate.Name,
		Address:     candidate.Address,
		Category:    candidate.Category,
		Phone:       s.normalizePhone(candidate.Phone),
		Email:       candidate.Email,
		Website:     website,
		HasWebsite:  website != nil,
		Rating:      candidate.Rating,
		ReviewCount: candidate.ReviewCount,
		Latitude:    candidate.Latitude,
		Longitude:   candidate.Longitude,
	})
	if err != nil {
		return nil, fmt.Errorf("create business %q: %w", candidate.ExternalID, err)
	}
	return created, nil
}

// normalizePhone formats a raw phone number to E.164 when parseable; the raw
// value survives otherwise since partial data is still useful for outreach.
func (s *IngestService) normalizePhone(raw *string) *string {
	if raw == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*raw)
	if trimmed == "" {
		return nil
	}

	number, err := phonenumbers.Parse(trimmed, s.phoneRegion)
	if err != nil || !phonenumbers.IsValidNumber(number) {
		return &trimmed
	}
	formatted := phonenumbers.Format(number, phonenumbers.E164)
	return &formatted
}

// normalizeWebsite trims the raw value; hasWebsite derives from the returned
// pointer being non-nil.
func normalizeWebsite(raw *string) *string {
	if raw == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*raw)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// WebsiteHost extracts the IDNA-normalized host from a website value that may
// or may not carry a scheme.
func WebsiteHost(website string) string {
	website = strings.TrimSpace(website)
	if website == "" {
		return ""
	}

	candidate := website
	if !strings.Contains(candidate, "://") {
		candidate = "http://" + candidate
	}
	parsed, err := url.Parse(candidate)
	if err != nil || parsed.Host == "" {
		return ""
	}

	host := strings.ToLower(parsed.Hostname())
	ascii, err := idna.Lookup.ToASCII(host)
	if err != nil {
		return host
	}
	return ascii
}
