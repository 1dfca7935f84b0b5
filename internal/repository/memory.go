package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/leadlift/webtracker/api/internal/dto"
	"github.com/leadlift/webtracker/api/internal/entity"
)

// MemoryProspectRepository keeps prospects in a process-local map keyed by an
// auto-incrementing integer. It is the default backend; echo serves requests
// concurrently, so access is guarded by a RWMutex.
type MemoryProspectRepository struct {
	mu     sync.RWMutex
	rows   map[int]entity.Business
	nextID int
	now    func() time.Time
}

// NewMemoryProspectRepository creates an empty in-memory prospect store.
func NewMemoryProspectRepository() *MemoryProspectRepository {
	return &MemoryProspectRepository{
		rows:   make(map[int]entity.Business),
		nextID: 1,
		now:    time.Now,
	}
}

var _ ProspectRepository = (*MemoryProspectRepository)(nil)

// GetByID returns the prospect with the given surrogate id.
func (r *MemoryProspectRepository) GetByID(ctx context.Context, id int) (*entity.Business, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	business, ok := r.rows[id]
	if !ok {
		return nil, ErrBusinessNotFound
	}
	return &business, nil
}

// GetByExternalID looks a prospect up by its source-provided identifier.
func (r *MemoryProspectRepository) GetByExternalID(ctx context.Context, externalID string) (*entity.Business, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, business := range r.rows {
		if business.ExternalID == externalID {
			match := business
			return &match, nil
		}
	}
	return nil, ErrBusinessNotFound
}

// Create assigns a new surrogate id and stores the prospect with contact
// status "new".
func (r *MemoryProspectRepository) Create(ctx context.Context, input CreateBusinessInput) (*entity.Business, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	business := entity.Business{
		ID:            r.nextID,
		ExternalID:    input.ExternalID,
		Name:          input.Name,
		Address:       input.Address,
		Category:      input.Category,
		Phone:         input.Phone,
		Email:         input.Email,
		Website:       input.Website,
		HasWebsite:    input.HasWebsite,
		Rating:        input.Rating,
		ReviewCount:   input.ReviewCount,
		Latitude:      input.Latitude,
		Longitude:     input.Longitude,
		ContactStatus: entity.StatusNew,
		CreatedAt:     r.now(),
	}
	r.nextID++
	r.rows[business.ID] = business

	return &business, nil
}

// UpdateContact merges only the provided fields into the stored prospect.
// The surrogate id, external id and creation timestamp are never touched.
func (r *MemoryProspectRepository) UpdateContact(ctx context.Context, id int, patch ContactPatch) (*entity.Business, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	business, ok := r.rows[id]
	if !ok {
		return nil, ErrBusinessNotFound
	}

	if patch.ContactStatus != nil {
		business.ContactStatus = *patch.ContactStatus
	}
	if patch.Notes != nil {
		notes := *patch.Notes
		business.Notes = &notes
	}
	r.rows[id] = business

	return &business, nil
}

// List returns prospects matching the AND-combined filter, newest first.
func (r *MemoryProspectRepository) List(ctx context.Context, filter dto.BusinessFilter) ([]entity.Business, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var results []entity.Business
	for _, business := range r.rows {
		if filter.ContactStatus != "" && string(business.ContactStatus) != filter.ContactStatus {
			continue
		}
		if filter.Category != "" && business.Category != filter.Category {
			continue
		}
		if filter.NoWebsiteOnly && business.HasWebsite {
			continue
		}
		results = append(results, business)
	}

	sortNewestFirst(results)
	return results, nil
}

// ListWithoutWebsite returns prospects lacking a website, newest first.
func (r *MemoryProspectRepository) ListWithoutWebsite(ctx context.Context) ([]entity.Business, error) {
	return r.List(ctx, dto.BusinessFilter{NoWebsiteOnly: true})
}

// Stats recomputes aggregate counts by scanning current store contents.
func (r *MemoryProspectRepository) Stats(ctx context.Context) (entity.Stats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var stats entity.Stats
	for _, business := range r.rows {
		stats.TotalSearched++
		if !business.HasWebsite {
			stats.NoWebsite++
		}
		switch business.ContactStatus {
		case entity.StatusContacted:
			stats.Contacted++
		case entity.StatusInterested:
			stats.Interested++
		}
	}
	return stats, nil
}

func sortNewestFirst(businesses []entity.Business) {
	sort.Slice(businesses, func(i, j int) bool {
		if businesses[i].CreatedAt.Equal(businesses[j].CreatedAt) {
			return businesses[i].ID > businesses[j].ID
		}
		return businesses[i].CreatedAt.After(businesses[j].CreatedAt)
	})
}

// MemorySearchHistoryRepository keeps the append-only search log in memory.
type MemorySearchHistoryRepository struct {
	mu     sync.RWMutex
	rows   map[int]entity.SearchHistory
	nextID int
	now    func() time.Time
}

// NewMemorySearchHistoryRepository creates an empty in-memory search log.
func NewMemorySearchHistoryRepository() *MemorySearchHistoryRepository {
	return &MemorySearchHistoryRepository{
		rows:   make(map[int]entity.SearchHistory),
		nextID: 1,
		now:    time.Now,
	}
}

var _ SearchHistoryRepository = (*MemorySearchHistoryRepository)(nil)

// Create appends a search history entry. Entries are never updated or deleted.
func (r *MemorySearchHistoryRepository) Create(ctx context.Context, input CreateSearchHistoryInput) (*entity.SearchHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record := entity.SearchHistory{
		ID:             r.nextID,
		Location:       input.Location,
		Category:       input.Category,
		Radius:         input.Radius,
		ResultsCount:   input.ResultsCount,
		NoWebsiteCount: input.NoWebsiteCount,
		CreatedAt:      r.now(),
	}
	r.nextID++
	r.rows[record.ID] = record

	return &record, nil
}

// List returns recorded searches, newest first.
func (r *MemorySearchHistoryRepository) List(ctx context.Context) ([]entity.SearchHistory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var results []entity.SearchHistory
	for _, record := range r.rows {
		results = append(results, record)
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].CreatedAt.Equal(results[j].CreatedAt) {
			return results[i].ID > results[j].ID
		}
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})
	return results, nil
}
