package repository

import (
	"context"
	"errors"

	"github.com/leadlift/webtracker/api/internal/dto"
	"github.com/leadlift/webtracker/api/internal/entity"
)

// ErrBusinessNotFound is returned when no prospect matches the lookup criteria.
var ErrBusinessNotFound = errors.New("business not found")

// CreateBusinessInput carries the fields required to persist a new prospect.
// The repository assigns the surrogate id, the creation timestamp and the
// initial contact status.
type CreateBusinessInput struct {
	ExternalID  string
	Name        string
	Address     string
	Category    string
	Phone       *string
	Email       *string
	Website     *string
	HasWebsite  bool
	Rating      *float64
	ReviewCount *int
	Latitude    *float64
	Longitude   *float64
}

// ContactPatch holds the only mutable prospect fields. Nil fields are left
// untouched; id, externalId and createdAt are never updated.
type ContactPatch struct {
	ContactStatus *entity.ContactStatus
	Notes         *string
}

// ProspectRepository describes persistence operations for prospects.
type ProspectRepository interface {
	GetByID(ctx context.Context, id int) (*entity.Business, error)
	GetByExternalID(ctx context.Context, externalID string) (*entity.Business, error)
	Create(ctx context.Context, input CreateBusinessInput) (*entity.Business, error)
	UpdateContact(ctx context.Context, id int, patch ContactPatch) (*entity.Business, error)
	List(ctx context.Context, filter dto.BusinessFilter) ([]entity.Business, error)
	ListWithoutWebsite(ctx context.Context) ([]entity.Business, error)
	Stats(ctx context.Context) (entity.Stats, error)
}

// CreateSearchHistoryInput carries the fields recorded after one ingestion run.
type CreateSearchHistoryInput struct {
	Location       string
	Category       *string
	Radius         int
	ResultsCount   int
	NoWebsiteCount int
}

// SearchHistoryRepository describes the append-only search log.
type SearchHistoryRepository interface {
	Create(ctx context.Context, input CreateSearchHistoryInput) (*entity.SearchHistory, error)
	List(ctx context.Context) ([]entity.SearchHistory, error)
}
