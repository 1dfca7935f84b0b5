package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/leadlift/webtracker/api/internal/dto"
	"github.com/leadlift/webtracker/api/internal/entity"
)

// querier is the subset of pgxpool.Pool the repositories rely on.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const businessColumns = `
        id,
        external_id,
        name,
        address,
        phone,
        email,
        website,
        has_website,
        category,
        rating,
        review_count,
        latitude,
        longitude,
        contact_status,
        notes,
        created_at
`

// PGXProspectRepository implements ProspectRepository using pgx.
type PGXProspectRepository struct {
	pool querier
}

// NewPGXProspectRepository wires a pgx backed prospect repository.
func NewPGXProspectRepository(pool *pgxpool.Pool) *PGXProspectRepository {
	return &PGXProspectRepository{pool: pool}
}

var _ ProspectRepository = (*PGXProspectRepository)(nil)

// GetByID retrieves a prospect by surrogate id.
func (r *PGXProspectRepository) GetByID(ctx context.Context, id int) (*entity.Business, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+businessColumns+` FROM businesses WHERE id = $1`, id)
	return scanBusiness(row)
}

// GetByExternalID retrieves a prospect by its source-provided identifier.
func (r *PGXProspectRepository) GetByExternalID(ctx context.Context, externalID string) (*entity.Business, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+businessColumns+` FROM businesses WHERE external_id = $1`, externalID)
	return scanBusiness(row)
}

// Create inserts a new prospect with contact status "new". Concurrent
// ingestion of the same external id resolves to the already stored row.
func (r *PGXProspectRepository) Create(ctx context.Context, input CreateBusinessInput) (*entity.Business, error) {
	row := r.pool.QueryRow(ctx, `
        INSERT INTO businesses (
            external_id, name, address, phone, email, website, has_website,
            category, rating, review_count, latitude, longitude, contact_status
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, 'new')
        RETURNING `+businessColumns,
		input.ExternalID,
		input.Name,
		input.Address,
		input.Phone,
		input.Email,
		input.Website,
		input.HasWebsite,
		input.Category,
		input.Rating,
		input.ReviewCount,
		input.Latitude,
		input.Longitude,
	)

	business, err := scanBusiness(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && strings.Contains(pgErr.ConstraintName, "external_id") {
			return r.GetByExternalID(ctx, input.ExternalID)
		}
		return nil, fmt.Errorf("insert business: %w", err)
	}
	return business, nil
}

// UpdateContact patches contact status and notes only.
func (r *PGXProspectRepository) UpdateContact(ctx context.Context, id int, patch ContactPatch) (*entity.Business, error) {
	setClauses := make([]string, 0, 2)
	args := make([]any, 0, 3)
	idx := 1

	if patch.ContactStatus != nil {
		setClauses = append(setClauses, fmt.Sprintf("contact_status = $%d", idx))
		args = append(args, string(*patch.ContactStatus))
		idx++
	}
	if patch.Notes != nil {
		setClauses = append(setClauses, fmt.Sprintf("notes = $%d", idx))
		args = append(args, *patch.Notes)
		idx++
	}

	if len(setClauses) == 0 {
		return r.GetByID(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE businesses SET %s WHERE id = $%d RETURNING `+businessColumns, strings.Join(setClauses, ", "), idx)

	return scanBusiness(r.pool.QueryRow(ctx, query, args...))
}

// List retrieves prospects matching the provided filter, newest first.
func (r *PGXProspectRepository) List(ctx context.Context, filter dto.BusinessFilter) ([]entity.Business, error) {
	query := strings.Builder{}
	query.WriteString(`SELECT ` + businessColumns + ` FROM businesses`)

	var (
		clauses []string
		args    []any
		idx     = 1
	)

	if filter.ContactStatus != "" {
		clauses = append(clauses, fmt.Sprintf("contact_status = $%d", idx))
		args = append(args, filter.ContactStatus)
		idx++
	}
	if filter.Category != "" {
		clauses = append(clauses, fmt.Sprintf("category = $%d", idx))
		args = append(args, filter.Category)
		idx++
	}
	if filter.NoWebsiteOnly {
		clauses = append(clauses, "has_website = FALSE")
	}

	if len(clauses) > 0 {
		query.WriteString(" WHERE ")
		query.WriteString(strings.Join(clauses, " AND "))
	}
	query.WriteString(" ORDER BY created_at DESC, id DESC")

	rows, err := r.pool.Query(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list businesses: %w", err)
	}
	defer rows.Close()

	return scanBusinesses(rows)
}

// ListWithoutWebsite returns prospects lacking a website, newest first.
func (r *PGXProspectRepository) ListWithoutWebsite(ctx context.Context) ([]entity.Business, error) {
	return r.List(ctx, dto.BusinessFilter{NoWebsiteOnly: true})
}

// Stats recomputes aggregate counts from current table contents.
func (r *PGXProspectRepository) Stats(ctx context.Context) (entity.Stats, error) {
	var stats entity.Stats
	err := r.pool.QueryRow(ctx, `
        SELECT
            COUNT(*),
            COUNT(*) FILTER (WHERE has_website = FALSE),
            COUNT(*) FILTER (WHERE contact_status = 'contacted'),
            COUNT(*) FILTER (WHERE contact_status = 'interested')
        FROM businesses
    `).Scan(&stats.TotalSearched, &stats.NoWebsite, &stats.Contacted, &stats.Interested)
	if err != nil {
		return entity.Stats{}, fmt.Errorf("compute stats: %w", err)
	}
	return stats, nil
}

type pgxRow interface {
	Scan(dest ...any) error
}

func scanBusiness(row pgxRow) (*entity.Business, error) {
	var (
		b           entity.Business
		phone       sql.NullString
		email       sql.NullString
		website     sql.NullString
		rating      sql.NullFloat64
		reviewCount sql.NullInt64
		latitude    sql.NullFloat64
		longitude   sql.NullFloat64
		status      string
		notes       sql.NullString
	)

	err := row.Scan(
		&b.ID,
		&b.ExternalID,
		&b.Name,
		&b.Address,
		&phone,
		&email,
		&website,
		&b.HasWebsite,
		&b.Category,
		&rating,
		&reviewCount,
		&latitude,
		&longitude,
		&status,
		&notes,
		&b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBusinessNotFound
		}
		return nil, err
	}

	b.Phone = nullStringToPtr(phone)
	b.Email = nullStringToPtr(email)
	b.Website = nullStringToPtr(website)
	b.Notes = nullStringToPtr(notes)
	b.ContactStatus = entity.ContactStatus(status)
	if rating.Valid {
		val := rating.Float64
		b.Rating = &val
	}
	if reviewCount.Valid {
		cast := int(reviewCount.Int64)
		b.ReviewCount = &cast
	}
	if latitude.Valid {
		val := latitude.Float64
		b.Latitude = &val
	}
	if longitude.Valid {
		val := longitude.Float64
		b.Longitude = &val
	}

	return &b, nil
}

func scanBusinesses(rows pgx.Rows) ([]entity.Business, error) {
	var businesses []entity.Business
	for rows.Next() {
		business, err := scanBusiness(rows)
		if err != nil {
			return nil, fmt.Errorf("scan business row: %w", err)
		}
		businesses = append(businesses, *business)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate businesses: %w", err)
	}
	return businesses, nil
}

func nullStringToPtr(value sql.NullString) *string {
	if value.Valid {
		val := value.String
		return &val
	}
	return nil
}

// PGXSearchHistoryRepository implements SearchHistoryRepository using pgx.
type PGXSearchHistoryRepository struct {
	pool querier
}

// NewPGXSearchHistoryRepository wires a pgx backed search log.
func NewPGXSearchHistoryRepository(pool *pgxpool.Pool) *PGXSearchHistoryRepository {
	return &PGXSearchHistoryRepository{pool: pool}
}

var _ SearchHistoryRepository = (*PGXSearchHistoryRepository)(nil)

// Create appends a search history row.
func (r *PGXSearchHistoryRepository) Create(ctx context.Context, input CreateSearchHistoryInput) (*entity.SearchHistory, error) {
	row := r.pool.QueryRow(ctx, `
        INSERT INTO search_history (location, category, radius, results_count, no_website_count)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, location, category, radius, results_count, no_website_count, created_at
    `, input.Location, input.Category, input.Radius, input.ResultsCount, input.NoWebsiteCount)

	return scanSearchHistory(row)
}

// List returns recorded searches, newest first.
func (r *PGXSearchHistoryRepository) List(ctx context.Context) ([]entity.SearchHistory, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT id, location, category, radius, results_count, no_website_count, created_at
        FROM search_history
        ORDER BY created_at DESC, id DESC
    `)
	if err != nil {
		return nil, fmt.Errorf("list search history: %w", err)
	}
	defer rows.Close()

	var records []entity.SearchHistory
	for rows.Next() {
		record, err := scanSearchHistory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan search history row: %w", err)
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate search history: %w", err)
	}
	return records, nil
}

func scanSearchHistory(row pgxRow) (*entity.SearchHistory, error) {
	var (
		record   entity.SearchHistory
		category sql.NullString
	)
	err := row.Scan(
		&record.ID,
		&record.Location,
		&category,
		&record.Radius,
		&record.ResultsCount,
		&record.NoWebsiteCount,
		&record.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan search history: %w", err)
	}
	record.Category = nullStringToPtr(category)
	return &record, nil
}
