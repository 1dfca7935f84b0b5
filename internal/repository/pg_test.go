package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/leadlift/webtracker/api/internal/dto"
	"github.com/leadlift/webtracker/api/internal/entity"
)

// scanFunc adapts a closure to the single-method row interface the scan
// helpers consume, so individual rows can be scripted per test.
type scanFunc func(dest ...any) error

func (f scanFunc) Scan(dest ...any) error { return f(dest...) }

func populatedBusinessScan(dest ...any) error {
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	*dest[0].(*int) = 7
	*dest[1].(*string) = "osm-node-42"
	*dest[2].(*string) = "Kampala Grill"
	*dest[3].(*string) = "12 Acacia Ave, Kampala"
	*dest[4].(*sql.NullString) = sql.NullString{String: "+256700123456", Valid: true}
	*dest[5].(*sql.NullString) = sql.NullString{String: "info@kampalagrill.ug", Valid: true}
	*dest[6].(*sql.NullString) = sql.NullString{String: "https://kampalagrill.ug", Valid: true}
	*dest[7].(*bool) = true
	*dest[8].(*string) = entity.CategoryRestaurant
	*dest[9].(*sql.NullFloat64) = sql.NullFloat64{Float64: 4.4, Valid: true}
	*dest[10].(*sql.NullInt64) = sql.NullInt64{Int64: 87, Valid: true}
	*dest[11].(*sql.NullFloat64) = sql.NullFloat64{Float64: 0.3476, Valid: true}
	*dest[12].(*sql.NullFloat64) = sql.NullFloat64{Float64: 32.5825, Valid: true}
	*dest[13].(*string) = string(entity.StatusContacted)
	*dest[14].(*sql.NullString) = sql.NullString{String: "Spoke to the manager", Valid: true}
	*dest[15].(*time.Time) = created
	return nil
}

func bareBusinessScan(dest ...any) error {
	*dest[0].(*int) = 3
	*dest[1].(*string) = "sample-9"
	*dest[2].(*string) = "Nakasero Kiosk"
	*dest[3].(*string) = "Market Row, Kampala"
	*dest[7].(*bool) = false
	*dest[8].(*string) = entity.CategoryRetail
	*dest[13].(*string) = string(entity.StatusNew)
	*dest[15].(*time.Time) = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	return nil
}

type stubBusinessRows struct {
	called bool
}

func (s *stubBusinessRows) Close()                                       {}
func (s *stubBusinessRows) Err() error                                   { return nil }
func (s *stubBusinessRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (s *stubBusinessRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (s *stubBusinessRows) Next() bool {
	if s.called {
		return false
	}
	s.called = true
	return true
}

func (s *stubBusinessRows) Scan(dest ...any) error {
	if !s.called {
		return errors.New("scan called before next")
	}
	return populatedBusinessScan(dest...)
}

func (s *stubBusinessRows) Values() ([]any, error) { return nil, nil }
func (s *stubBusinessRows) RawValues() [][]byte    { return nil }
func (s *stubBusinessRows) Conn() *pgx.Conn        { return nil }

// stubDB scripts QueryRow responses in order and records every statement,
// standing in for the pool behind the repositories.
type stubDB struct {
	rows    []pgx.Row
	queries []string
	args    [][]any
}

func (db *stubDB) QueryRow(ctx context.Context, stmt string, args ...any) pgx.Row {
	db.queries = append(db.queries, stmt)
	db.args = append(db.args, args)
	if len(db.rows) == 0 {
		return scanFunc(func(dest ...any) error { return errors.New("no scripted row") })
	}
	row := db.rows[0]
	db.rows = db.rows[1:]
	return row
}

func (db *stubDB) Query(ctx context.Context, stmt string, args ...any) (pgx.Rows, error) {
	db.queries = append(db.queries, stmt)
	db.args = append(db.args, args)
	return &stubBusinessRows{}, nil
}

func TestScanBusinessMapsColumns(t *testing.T) {
	business, err := scanBusiness(scanFunc(populatedBusinessScan))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if business.ID != 7 || business.ExternalID != "osm-node-42" || business.Name != "Kampala Grill" {
		t.Fatalf("unexpected business: %+v", business)
	}
	if business.Phone == nil || *business.Phone != "+256700123456" {
		t.Fatalf("expected phone mapped, got %+v", business.Phone)
	}
	if business.Website == nil || !business.HasWebsite {
		t.Fatalf("expected website fields mapped, got %+v", business)
	}
	if business.Rating == nil || *business.Rating != 4.4 {
		t.Fatalf("expected rating mapped, got %+v", business.Rating)
	}
	if business.ReviewCount == nil || *business.ReviewCount != 87 {
		t.Fatalf("expected review count mapped, got %+v", business.ReviewCount)
	}
	if business.Latitude == nil || business.Longitude == nil || *business.Longitude != 32.5825 {
		t.Fatalf("expected coordinates mapped, got %+v", business)
	}
	if business.ContactStatus != entity.StatusContacted {
		t.Fatalf("expected contacted status, got %q", business.ContactStatus)
	}
	if business.Notes == nil || *business.Notes != "Spoke to the manager" {
		t.Fatalf("expected notes mapped, got %+v", business.Notes)
	}
}

func TestScanBusinessNullColumns(t *testing.T) {
	business, err := scanBusiness(scanFunc(bareBusinessScan))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if business.Phone != nil || business.Email != nil || business.Website != nil || business.Notes != nil {
		t.Fatalf("expected nil optional strings, got %+v", business)
	}
	if business.Rating != nil || business.ReviewCount != nil || business.Latitude != nil || business.Longitude != nil {
		t.Fatalf("expected nil optional numerics, got %+v", business)
	}
	if business.HasWebsite {
		t.Fatalf("expected hasWebsite false")
	}
	if business.ContactStatus != entity.StatusNew {
		t.Fatalf("expected new status, got %q", business.ContactStatus)
	}
}

func TestPGXProspectRepositoryGetByIDNotFound(t *testing.T) {
	db := &stubDB{rows: []pgx.Row{scanFunc(func(dest ...any) error { return pgx.ErrNoRows })}}
	repo := &PGXProspectRepository{pool: db}

	_, err := repo.GetByID(context.Background(), 99)
	if !errors.Is(err, ErrBusinessNotFound) {
		t.Fatalf("expected ErrBusinessNotFound, got %v", err)
	}
}

func TestPGXProspectRepositoryCreateDuplicateExternalID(t *testing.T) {
	duplicate := &pgconn.PgError{Code: "23505", ConstraintName: "businesses_external_id_key"}
	db := &stubDB{rows: []pgx.Row{
		scanFunc(func(dest ...any) error { return duplicate }),
		scanFunc(populatedBusinessScan),
	}}
	repo := &PGXProspectRepository{pool: db}

	business, err := repo.Create(context.Background(), CreateBusinessInput{ExternalID: "osm-node-42", Name: "Kampala Grill"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if business.ID != 7 || business.ExternalID != "osm-node-42" {
		t.Fatalf("expected the stored row, got %+v", business)
	}
	if len(db.queries) != 2 || !strings.Contains(db.queries[1], "WHERE external_id = $1") {
		t.Fatalf("expected a lookup by external id after the conflict, got %v", db.queries)
	}
}

func TestPGXProspectRepositoryCreateInsertError(t *testing.T) {
	db := &stubDB{rows: []pgx.Row{scanFunc(func(dest ...any) error {
		return &pgconn.PgError{Code: "23502", ColumnName: "name"}
	})}}
	repo := &PGXProspectRepository{pool: db}

	_, err := repo.Create(context.Background(), CreateBusinessInput{ExternalID: "osm-node-43"})
	if err == nil || !strings.Contains(err.Error(), "insert business") {
		t.Fatalf("expected wrapped insert error, got %v", err)
	}
	if len(db.queries) != 1 {
		t.Fatalf("expected no follow-up lookup, got %v", db.queries)
	}
}

func TestPGXProspectRepositoryUpdateContactSetClauses(t *testing.T) {
	status := entity.StatusInterested
	notes := "Call back Monday"
	db := &stubDB{rows: []pgx.Row{scanFunc(populatedBusinessScan)}}
	repo := &PGXProspectRepository{pool: db}

	if _, err := repo.UpdateContact(context.Background(), 7, ContactPatch{ContactStatus: &status, Notes: &notes}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	query := db.queries[0]
	if !strings.Contains(query, "SET contact_status = $1, notes = $2") || !strings.Contains(query, "WHERE id = $3") {
		t.Fatalf("unexpected update statement: %s", query)
	}
	if got := db.args[0]; len(got) != 3 || got[0] != string(status) || got[1] != notes || got[2] != 7 {
		t.Fatalf("unexpected arguments: %v", got)
	}
}

func TestPGXProspectRepositoryUpdateContactNotesOnly(t *testing.T) {
	notes := "Left a voicemail"
	db := &stubDB{rows: []pgx.Row{scanFunc(populatedBusinessScan)}}
	repo := &PGXProspectRepository{pool: db}

	if _, err := repo.UpdateContact(context.Background(), 7, ContactPatch{Notes: &notes}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	query := db.queries[0]
	if !strings.Contains(query, "SET notes = $1") || strings.Contains(query, "contact_status =") {
		t.Fatalf("unexpected update statement: %s", query)
	}
}

func TestPGXProspectRepositoryUpdateContactEmptyPatch(t *testing.T) {
	db := &stubDB{rows: []pgx.Row{scanFunc(populatedBusinessScan)}}
	repo := &PGXProspectRepository{pool: db}

	business, err := repo.UpdateContact(context.Background(), 7, ContactPatch{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if business.ID != 7 {
		t.Fatalf("expected current row, got %+v", business)
	}
	if len(db.queries) != 1 || !strings.HasPrefix(strings.TrimSpace(db.queries[0]), "SELECT") {
		t.Fatalf("expected a plain read, got %v", db.queries)
	}
}

func TestPGXProspectRepositoryListBuildsFilterClauses(t *testing.T) {
	db := &stubDB{}
	repo := &PGXProspectRepository{pool: db}

	businesses, err := repo.List(context.Background(), dto.BusinessFilter{
		ContactStatus: string(entity.StatusNew),
		Category:      entity.CategoryRestaurant,
		NoWebsiteOnly: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(businesses) != 1 || businesses[0].Name != "Kampala Grill" {
		t.Fatalf("unexpected businesses: %+v", businesses)
	}
	query := db.queries[0]
	if !strings.Contains(query, "contact_status = $1 AND category = $2 AND has_website = FALSE") {
		t.Fatalf("unexpected filter clauses: %s", query)
	}
	if !strings.Contains(query, "ORDER BY created_at DESC, id DESC") {
		t.Fatalf("expected newest-first ordering: %s", query)
	}
}

func TestScanBusinesses(t *testing.T) {
	businesses, err := scanBusinesses(&stubBusinessRows{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(businesses) != 1 {
		t.Fatalf("expected 1 business, got %d", len(businesses))
	}
	if businesses[0].Email == nil || *businesses[0].Email != "info@kampalagrill.ug" {
		t.Fatalf("unexpected business: %+v", businesses[0])
	}
}

func TestScanSearchHistory(t *testing.T) {
	record, err := scanSearchHistory(scanFunc(func(dest ...any) error {
		*dest[0].(*int) = 4
		*dest[1].(*string) = "Kampala"
		*dest[2].(*sql.NullString) = sql.NullString{String: "Restaurant", Valid: true}
		*dest[3].(*int) = 5
		*dest[4].(*int) = 12
		*dest[5].(*int) = 8
		*dest[6].(*time.Time) = time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC)
		return nil
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.ID != 4 || record.Location != "Kampala" || record.Radius != 5 {
		t.Fatalf("unexpected record: %+v", record)
	}
	if record.Category == nil || *record.Category != "Restaurant" {
		t.Fatalf("expected category mapped, got %+v", record.Category)
	}
	if record.ResultsCount != 12 || record.NoWebsiteCount != 8 {
		t.Fatalf("unexpected counts: %+v", record)
	}
}

func TestScanSearchHistoryNullCategory(t *testing.T) {
	record, err := scanSearchHistory(scanFunc(func(dest ...any) error {
		*dest[0].(*int) = 5
		*dest[1].(*string) = "Entebbe"
		*dest[3].(*int) = 2
		*dest[4].(*int) = 0
		*dest[5].(*int) = 0
		*dest[6].(*time.Time) = time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
		return nil
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.Category != nil {
		t.Fatalf("expected nil category, got %q", *record.Category)
	}
}
