package directory

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"dartlens/pkg/core/dart"
)

// ErrNotFound is returned by the single-record lookups.
var ErrNotFound = errors.New("directory: company not found")

// Company is one directory record. Immutable once loaded; an empty StockCode
// means the company is unlisted.
type Company struct {
	CorpCode   string `json:"corp_code"`
	CorpName   string `json:"corp_name"`
	StockCode  string `json:"stock_code"`
	ModifyDate string `json:"modify_date"`
}

// Store serves directory reads and the wholesale snapshot reload.
type Store struct {
	pool *pgxpool.Pool
}

// New wraps an initialized connection pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// LoadSnapshot replaces the entire stored set with records from a
// corpCodes.json snapshot. The swap runs in one transaction so readers never
// observe a half-loaded directory.
func (s *Store) LoadSnapshot(ctx context.Context, path string) error {
	corps, err := dart.LoadCorpCodes(path)
	if err != nil {
		return fmt.Errorf("directory load: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("directory load: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM companies`); err != nil {
		return fmt.Errorf("directory load: %w", err)
	}

	rows := make([][]interface{}, 0, len(corps))
	for _, c := range corps {
		rows = append(rows, []interface{}{c.CorpCode, c.CorpName, c.StockCode, c.ModifyDate})
	}
	if _, err := tx.CopyFrom(ctx,
		pgx.Identifier{"companies"},
		[]string{"corp_code", "corp_name", "stock_code", "modify_date"},
		pgx.CopyFromRows(rows),
	); err != nil {
		return fmt.Errorf("directory load: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("directory load: %w", err)
	}

	log.Printf("[DB] 회사 디렉토리 로드 완료: %d개", len(corps))
	return nil
}

// Search returns up to limit companies whose name contains term, ordered by
// exact match first, then ascending name length, then name. An empty or
// absent directory yields an empty slice, never an error.
func (s *Store) Search(ctx context.Context, term string, limit int) ([]Company, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx, `
		SELECT corp_code, corp_name, stock_code, modify_date
		FROM companies
		WHERE corp_name ILIKE '%' || $1 || '%'
		ORDER BY
			CASE WHEN corp_name = $1 THEN 1 ELSE 2 END,
			LENGTH(corp_name),
			corp_name,
			corp_code
		LIMIT $2
	`, term, limit)
	if err != nil {
		return nil, fmt.Errorf("directory search: %w", err)
	}
	defer rows.Close()

	return scanCompanies(rows)
}

// GetByCode returns the single record for a corp code, or ErrNotFound.
func (s *Store) GetByCode(ctx context.Context, corpCode string) (*Company, error) {
	return s.getOne(ctx, `
		SELECT corp_code, corp_name, stock_code, modify_date
		FROM companies WHERE corp_code = $1
	`, corpCode)
}

// GetByName returns the record whose name matches exactly, or ErrNotFound.
func (s *Store) GetByName(ctx context.Context, corpName string) (*Company, error) {
	return s.getOne(ctx, `
		SELECT corp_code, corp_name, stock_code, modify_date
		FROM companies WHERE corp_name = $1
	`, corpName)
}

// ListedCompanies returns up to limit listed companies ordered by name.
func (s *Store) ListedCompanies(ctx context.Context, limit int) ([]Company, error) {
	if limit <= 0 {
		limit = 1000
	}
	rows, err := s.pool.Query(ctx, `
		SELECT corp_code, corp_name, stock_code, modify_date
		FROM companies
		WHERE stock_code <> ''
		ORDER BY corp_name
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("directory listed: %w", err)
	}
	defer rows.Close()

	return scanCompanies(rows)
}

// Count returns the total number of companies in the directory.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM companies`).Scan(&n); err != nil {
		return 0, fmt.Errorf("directory count: %w", err)
	}
	return n, nil
}

// ListedCount returns the number of companies with a non-empty ticker.
func (s *Store) ListedCount(ctx context.Context) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM companies
		WHERE stock_code <> ''
	`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("directory listed count: %w", err)
	}
	return n, nil
}

// PopularCompanies resolves a curated list of names in order. A name with no
// exact match is skipped silently; the result is capped at limit.
func (s *Store) PopularCompanies(ctx context.Context, names []string, limit int) ([]Company, error) {
	if limit <= 0 {
		limit = 20
	}
	companies := make([]Company, 0, limit)
	for _, name := range names {
		c, err := s.GetByName(ctx, name)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		companies = append(companies, *c)
		if len(companies) >= limit {
			break
		}
	}
	return companies, nil
}

func (s *Store) getOne(ctx context.Context, query string, arg string) (*Company, error) {
	var c Company
	err := s.pool.QueryRow(ctx, query, arg).Scan(&c.CorpCode, &c.CorpName, &c.StockCode, &c.ModifyDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("directory lookup: %w", err)
	}
	return &c, nil
}

func scanCompanies(rows pgx.Rows) ([]Company, error) {
	companies := []Company{}
	for rows.Next() {
		var c Company
		if err := rows.Scan(&c.CorpCode, &c.CorpName, &c.StockCode, &c.ModifyDate); err != nil {
			return nil, fmt.Errorf("directory scan: %w", err)
		}
		companies = append(companies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("directory rows: %w", err)
	}
	return companies, nil
}
