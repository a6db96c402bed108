package leads

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

const (
	countLeadsSQL = `SELECT COUNT(*) FROM leads WHERE ($1::text[] IS NULL OR service = ANY($1))`

	listLeadsSQL = `
		SELECT id::text, service, price, full_name, email, created_at
		FROM leads
		WHERE ($1::text[] IS NULL OR service = ANY($1))
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3
	`

	exportLeadsSQL = `
		SELECT id::text, service, price, full_name, email, created_at
		FROM leads
		ORDER BY created_at, id
	`
)

// ListFilter narrows an admin listing. Empty Services means every track.
type ListFilter struct {
	Services []string
	Limit    int
	Offset   int
}

// AdminStore is the read-only view staff use to browse the lead log.
type AdminStore struct {
	db *sql.DB
}

// NewAdminStore wraps a database/sql handle (pgx stdlib driver in production).
func NewAdminStore(db *sql.DB) *AdminStore {
	if db == nil {
		panic("leads: sql db required")
	}
	return &AdminStore{db: db}
}

// List returns one page of leads, newest first, and the total matching count.
func (s *AdminStore) List(ctx context.Context, f ListFilter) ([]Lead, int, error) {
	var services any
	if len(f.Services) > 0 {
		services = pq.Array(f.Services)
	}

	var total int
	if err := s.db.QueryRowContext(ctx, countLeadsSQL, services).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("leads: count failed: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, listLeadsSQL, services, f.Limit, f.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("leads: list failed: %w", err)
	}
	defer rows.Close()

	out, err := scanLeads(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// All returns the full log, oldest first.
func (s *AdminStore) All(ctx context.Context) ([]Lead, error) {
	rows, err := s.db.QueryContext(ctx, exportLeadsSQL)
	if err != nil {
		return nil, fmt.Errorf("leads: export query failed: %w", err)
	}
	defer rows.Close()
	return scanLeads(rows)
}

func scanLeads(rows *sql.Rows) ([]Lead, error) {
	out := []Lead{}
	for rows.Next() {
		var (
			lead                        Lead
			service, price, name, email sql.NullString
		)
		if err := rows.Scan(&lead.ID, &service, &price, &name, &email, &lead.CreatedAt); err != nil {
			return nil, fmt.Errorf("leads: scan failed: %w", err)
		}
		lead.Service = service.String
		lead.Price = price.String
		lead.FullName = name.String
		lead.Email = email.String
		out = append(out, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("leads: rows failed: %w", err)
	}
	return out, nil
}
