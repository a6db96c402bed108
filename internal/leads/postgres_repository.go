package leads

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/silentequity/lead-intake/internal/database"
)

var tracer = otel.Tracer("silentequity.internal.leads")

const (
	createExtensionSQL = `CREATE EXTENSION IF NOT EXISTS pgcrypto`

	createTableSQL = `
		CREATE TABLE IF NOT EXISTS leads (
			id uuid DEFAULT gen_random_uuid() PRIMARY KEY,
			service text,
			price text,
			full_name text,
			email text,
			created_at timestamptz DEFAULT now()
		)
	`

	insertLeadSQL = `
		INSERT INTO leads (service, price, full_name, email)
		VALUES ($1, $2, $3, $4)
		RETURNING id::text, created_at
	`
)

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores leads in the relational database.
type PostgresRepository struct {
	acquire func(ctx context.Context) (querier, error)
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("leads: pgx pool required")
	}
	return newPostgresRepositoryWithExec(pool)
}

// NewLazyPostgresRepository defers connecting until the first statement, then
// reuses the shared pool for every later request.
func NewLazyPostgresRepository(lazy *database.LazyPool) *PostgresRepository {
	if lazy == nil {
		panic("leads: lazy pool required")
	}
	return &PostgresRepository{
		acquire: func(ctx context.Context) (querier, error) {
			pool, err := lazy.Get(ctx)
			if err != nil {
				return nil, err
			}
			return pool, nil
		},
	}
}

func newPostgresRepositoryWithExec(q querier) *PostgresRepository {
	if q == nil {
		panic("leads: exec required")
	}
	return &PostgresRepository{
		acquire: func(context.Context) (querier, error) { return q, nil },
	}
}

// EnsureSchema creates the uuid extension and the leads table if missing.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	ctx, span := startSpan(ctx, "leads.ensure_schema", "CREATE")
	defer span.End()

	q, err := r.acquire(ctx)
	if err != nil {
		return spanError(span, fmt.Errorf("leads: acquire connection: %w", err))
	}
	if _, err := q.Exec(ctx, createExtensionSQL); err != nil {
		return spanError(span, fmt.Errorf("leads: create extension: %w", err))
	}
	if _, err := q.Exec(ctx, createTableSQL); err != nil {
		return spanError(span, fmt.Errorf("leads: create table: %w", err))
	}
	return nil
}

// Insert appends a row. id and created_at come from column defaults.
func (r *PostgresRepository) Insert(ctx context.Context, sub Submission) (*Lead, error) {
	ctx, span := startSpan(ctx, "leads.insert", "INSERT")
	defer span.End()
	span.SetAttributes(attribute.String("leads.service", sub.Service))

	q, err := r.acquire(ctx)
	if err != nil {
		return nil, spanError(span, fmt.Errorf("leads: acquire connection: %w", err))
	}

	lead := &Lead{
		Service:  sub.Service,
		Price:    sub.Price,
		FullName: sub.FullName,
		Email:    sub.Email,
	}
	if err := q.QueryRow(ctx, insertLeadSQL,
		sub.Service,
		sub.Price,
		sub.FullName,
		sub.Email,
	).Scan(&lead.ID, &lead.CreatedAt); err != nil {
		return nil, spanError(span, fmt.Errorf("leads: insert failed: %w", err))
	}

	span.SetAttributes(attribute.String("leads.id", lead.ID))
	return lead, nil
}

func startSpan(ctx context.Context, name, operation string) (context.Context, trace.Span) {
	return tracer.Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "postgresql"),
			attribute.String("db.operation", operation),
			attribute.String("db.sql.table", "leads"),
		),
	)
}

func spanError(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

var _ Store = (*PostgresRepository)(nil)
