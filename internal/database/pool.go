// Package database owns the process-wide Postgres connection pool.
package database

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotConfigured is returned when no connection string was provided.
var ErrNotConfigured = errors.New("database: connection string not configured")

// ErrClosed is returned by Get after Close.
var ErrClosed = errors.New("database: pool closed")

// Connector opens a pool. Swapped out in tests.
type Connector func(ctx context.Context, cfg *pgxpool.Config) (*pgxpool.Pool, error)

// LazyPool creates one pgx pool on first use and hands the same pool to every
// caller afterwards. A failed connect is not cached; the next Get retries.
type LazyPool struct {
	url      string
	maxConns int32
	connect  Connector

	mu     sync.Mutex
	pool   *pgxpool.Pool
	closed bool
}

// NewLazyPool returns a pool handle for url. Nothing is dialed until Get.
func NewLazyPool(url string, maxConns int) *LazyPool {
	return &LazyPool{
		url:      url,
		maxConns: int32(maxConns),
		connect:  pgxpool.NewWithConfig,
	}
}

// Configured reports whether a connection string is present.
func (p *LazyPool) Configured() bool {
	return p != nil && p.url != ""
}

// Get returns the shared pool, connecting on first call.
func (p *LazyPool) Get(ctx context.Context) (*pgxpool.Pool, error) {
	if !p.Configured() {
		return nil, ErrNotConfigured
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, ErrClosed
	}
	if p.pool != nil {
		return p.pool, nil
	}

	cfg, err := pgxpool.ParseConfig(p.url)
	if err != nil {
		return nil, fmt.Errorf("database: parse config: %w", err)
	}
	if p.maxConns > 0 {
		cfg.MaxConns = p.maxConns
	}

	pool, err := p.connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("database: connect: %w", err)
	}
	p.pool = pool
	return pool, nil
}

// Close releases the pool if it was ever opened. Safe to call more than once.
func (p *LazyPool) Close() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pool != nil {
		p.pool.Close()
		p.pool = nil
	}
	p.closed = true
}
