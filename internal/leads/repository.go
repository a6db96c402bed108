package leads

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store is the persistence contract behind the save-lead endpoint.
type Store interface {
	// EnsureSchema idempotently prepares storage. It runs before every insert.
	EnsureSchema(ctx context.Context) error
	// Insert appends exactly one lead; the store assigns ID and CreatedAt.
	Insert(ctx context.Context, sub Submission) (*Lead, error)
}

// InMemoryRepository keeps leads in process memory. Used when no database is
// configured and in tests.
type InMemoryRepository struct {
	mu           sync.RWMutex
	leads        []*Lead
	schemaChecks int
	now          func() time.Time
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{now: func() time.Time { return time.Now().UTC() }}
}

// EnsureSchema only counts invocations; there is nothing to create.
func (r *InMemoryRepository) EnsureSchema(ctx context.Context) error {
	r.mu.Lock()
	r.schemaChecks++
	r.mu.Unlock()
	return nil
}

// Insert appends a lead in memory
func (r *InMemoryRepository) Insert(ctx context.Context, sub Submission) (*Lead, error) {
	lead := &Lead{
		ID:        uuid.New().String(),
		Service:   sub.Service,
		Price:     sub.Price,
		FullName:  sub.FullName,
		Email:     sub.Email,
		CreatedAt: r.now(),
	}

	r.mu.Lock()
	r.leads = append(r.leads, lead)
	r.mu.Unlock()

	copied := *lead
	return &copied, nil
}

// List returns every stored lead in insertion order.
func (r *InMemoryRepository) List() []Lead {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Lead, 0, len(r.leads))
	for _, lead := range r.leads {
		out = append(out, *lead)
	}
	return out
}

// Count returns the number of stored leads.
func (r *InMemoryRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.leads)
}

// SchemaChecks returns how many times EnsureSchema ran.
func (r *InMemoryRepository) SchemaChecks() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.schemaChecks
}

var _ Store = (*InMemoryRepository)(nil)
