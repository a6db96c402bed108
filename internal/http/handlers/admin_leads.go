package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/silentequity/lead-intake/internal/leadexport"
	"github.com/silentequity/lead-intake/internal/leads"
	"github.com/silentequity/lead-intake/pkg/logging"
)

// LeadLister is the read side of the lead log.
type LeadLister interface {
	List(ctx context.Context, f leads.ListFilter) ([]leads.Lead, int, error)
}

// LeadExporter uploads the lead log somewhere staff can download it.
type LeadExporter interface {
	Export(ctx context.Context) (*leadexport.Result, error)
}

// AdminLeadsHandler handles admin API endpoints for browsing leads.
type AdminLeadsHandler struct {
	store    LeadLister
	exporter LeadExporter
	logger   *logging.Logger
}

// NewAdminLeadsHandler creates a new admin leads handler.
func NewAdminLeadsHandler(store LeadLister, exporter LeadExporter, logger *logging.Logger) *AdminLeadsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AdminLeadsHandler{
		store:    store,
		exporter: exporter,
		logger:   logger,
	}
}

// LeadResponse represents a lead in API responses.
type LeadResponse struct {
	ID        string `json:"id"`
	Service   string `json:"service"`
	Price     string `json:"price"`
	FullName  string `json:"full_name"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

// LeadsListResponse represents a paginated list of leads.
type LeadsListResponse struct {
	Leads      []LeadResponse `json:"leads"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int            `json:"total_pages"`
}

// ListLeads returns a paginated list of leads, newest first.
// GET /admin/leads?service=coc,edge&page=1&page_size=20
func (h *AdminLeadsHandler) ListLeads(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "lead database not configured"})
		return
	}

	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(q.Get("page_size"))
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	filter := leads.ListFilter{
		Services: splitList(q.Get("service")),
		Limit:    pageSize,
		Offset:   (page - 1) * pageSize,
	}

	rows, total, err := h.store.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list leads", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	out := make([]LeadResponse, 0, len(rows))
	for _, l := range rows {
		out = append(out, LeadResponse{
			ID:        l.ID,
			Service:   l.Service,
			Price:     l.Price,
			FullName:  l.FullName,
			Email:     l.Email,
			CreatedAt: l.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	writeJSON(w, http.StatusOK, LeadsListResponse{
		Leads:      out,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (total + pageSize - 1) / pageSize,
	})
}

// ExportLeads writes the whole log to object storage and returns its key.
// POST /admin/leads/export
func (h *AdminLeadsHandler) ExportLeads(w http.ResponseWriter, r *http.Request) {
	if h.exporter == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "export not configured"})
		return
	}

	res, err := h.exporter.Export(r.Context())
	if err != nil {
		if errors.Is(err, leadexport.ErrNotConfigured) {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "export not configured"})
			return
		}
		h.logger.Error("lead export failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
