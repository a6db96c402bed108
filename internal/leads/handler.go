package leads

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/silentequity/lead-intake/internal/observability/metrics"
	"github.com/silentequity/lead-intake/internal/tracks"
	"github.com/silentequity/lead-intake/pkg/logging"
)

const (
	maxBodyBytes = 1 << 20

	msgMethodNotAllowed = "Method not allowed"
	msgSaveFailed       = "Save failed"

	notifyTimeout = 5 * time.Second
)

// SaveLeadResponse is the only shape the endpoint ever returns.
type SaveLeadResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// Handler handles HTTP requests for leads
type Handler struct {
	store    Store
	notifier Notifier
	metrics  *metrics.LeadMetrics
	logger   *logging.Logger
	timeout  time.Duration
}

// NewHandler creates a new leads handler
func NewHandler(store Store, logger *logging.Logger) *Handler {
	if store == nil {
		panic("leads: store required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		store:  store,
		logger: logger,
	}
}

// WithNotifier sets who hears about saved leads.
func (h *Handler) WithNotifier(n Notifier) *Handler {
	h.notifier = n
	return h
}

func (h *Handler) WithMetrics(m *metrics.LeadMetrics) *Handler {
	h.metrics = m
	return h
}

// WithTimeout bounds schema setup plus insert for one request. Zero, the
// default, leaves the save to the platform's own request limit.
func (h *Handler) WithTimeout(d time.Duration) *Handler {
	if d > 0 {
		h.timeout = d
	}
	return h
}

// SaveLead handles /api/save-lead. It is registered for every method so that
// non-POST requests get the JSON 405 body instead of the router's default.
func (h *Handler) SaveLead(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.metrics.ObserveSubmission("none", metrics.OutcomeRejected)
		writeResponse(w, http.StatusMethodNotAllowed, SaveLeadResponse{OK: false, Error: msgMethodNotAllowed})
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		h.logger.Error("save-lead: failed to read body", "error", err)
		h.fail(w, "none")
		return
	}

	sub, err := ParseSubmission(body)
	if err != nil {
		h.logger.Error("save-lead: failed to decode request", "error", err)
		h.fail(w, "none")
		return
	}

	label := serviceLabel(sub.Service)
	start := time.Now()
	// A client that disconnects mid-save does not abort the statements.
	lead, err := h.save(context.WithoutCancel(r.Context()), sub)
	if err != nil {
		h.metrics.ObserveSaveLatency(metrics.OutcomeFailed, time.Since(start).Seconds())
		h.logger.Error("save-lead: storage failed", "error", err, "service", sub.Service)
		h.fail(w, label)
		return
	}
	h.metrics.ObserveSaveLatency(metrics.OutcomeSaved, time.Since(start).Seconds())
	h.metrics.ObserveSubmission(label, metrics.OutcomeSaved)
	h.logger.Info("lead saved", "id", lead.ID, "service", lead.Service)

	h.notify(r.Context(), lead)
	writeResponse(w, http.StatusOK, SaveLeadResponse{OK: true})
}

func (h *Handler) save(ctx context.Context, sub Submission) (*Lead, error) {
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}
	if err := h.store.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	return h.store.Insert(ctx, sub)
}

func (h *Handler) notify(ctx context.Context, lead *Lead) {
	if h.notifier == nil {
		return
	}
	// The lead is already stored; a slow or failed notification must not turn
	// the response into a failure.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()
	if err := h.notifier.LeadCreated(ctx, lead); err != nil {
		h.metrics.ObserveNotification(false)
		h.logger.Warn("lead notification failed", "error", err, "id", lead.ID)
		return
	}
	h.metrics.ObserveNotification(true)
}

func (h *Handler) fail(w http.ResponseWriter, label string) {
	h.metrics.ObserveSubmission(label, metrics.OutcomeFailed)
	writeResponse(w, http.StatusInternalServerError, SaveLeadResponse{OK: false, Error: msgSaveFailed})
}

func serviceLabel(service string) string {
	if tracks.Known(service) {
		return service
	}
	return "other"
}

func writeResponse(w http.ResponseWriter, status int, resp SaveLeadResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
