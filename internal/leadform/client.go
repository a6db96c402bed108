package leadform

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/silentequity/lead-intake/internal/tracks"
	"github.com/silentequity/lead-intake/pkg/logging"
)

// ErrSubmissionFailed means the endpoint did not accept the application. The
// caller keeps the answers so the user can retry by hand.
var ErrSubmissionFailed = errors.New("leadform: submission failed")

const defaultCheckoutPath = "/checkout-razorpay"

// Client posts applications to the save-lead endpoint.
type Client struct {
	baseURL      string
	checkoutBase string
	http         *http.Client
	logger       *logging.Logger
}

// NewClient targets the site at baseURL (for example https://silentequity.example).
func NewClient(baseURL string, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{
		baseURL:      strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		checkoutBase: defaultCheckoutPath,
		http:         &http.Client{Timeout: 15 * time.Second},
		logger:       logger,
	}
}

// WithHTTPClient swaps the transport (tests, proxies).
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	if hc != nil {
		c.http = hc
	}
	return c
}

// WithCheckoutBase overrides where successful applicants are sent.
func (c *Client) WithCheckoutBase(base string) *Client {
	if base = strings.TrimSpace(base); base != "" {
		c.checkoutBase = base
	}
	return c
}

// Submit sends the form's payload once. On a 2xx reply it returns the checkout
// URL for the form's track. There is no automatic retry.
func (c *Client) Submit(ctx context.Context, form Form, answers map[string]string) (string, error) {
	body, err := json.Marshal(form.Payload(answers))
	if err != nil {
		return "", fmt.Errorf("%w: encode payload: %v", ErrSubmissionFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/save-lead", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", ErrSubmissionFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("lead submission network error", "error", err, "service", form.Track.Tag)
		return "", fmt.Errorf("%w: %v", ErrSubmissionFailed, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("lead submission rejected", "status", resp.StatusCode, "service", form.Track.Tag)
		return "", fmt.Errorf("%w: status %d", ErrSubmissionFailed, resp.StatusCode)
	}

	c.logger.Info("lead submitted", "service", form.Track.Tag)
	return tracks.CheckoutURL(c.checkoutBase, form.Track), nil
}
