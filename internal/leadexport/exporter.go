// Package leadexport writes the lead log to S3 as CSV for offline review.
package leadexport

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/silentequity/lead-intake/internal/leads"
	"github.com/silentequity/lead-intake/pkg/logging"
)

// ErrNotConfigured is returned when no bucket or client is set.
var ErrNotConfigured = errors.New("leadexport: export bucket not configured")

var header = []string{"id", "service", "price", "full_name", "email", "created_at"}

// S3API is the subset of the S3 client used by Exporter.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Source yields every lead to export.
type Source interface {
	All(ctx context.Context) ([]leads.Lead, error)
}

// Result describes a finished export.
type Result struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
	Rows   int    `json:"rows"`
}

// Exporter dumps the lead log into a dated CSV object.
type Exporter struct {
	source Source
	client S3API
	bucket string
	logger *logging.Logger
	now    func() time.Time
}

// NewExporter creates an exporter. An empty bucket leaves it disabled.
func NewExporter(source Source, client S3API, bucket string, logger *logging.Logger) *Exporter {
	if logger == nil {
		logger = logging.Default()
	}
	return &Exporter{
		source: source,
		client: client,
		bucket: bucket,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Enabled reports whether exports can run.
func (e *Exporter) Enabled() bool {
	return e != nil && e.bucket != "" && e.client != nil && e.source != nil
}

// Export reads the whole log and uploads it.
func (e *Exporter) Export(ctx context.Context) (*Result, error) {
	if !e.Enabled() {
		return nil, ErrNotConfigured
	}

	rows, err := e.source.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("leadexport: load leads: %w", err)
	}

	data, err := EncodeCSV(rows)
	if err != nil {
		return nil, err
	}

	now := e.now()
	key := fmt.Sprintf("leads/exports/%d/%02d/%02d/%s-%s.csv",
		now.Year(), now.Month(), now.Day(), now.Format("150405"), uuid.NewString()[:8])

	_, err = e.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(e.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("text/csv"),
	})
	if err != nil {
		return nil, fmt.Errorf("leadexport: s3 put %s: %w", key, err)
	}

	e.logger.Info("exported leads to S3", "bucket", e.bucket, "s3_key", key, "rows", len(rows))
	return &Result{Bucket: e.bucket, Key: key, Rows: len(rows)}, nil
}

// EncodeCSV renders leads with a header row. Values are written as stored.
func EncodeCSV(rows []leads.Lead) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("leadexport: write header: %w", err)
	}
	for _, l := range rows {
		record := []string{l.ID, l.Service, l.Price, l.FullName, l.Email, l.CreatedAt.UTC().Format(time.RFC3339)}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("leadexport: write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("leadexport: flush: %w", err)
	}
	return buf.Bytes(), nil
}
