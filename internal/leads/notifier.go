package leads

import (
	"context"
	"errors"
)

// Notifier is told about every lead after it has been stored.
type Notifier interface {
	LeadCreated(ctx context.Context, lead *Lead) error
}

// Notifiers fans one lead out to several notifiers. Every notifier runs even if
// an earlier one fails; the errors are joined.
type Notifiers []Notifier

func (ns Notifiers) LeadCreated(ctx context.Context, lead *Lead) error {
	var errs []error
	for _, n := range ns {
		if n == nil {
			continue
		}
		if err := n.LeadCreated(ctx, lead); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
