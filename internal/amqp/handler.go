package amqp

import (
	"context"
	"errors"
	"fmt"

	"painel/internal/dashboard"
	"painel/internal/log"
)

// Pages looks dashboard pages up by name.
type Pages interface {
	Get(name string) (dashboard.Dashboard, error)
}

// RefreshHandler refreshes the requested page. Unknown pages are rejected.
// A refresh that fails on the data side is acknowledged; the page status
// carries the error.
func RefreshHandler(pages Pages, logger *log.Logger) Handler {
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentAMQP)
	return func(ctx context.Context, req *RefreshRequest) error {
		d, err := pages.Get(req.Page)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrRejected, err)
		}
		st, err := d.Refresh(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			logger.WarnContext(ctx, "Requested refresh failed",
				log.FieldPage, req.Page,
				log.FieldErrorKind, st.ErrorKind,
				log.FieldError, err.Error())
			return nil
		}
		logger.InfoContext(ctx, "Requested refresh completed",
			log.FieldPage, req.Page,
			log.FieldRecords, st.Records)
		return nil
	}
}
