package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"luxeory/internal/domain/shared/store"
)

// translate maps driver failures onto store-level error kinds. ErrNoDocuments
// is handled by each repository before translation; everything else that
// reaches this point is store trouble, not a domain condition.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded) || mongo.IsTimeout(err):
		return fmt.Errorf("%w: %s", store.ErrTimeout, err)
	default:
		return fmt.Errorf("%w: %s", store.ErrUnavailable, err)
	}
}
