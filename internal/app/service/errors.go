package service

import (
	"errors"
	"fmt"

	"github.com/mrops-br/storefront-api/internal/domain"
)

// storeError passes domain errors through and marks everything else as a
// store failure.
func storeError(err error) error {
	switch {
	case errors.Is(err, domain.ErrStoreUnavailable),
		errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrEmailTaken):
		return err
	default:
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
}
