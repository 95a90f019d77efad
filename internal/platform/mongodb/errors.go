package mongodb

import (
	"errors"
	"fmt"

	"github.com/phrazzld/parcel-api/internal/store"
	"go.mongodb.org/mongo-driver/mongo"
)

// MapError maps a driver error to the matching store error.
func MapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
	default:
		return err
	}
}
