package inventory

import (
	"context"

	"github.com/assetdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CustomFieldRepository defines persistence for field definitions.
// Save replaces options and category links with the ones on the aggregate.
type CustomFieldRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*CustomField, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]CustomField, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]CustomField, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	FindActive(ctx context.Context) ([]CustomField, error)
	Save(ctx context.Context, field *CustomField) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CustomFieldValueRepository defines persistence for per-owner field values
type CustomFieldValueRepository interface {
	// ListByOwner returns the owner's values
	ListByOwner(ctx context.Context, ownerType OwnerType, ownerID uuid.UUID) ([]CustomFieldValue, error)

	// Upsert writes the value for (owner, field), replacing any existing one
	Upsert(ctx context.Context, value *CustomFieldValue) error

	// Delete removes the value for (owner, field)
	Delete(ctx context.Context, ownerType OwnerType, ownerID, fieldID uuid.UUID) error
}
