package repositories

import (
	"context"
	"errors"

	"github.com/formlab/formbuilder/internal/models"
)

// ErrNotFound is returned by lookups for identifiers that are not present.
// Absence is an explicit result, never a panic or a silent empty value.
var ErrNotFound = errors.New("resource not found")

// FormRepository persists the form collection. The collection is exposed as
// an ordered list; insertion order is preserved across saves.
type FormRepository interface {
	// List returns all forms in insertion order. Empty storage yields an
	// empty slice, not an error.
	List(ctx context.Context) ([]models.Form, error)

	// GetByID returns the form with the given identifier, or an error
	// wrapping ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.Form, error)

	// Save upserts by identifier. New forms are appended with CreatedAt and
	// UpdatedAt stamped to now (a caller-supplied CreatedAt is discarded);
	// existing forms are replaced in place with only UpdatedAt refreshed.
	// The passed form is updated with the stamped timestamps.
	Save(ctx context.Context, form *models.Form) error

	// Delete removes the form if present and is a no-op otherwise. Stored
	// responses referencing the form are left untouched.
	Delete(ctx context.Context, id string) error
}

// ResponseRepository persists submitted responses. Responses are immutable
// once stored; there is no update or delete.
type ResponseRepository interface {
	// List returns all responses in submission order.
	List(ctx context.Context) ([]models.FormResponse, error)

	// ListByForm returns the responses whose FormID matches, preserving
	// submission order. Responses of deleted forms remain retrievable.
	ListByForm(ctx context.Context, formID string) ([]models.FormResponse, error)

	// Save appends the response, stamping SubmittedAt to now and overriding
	// any caller-supplied value.
	Save(ctx context.Context, response *models.FormResponse) error
}

// Repository aggregates the persistence interfaces.
type Repository interface {
	Forms() FormRepository
	Responses() ResponseRepository
}
