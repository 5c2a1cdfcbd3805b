package repository

import (
	"context"
	"errors"

	"urudzbenik/internal/model"
)

// ErrDuplicateRegistryNumber is returned by Create and Update when the
// registry_number UNIQUE constraint rejects the row. The constraint is the
// correctness backstop for concurrently suggested numbers.
var ErrDuplicateRegistryNumber = errors.New("registry number already exists")

// DocumentFilter narrows List results. Every field is optional; present
// criteria combine with logical AND. Zero values mean "no constraint".
type DocumentFilter struct {
	// Year matches documents whose logical date falls in the calendar year.
	Year int
	// TitleContains is a case-sensitive substring match on the title.
	TitleContains string
	// RegistryNumberContains is a case-sensitive substring match on the number.
	RegistryNumberContains string
	// DateFrom and DateTo are inclusive bounds on the logical date.
	DateFrom model.Date
	DateTo   model.Date
	// Direction matches on the registry-number prefix (two buckets only).
	Direction model.DirectionFilter
}

// DocumentRepository defines data access for registry documents using SQL
// queries only. No business logic here — strictly persistence operations.
type DocumentRepository interface {
	// Create inserts a new document row and returns the stored record.
	// A registry-number uniqueness violation surfaces as ErrDuplicateRegistryNumber.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns a document by its ID, or sql.ErrNoRows if absent.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// List returns all documents matching the filter, newest-created first.
	// No pagination: the registry is small by nature.
	List(ctx context.Context, f DocumentFilter) ([]model.Document, error)

	// Update rewrites the editable fields of a row and returns the number of
	// rows affected (0 means the document no longer exists).
	Update(ctx context.Context, doc *model.Document) (int64, error)

	// ClearAttachment nulls the pdf_filename column and returns rows affected.
	ClearAttachment(ctx context.Context, id string) (int64, error)

	// Delete removes a document row and returns the number of rows affected.
	Delete(ctx context.Context, id string) (int64, error)

	// CountByYear counts documents of either direction whose logical date
	// falls in the given calendar year.
	CountByYear(ctx context.Context, year int) (int, error)
}
