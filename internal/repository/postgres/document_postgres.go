package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"urudzbenik/internal/model"
	"urudzbenik/internal/repository"
)

const documentColumns = "id, flow_direction, sender, registry_number, title, doc_date, notes, pdf_filename, created_at, updated_at"

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

// isUniqueViolation reports whether err is a PostgreSQL unique_violation
// (SQLSTATE 23505), the backstop for duplicate registry numbers.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func scanDocument(row interface{ Scan(...any) error }) (*model.Document, error) {
	var (
		d      model.Document
		sender sql.NullString
		notes  sql.NullString
		pdf    sql.NullString
	)
	if err := row.Scan(
		&d.ID,
		&d.FlowDirection,
		&sender,
		&d.RegistryNumber,
		&d.Title,
		&d.Date,
		&notes,
		&pdf,
		&d.CreatedAt,
		&d.UpdatedAt,
	); err != nil {
		return nil, err
	}
	d.Sender = sender.String
	d.Notes = notes.String
	d.PDFFilename = pdf.String
	return &d, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Create inserts a new document row and returns the stored record.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	q := fmt.Sprintf(`
		INSERT INTO documents (id, flow_direction, sender, registry_number, title, doc_date, notes, pdf_filename, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING %s
	`, documentColumns)
	row := r.db.QueryRowContext(ctx, q,
		doc.ID,
		doc.FlowDirection,
		nullable(doc.Sender),
		doc.RegistryNumber,
		doc.Title,
		doc.Date,
		nullable(doc.Notes),
		nullable(doc.PDFFilename),
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	out, err := scanDocument(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, repository.ErrDuplicateRegistryNumber
		}
		return nil, err
	}
	return out, nil
}

// FindByID fetches a single document by its ID.
func (r *DocumentPostgres) FindByID(ctx context.Context, id string) (*model.Document, error) {
	q := fmt.Sprintf("SELECT %s FROM documents WHERE id = $1", documentColumns)
	return scanDocument(r.db.QueryRowContext(ctx, q, id))
}

// List returns documents matching the filter, newest-created first. The WHERE
// clause is assembled from the present criteria only; every value travels as a
// bind parameter.
func (r *DocumentPostgres) List(ctx context.Context, f repository.DocumentFilter) ([]model.Document, error) {
	var (
		sb   strings.Builder
		args []any
	)
	fmt.Fprintf(&sb, "SELECT %s FROM documents WHERE 1=1", documentColumns)

	add := func(clause string, arg any) {
		args = append(args, arg)
		fmt.Fprintf(&sb, " AND "+clause, len(args))
	}

	if f.Year != 0 {
		add("EXTRACT(YEAR FROM doc_date) = $%d", f.Year)
	}
	if f.TitleContains != "" {
		add("title LIKE $%d", "%"+f.TitleContains+"%")
	}
	if f.RegistryNumberContains != "" {
		add("registry_number LIKE $%d", "%"+f.RegistryNumberContains+"%")
	}
	if !f.DateFrom.IsZero() {
		add("doc_date >= $%d", f.DateFrom)
	}
	if !f.DateTo.IsZero() {
		add("doc_date <= $%d", f.DateTo)
	}
	if f.Direction != "" {
		add("registry_number LIKE $%d", f.Direction.NumberPrefix()+"%")
	}

	sb.WriteString(" ORDER BY created_at DESC")

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Update rewrites the editable fields of a row. flow_direction is deliberately
// absent from the SET list: the direction is immutable after creation.
func (r *DocumentPostgres) Update(ctx context.Context, doc *model.Document) (int64, error) {
	const q = `
		UPDATE documents
		SET sender = $1, registry_number = $2, title = $3, doc_date = $4, notes = $5, pdf_filename = $6, updated_at = $7
		WHERE id = $8
	`
	res, err := r.db.ExecContext(ctx, q,
		nullable(doc.Sender),
		doc.RegistryNumber,
		doc.Title,
		doc.Date,
		nullable(doc.Notes),
		nullable(doc.PDFFilename),
		doc.UpdatedAt,
		doc.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, repository.ErrDuplicateRegistryNumber
		}
		return 0, err
	}
	return res.RowsAffected()
}

// ClearAttachment nulls the attachment reference on the row.
func (r *DocumentPostgres) ClearAttachment(ctx context.Context, id string) (int64, error) {
	const q = `UPDATE documents SET pdf_filename = NULL, updated_at = now() WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Delete removes a document row by ID.
func (r *DocumentPostgres) Delete(ctx context.Context, id string) (int64, error) {
	const q = `DELETE FROM documents WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// CountByYear counts all documents, both directions combined, whose logical
// date falls in the given calendar year.
func (r *DocumentPostgres) CountByYear(ctx context.Context, year int) (int, error) {
	const q = `SELECT COUNT(*) FROM documents WHERE EXTRACT(YEAR FROM doc_date) = $1`
	var n int
	if err := r.db.QueryRowContext(ctx, q, year).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
