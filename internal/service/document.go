package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"urudzbenik/internal/model"
	"urudzbenik/internal/registry"
	"urudzbenik/internal/repository"
	"urudzbenik/internal/storage"
)

var (
	ErrIDRequired          = errors.New("id is required")
	ErrNotFound            = errors.New("document not found")
	ErrNoAttachment        = errors.New("document has no attachment")
	ErrRegistryNumberTaken = errors.New("registry number already in use")
)

// ValidationError reports a missing or malformed input field. It is rejected
// before any persistence attempt.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// CreateDocumentInput carries the user-editable fields for a new document.
// RegistryNumber may be empty, in which case the allocator suggests one for
// the current year.
type CreateDocumentInput struct {
	FlowDirection  model.FlowDirection
	Sender         string
	RegistryNumber string
	Title          string
	Date           model.Date
	Notes          string
}

// UpdateDocumentInput carries every editable field of an existing document.
// The flow direction is deliberately absent: it never changes after creation.
type UpdateDocumentInput struct {
	Sender         string
	RegistryNumber string
	Title          string
	Date           model.Date
	Notes          string
}

// AttachmentUpload is a boundary-validated PDF upload. The HTTP layer has
// already checked part count, MIME type, and size before it reaches here.
type AttachmentUpload struct {
	Reader   io.Reader
	Filename string
	Size     int64
}

// CreateResult reports the new document and whether a PDF was stored with it.
type CreateResult struct {
	ID          string
	PDFUploaded bool
	PDFFilename string
}

// UpdateResult reports whether the update replaced the attachment.
type UpdateResult struct {
	PDFUpdated  bool
	PDFFilename string
}

// DownloadInfo accompanies a streamed attachment.
type DownloadInfo struct {
	Filename    string
	ContentType string
	Size        int64
}

// DocumentService defines the use cases of the correspondence registry.
type DocumentService interface {
	// List returns documents matching the filter, newest-created first.
	List(ctx context.Context, f repository.DocumentFilter) ([]model.Document, error)

	// Create validates the input, derives the sender where the direction
	// implies one, persists a new row, and stores the attachment if given.
	Create(ctx context.Context, input CreateDocumentInput, upload *AttachmentUpload) (*CreateResult, error)

	// Update applies all editable fields and handles attachment replacement:
	// the new file is stored first, then the row is updated, and only after
	// the update succeeds is the previous file deleted.
	Update(ctx context.Context, id string, input UpdateDocumentInput, upload *AttachmentUpload) (*UpdateResult, error)

	// Delete removes the row and then its attachment file if one existed.
	Delete(ctx context.Context, id string) error

	// RemoveAttachment clears the attachment reference on the row first,
	// then deletes the physical file.
	RemoveAttachment(ctx context.Context, id string) error

	// FetchAttachment streams the attachment bytes with download metadata.
	FetchAttachment(ctx context.Context, id string) (io.ReadCloser, *DownloadInfo, error)

	// NextNumber suggests (without reserving) the next registry number for
	// the direction in the current year.
	NextNumber(ctx context.Context, direction model.FlowDirection) (string, error)
}

// documentService is a concrete implementation of DocumentService.
type documentService struct {
	store storage.Storage
	repo  repository.DocumentRepository
	alloc registry.Allocator
	log   *zap.Logger
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(store storage.Storage, repo repository.DocumentRepository, alloc registry.Allocator, log *zap.Logger) DocumentService {
	if log == nil {
		log = zap.NewNop()
	}
	return &documentService{store: store, repo: repo, alloc: alloc, log: log}
}

var nonAlnum = regexp.MustCompile(`[^a-zA-Z0-9]`)

// downloadFilename derives the suggested download name from the title, with
// every non-alphanumeric rune replaced by an underscore.
func downloadFilename(title string) string {
	return nonAlnum.ReplaceAllString(title, "_") + ".pdf"
}

var whitespace = regexp.MustCompile(`\s+`)

// storedObjectKey generates the collision-resistant storage key for an
// uploaded file: millisecond timestamp prefix plus the sanitized original name.
func storedObjectKey(original string) string {
	return fmt.Sprintf("%d_%s", time.Now().UnixMilli(), whitespace.ReplaceAllString(original, "_"))
}

func (s *documentService) List(ctx context.Context, f repository.DocumentFilter) ([]model.Document, error) {
	return s.repo.List(ctx, f)
}

func (s *documentService) Create(ctx context.Context, input CreateDocumentInput, upload *AttachmentUpload) (*CreateResult, error) {
	if !input.FlowDirection.Valid() {
		return nil, &ValidationError{Field: "type", Reason: "must be one of zpgk_out, hazu_in, third_party_in"}
	}
	if input.Title == "" {
		return nil, &ValidationError{Field: "title", Reason: "is required"}
	}
	if input.Date.IsZero() {
		return nil, &ValidationError{Field: "date", Reason: "is required"}
	}

	sender, err := deriveSender(input.FlowDirection, input.Sender)
	if err != nil {
		return nil, err
	}

	number := input.RegistryNumber
	if number == "" {
		number, err = s.alloc.Next(ctx, input.FlowDirection, time.Now().Year())
		if err != nil {
			return nil, fmt.Errorf("allocate registry number: %w", err)
		}
	}

	now := time.Now().UTC()
	doc := &model.Document{
		ID:             uuid.New().String(),
		FlowDirection:  input.FlowDirection,
		Sender:         sender,
		RegistryNumber: number,
		Title:          input.Title,
		Date:           input.Date,
		Notes:          input.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	// Staged before the insert so a failed insert never leaves a row pointing
	// at a missing file; the staged object is cleaned up on failure instead.
	if upload != nil {
		key := storedObjectKey(upload.Filename)
		if _, err := s.store.Put(ctx, key, upload.Reader, storage.PutObjectOptions{
			Size:        upload.Size,
			ContentType: "application/pdf",
		}); err != nil {
			return nil, fmt.Errorf("store attachment: %w", err)
		}
		doc.PDFFilename = key
	}

	stored, err := s.repo.Create(ctx, doc)
	if err != nil {
		if doc.PDFFilename != "" {
			s.removeObject(ctx, doc.PDFFilename)
		}
		if errors.Is(err, repository.ErrDuplicateRegistryNumber) {
			return nil, ErrRegistryNumberTaken
		}
		return nil, fmt.Errorf("insert document: %w", err)
	}

	return &CreateResult{
		ID:          stored.ID,
		PDFUploaded: stored.PDFFilename != "",
		PDFFilename: stored.PDFFilename,
	}, nil
}

func (s *documentService) Update(ctx context.Context, id string, input UpdateDocumentInput, upload *AttachmentUpload) (*UpdateResult, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	if input.Title == "" {
		return nil, &ValidationError{Field: "title", Reason: "is required"}
	}
	if input.Date.IsZero() {
		return nil, &ValidationError{Field: "date", Reason: "is required"}
	}
	if input.RegistryNumber == "" {
		return nil, &ValidationError{Field: "registry_number", Reason: "is required"}
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find document: %w", err)
	}

	// The direction stays whatever it was at creation.
	sender, err := deriveSender(existing.FlowDirection, input.Sender)
	if err != nil {
		return nil, err
	}

	doc := *existing
	doc.Sender = sender
	doc.RegistryNumber = input.RegistryNumber
	doc.Title = input.Title
	doc.Date = input.Date
	doc.Notes = input.Notes
	doc.UpdatedAt = time.Now().UTC()

	// Attachment replacement protocol: write the new object, point the row at
	// it, and delete the old object only after the row update succeeded.
	staged := ""
	if upload != nil {
		staged = storedObjectKey(upload.Filename)
		if _, err := s.store.Put(ctx, staged, upload.Reader, storage.PutObjectOptions{
			Size:        upload.Size,
			ContentType: "application/pdf",
		}); err != nil {
			return nil, fmt.Errorf("store attachment: %w", err)
		}
		doc.PDFFilename = staged
	}

	n, err := s.repo.Update(ctx, &doc)
	if err != nil {
		if staged != "" {
			s.removeObject(ctx, staged)
		}
		if errors.Is(err, repository.ErrDuplicateRegistryNumber) {
			return nil, ErrRegistryNumberTaken
		}
		return nil, fmt.Errorf("update document: %w", err)
	}
	if n == 0 {
		// Row vanished between find and update; unstage the new file so it
		// does not end up orphaned.
		if staged != "" {
			s.removeObject(ctx, staged)
		}
		return nil, ErrNotFound
	}

	if staged != "" && existing.PDFFilename != "" {
		s.removeObject(ctx, existing.PDFFilename)
	}

	return &UpdateResult{
		PDFUpdated:  staged != "",
		PDFFilename: doc.PDFFilename,
	}, nil
}

func (s *documentService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("find document: %w", err)
	}

	n, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	// The row is gone; the file removal is best effort because the database
	// is the authoritative state.
	if existing.HasAttachment() {
		s.removeObject(ctx, existing.PDFFilename)
	}
	return nil
}

func (s *documentService) RemoveAttachment(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("find document: %w", err)
	}
	if !existing.HasAttachment() {
		return ErrNoAttachment
	}

	// Clear the reference first; a dangling file is recoverable, a row
	// pointing at a deleted file is not.
	n, err := s.repo.ClearAttachment(ctx, id)
	if err != nil {
		return fmt.Errorf("clear attachment: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	s.removeObject(ctx, existing.PDFFilename)
	return nil
}

func (s *documentService) FetchAttachment(ctx context.Context, id string) (io.ReadCloser, *DownloadInfo, error) {
	if id == "" {
		return nil, nil, ErrIDRequired
	}
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("find document: %w", err)
	}
	if !existing.HasAttachment() {
		return nil, nil, ErrNoAttachment
	}

	rc, info, err := s.store.Get(ctx, existing.PDFFilename)
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			// Referenced file is missing from the store.
			return nil, nil, ErrNoAttachment
		}
		return nil, nil, fmt.Errorf("open attachment: %w", err)
	}

	return rc, &DownloadInfo{
		Filename:    downloadFilename(existing.Title),
		ContentType: "application/pdf",
		Size:        info.Size,
	}, nil
}

func (s *documentService) NextNumber(ctx context.Context, direction model.FlowDirection) (string, error) {
	if !direction.Valid() {
		return "", &ValidationError{Field: "direction", Reason: "must be one of zpgk_out, hazu_in, third_party_in"}
	}
	return s.alloc.Next(ctx, direction, time.Now().Year())
}

// deriveSender resolves the sender from the direction: fixed for two of the
// three variants, user-supplied (and then required) for third-party mail.
func deriveSender(direction model.FlowDirection, supplied string) (string, error) {
	if sender, ok := direction.FixedSender(); ok {
		return sender, nil
	}
	if supplied == "" {
		return "", &ValidationError{Field: "sender", Reason: "is required for third-party correspondence"}
	}
	return supplied, nil
}

// removeObject deletes a stored file, tolerating "already absent" and logging
// any other failure without propagating it. Cleanup never masks the outcome
// of the operation that triggered it.
func (s *documentService) removeObject(ctx context.Context, key string) {
	if err := s.store.Delete(ctx, key); err != nil && !errors.Is(err, storage.ErrNotExist) {
		s.log.Warn("could not delete attachment file",
			zap.String("pdf_filename", key),
			zap.Error(err),
		)
	}
}
