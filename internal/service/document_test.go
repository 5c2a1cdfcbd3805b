package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"urudzbenik/internal/model"
	registryMocks "urudzbenik/internal/registry/mocks"
	"urudzbenik/internal/repository"
	repoMocks "urudzbenik/internal/repository/mocks"
	"urudzbenik/internal/storage"
	storeMocks "urudzbenik/internal/storage/mocks"
)

func newService(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository, mAlloc *registryMocks.MockAllocator) DocumentService {
	return NewDocumentService(mStore, mRepo, mAlloc, nil)
}

func validCreateInput() CreateDocumentInput {
	return CreateDocumentInput{
		FlowDirection:  model.DirectionOutgoing,
		RegistryNumber: "01/01-2025",
		Title:          "Annual report",
		Date:           model.NewDate(2025, 6, 10),
	}
}

func TestDocumentService_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		input      func() CreateDocumentInput
		upload     *AttachmentUpload
		setupMocks func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository, mAlloc *registryMocks.MockAllocator)
		wantErr    error
		wantField  string
		check      func(t *testing.T, res *CreateResult)
	}{
		{
			name:  "happy path without attachment",
			input: validCreateInput,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository, mAlloc *registryMocks.MockAllocator) {
				mRepo.On("Create", ctx, mock.MatchedBy(func(doc *model.Document) bool {
					return doc.ID != "" && doc.Sender == "ZPGK" && doc.RegistryNumber == "01/01-2025"
				})).Return(&model.Document{ID: "gen-id", RegistryNumber: "01/01-2025"}, nil)
			},
			check: func(t *testing.T, res *CreateResult) {
				assert.Equal(t, "gen-id", res.ID)
				assert.False(t, res.PDFUploaded)
			},
		},
		{
			name: "registry number falls back to the allocator",
			input: func() CreateDocumentInput {
				in := validCreateInput()
				in.RegistryNumber = ""
				return in
			},
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository, mAlloc *registryMocks.MockAllocator) {
				mAlloc.On("Next", ctx, model.DirectionOutgoing, time.Now().Year()).Return("01/05-2025", nil)
				mRepo.On("Create", ctx, mock.MatchedBy(func(doc *model.Document) bool {
					return doc.RegistryNumber == "01/05-2025"
				})).Return(&model.Document{ID: "gen-id", RegistryNumber: "01/05-2025"}, nil)
			},
		},
		{
			name: "partner direction derives sender HAZU",
			input: func() CreateDocumentInput {
				in := validCreateInput()
				in.FlowDirection = model.DirectionIncomingPartner
				in.RegistryNumber = "02/02-2025"
				in.Sender = "ignored"
				return in
			},
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository, mAlloc *registryMocks.MockAllocator) {
				mRepo.On("Create", ctx, mock.MatchedBy(func(doc *model.Document) bool {
					return doc.Sender == "HAZU"
				})).Return(&model.Document{ID: "gen-id"}, nil)
			},
		},
		{
			name: "third party requires a sender",
			input: func() CreateDocumentInput {
				in := validCreateInput()
				in.FlowDirection = model.DirectionIncomingThirdParty
				in.Sender = ""
				return in
			},
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository, mAlloc *registryMocks.MockAllocator) {
			},
			wantField: "sender",
		},
		{
			name: "missing title",
			input: func() CreateDocumentInput {
				in := validCreateInput()
				in.Title = ""
				return in
			},
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository, mAlloc *registryMocks.MockAllocator) {
			},
			wantField: "title",
		},
		{
			name: "missing date",
			input: func() CreateDocumentInput {
				in := validCreateInput()
				in.Date = model.Date{}
				return in
			},
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository, mAlloc *registryMocks.MockAllocator) {
			},
			wantField: "date",
		},
		{
			name: "invalid direction",
			input: func() CreateDocumentInput {
				in := validCreateInput()
				in.FlowDirection = "sideways"
				return in
			},
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository, mAlloc *registryMocks.MockAllocator) {
			},
			wantField: "type",
		},
		{
			name:   "attachment is stored before the insert",
			input:  validCreateInput,
			upload: &AttachmentUpload{Reader: strings.NewReader("%PDF"), Filename: "annual report.pdf", Size: 4},
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository, mAlloc *registryMocks.MockAllocator) {
				mStore.On("Put", ctx, mock.MatchedBy(func(key string) bool {
					return strings.HasSuffix(key, "_annual_report.pdf")
				}), mock.Anything, storage.PutObjectOptions{Size: 4, ContentType: "application/pdf"}).
					Return(func(ctx context.Context, key string, r io.Reader, opt storage.PutObjectOptions) storage.ObjectInfo {
						return storage.ObjectInfo{Key: key, Size: opt.Size}
					}, nil)
				mRepo.On("Create", ctx, mock.MatchedBy(func(doc *model.Document) bool {
					return doc.PDFFilename != ""
				})).Return(func(ctx context.Context, doc *model.Document) *model.Document {
					return doc
				}, nil)
			},
			check: func(t *testing.T, res *CreateResult) {
				assert.True(t, res.PDFUploaded)
				assert.Contains(t, res.PDFFilename, "_annual_report.pdf")
			},
		},
		{
			name:   "insert failure cleans up the staged file",
			input:  validCreateInput,
			upload: &AttachmentUpload{Reader: strings.NewReader("%PDF"), Filename: "scan.pdf", Size: 4},
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository, mAlloc *registryMocks.MockAllocator) {
				mStore.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
					Return(storage.ObjectInfo{}, nil)
				mRepo.On("Create", ctx, mock.Anything).Return(nil, errors.New("db fail"))
				mStore.On("Delete", ctx, mock.Anything).Return(nil)
			},
			wantErr: errors.New("insert document: db fail"),
		},
		{
			name:  "duplicate registry number maps to conflict",
			input: validCreateInput,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository, mAlloc *registryMocks.MockAllocator) {
				mRepo.On("Create", ctx, mock.Anything).Return(nil, repository.ErrDuplicateRegistryNumber)
			},
			wantErr: ErrRegistryNumberTaken,
		},
		{
			name: "allocator failure surfaces with no fallback",
			input: func() CreateDocumentInput {
				in := validCreateInput()
				in.RegistryNumber = ""
				return in
			},
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository, mAlloc *registryMocks.MockAllocator) {
				mAlloc.On("Next", ctx, model.DirectionOutgoing, mock.Anything).Return("", errors.New("db down"))
			},
			wantErr: errors.New("allocate registry number: db down"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mStore := new(storeMocks.MockStorage)
			mRepo := new(repoMocks.MockDocumentRepository)
			mAlloc := new(registryMocks.MockAllocator)
			svc := newService(mStore, mRepo, mAlloc)

			tt.setupMocks(mStore, mRepo, mAlloc)

			res, err := svc.Create(ctx, tt.input(), tt.upload)

			switch {
			case tt.wantField != "":
				var verr *ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, tt.wantField, verr.Field)
			case tt.wantErr != nil:
				require.Error(t, err)
				if errors.Is(tt.wantErr, ErrRegistryNumberTaken) {
					assert.ErrorIs(t, err, tt.wantErr)
				} else {
					assert.Contains(t, err.Error(), tt.wantErr.Error())
				}
			default:
				require.NoError(t, err)
				require.NotNil(t, res)
				if tt.check != nil {
					tt.check(t, res)
				}
			}

			mStore.AssertExpectations(t)
			mRepo.AssertExpectations(t)
			mAlloc.AssertExpectations(t)
		})
	}
}

func validUpdateInput() UpdateDocumentInput {
	return UpdateDocumentInput{
		Sender:         "Ministry of Culture",
		RegistryNumber: "02/03-2025",
		Title:          "Reply to inquiry",
		Date:           model.NewDate(2025, 7, 1),
	}
}

func existingDoc(pdf string) *model.Document {
	return &model.Document{
		ID:             "doc-1",
		FlowDirection:  model.DirectionIncomingThirdParty,
		Sender:         "Someone",
		RegistryNumber: "02/03-2025",
		Title:          "Original title",
		Date:           model.NewDate(2025, 6, 1),
		PDFFilename:    pdf,
	}
}

func TestDocumentService_Update(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		id         string
		input      func() UpdateDocumentInput
		upload     *AttachmentUpload
		setupMocks func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository)
		wantErr    error
		wantField  string
		check      func(t *testing.T, res *UpdateResult)
	}{
		{
			name:  "no new file keeps the existing attachment",
			id:    "doc-1",
			input: validUpdateInput,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("FindByID", ctx, "doc-1").Return(existingDoc("old.pdf"), nil)
				mRepo.On("Update", ctx, mock.MatchedBy(func(doc *model.Document) bool {
					return doc.PDFFilename == "old.pdf" && doc.Title == "Reply to inquiry" && doc.FlowDirection == model.DirectionIncomingThirdParty
				})).Return(int64(1), nil)
			},
			check: func(t *testing.T, res *UpdateResult) {
				assert.False(t, res.PDFUpdated)
				assert.Equal(t, "old.pdf", res.PDFFilename)
			},
		},
		{
			name:   "new file replaces the old one only after the row update",
			id:     "doc-1",
			input:  validUpdateInput,
			upload: &AttachmentUpload{Reader: strings.NewReader("%PDF"), Filename: "new scan.pdf", Size: 4},
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("FindByID", ctx, "doc-1").Return(existingDoc("old.pdf"), nil)
				mStore.On("Put", ctx, mock.MatchedBy(func(key string) bool {
					return strings.HasSuffix(key, "_new_scan.pdf")
				}), mock.Anything, mock.Anything).Return(storage.ObjectInfo{}, nil)
				mRepo.On("Update", ctx, mock.MatchedBy(func(doc *model.Document) bool {
					return strings.HasSuffix(doc.PDFFilename, "_new_scan.pdf")
				})).Return(int64(1), nil)
				mStore.On("Delete", ctx, "old.pdf").Return(nil)
			},
			check: func(t *testing.T, res *UpdateResult) {
				assert.True(t, res.PDFUpdated)
				assert.Contains(t, res.PDFFilename, "_new_scan.pdf")
			},
		},
		{
			name:   "old file already absent is tolerated",
			id:     "doc-1",
			input:  validUpdateInput,
			upload: &AttachmentUpload{Reader: strings.NewReader("%PDF"), Filename: "scan.pdf", Size: 4},
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("FindByID", ctx, "doc-1").Return(existingDoc("old.pdf"), nil)
				mStore.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).Return(storage.ObjectInfo{}, nil)
				mRepo.On("Update", ctx, mock.Anything).Return(int64(1), nil)
				mStore.On("Delete", ctx, "old.pdf").Return(storage.ErrNotExist)
			},
		},
		{
			name:  "unknown id",
			id:    "missing",
			input: validUpdateInput,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("FindByID", ctx, "missing").Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrNotFound,
		},
		{
			name:   "zero rows affected unstages the new file",
			id:     "doc-1",
			input:  validUpdateInput,
			upload: &AttachmentUpload{Reader: strings.NewReader("%PDF"), Filename: "scan.pdf", Size: 4},
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("FindByID", ctx, "doc-1").Return(existingDoc(""), nil)
				mStore.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).Return(storage.ObjectInfo{}, nil)
				mRepo.On("Update", ctx, mock.Anything).Return(int64(0), nil)
				mStore.On("Delete", ctx, mock.MatchedBy(func(key string) bool {
					return strings.HasSuffix(key, "_scan.pdf")
				})).Return(nil)
			},
			wantErr: ErrNotFound,
		},
		{
			name:  "duplicate registry number maps to conflict",
			id:    "doc-1",
			input: validUpdateInput,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("FindByID", ctx, "doc-1").Return(existingDoc(""), nil)
				mRepo.On("Update", ctx, mock.Anything).Return(int64(0), repository.ErrDuplicateRegistryNumber)
			},
			wantErr: ErrRegistryNumberTaken,
		},
		{
			name: "missing registry number",
			id:   "doc-1",
			input: func() UpdateDocumentInput {
				in := validUpdateInput()
				in.RegistryNumber = ""
				return in
			},
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) {},
			wantField:  "registry_number",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mStore := new(storeMocks.MockStorage)
			mRepo := new(repoMocks.MockDocumentRepository)
			svc := newService(mStore, mRepo, nil)

			tt.setupMocks(mStore, mRepo)

			res, err := svc.Update(ctx, tt.id, tt.input(), tt.upload)

			switch {
			case tt.wantField != "":
				var verr *ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, tt.wantField, verr.Field)
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			default:
				require.NoError(t, err)
				if tt.check != nil {
					tt.check(t, res)
				}
			}

			mStore.AssertExpectations(t)
			mRepo.AssertExpectations(t)
		})
	}
}

func TestDocumentService_Delete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		id         string
		setupMocks func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository)
		wantErr    error
	}{
		{
			name: "row and file removed",
			id:   "doc-1",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("FindByID", ctx, "doc-1").Return(existingDoc("old.pdf"), nil)
				mRepo.On("Delete", ctx, "doc-1").Return(int64(1), nil)
				mStore.On("Delete", ctx, "old.pdf").Return(nil)
			},
		},
		{
			name: "no attachment skips the store",
			id:   "doc-1",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("FindByID", ctx, "doc-1").Return(existingDoc(""), nil)
				mRepo.On("Delete", ctx, "doc-1").Return(int64(1), nil)
			},
		},
		{
			name: "file already absent is non-fatal",
			id:   "doc-1",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("FindByID", ctx, "doc-1").Return(existingDoc("old.pdf"), nil)
				mRepo.On("Delete", ctx, "doc-1").Return(int64(1), nil)
				mStore.On("Delete", ctx, "old.pdf").Return(storage.ErrNotExist)
			},
		},
		{
			name: "file deletion failure is logged, not returned",
			id:   "doc-1",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("FindByID", ctx, "doc-1").Return(existingDoc("old.pdf"), nil)
				mRepo.On("Delete", ctx, "doc-1").Return(int64(1), nil)
				mStore.On("Delete", ctx, "old.pdf").Return(errors.New("disk fault"))
			},
		},
		{
			name:       "empty id",
			id:         "",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) {},
			wantErr:    ErrIDRequired,
		},
		{
			name: "unknown id",
			id:   "missing",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("FindByID", ctx, "missing").Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrNotFound,
		},
		{
			name: "row vanished before delete",
			id:   "doc-1",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("FindByID", ctx, "doc-1").Return(existingDoc(""), nil)
				mRepo.On("Delete", ctx, "doc-1").Return(int64(0), nil)
			},
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mStore := new(storeMocks.MockStorage)
			mRepo := new(repoMocks.MockDocumentRepository)
			svc := newService(mStore, mRepo, nil)

			tt.setupMocks(mStore, mRepo)

			err := svc.Delete(ctx, tt.id)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			mStore.AssertExpectations(t)
			mRepo.AssertExpectations(t)
		})
	}
}

func TestDocumentService_RemoveAttachment(t *testing.T) {
	ctx := context.Background()

	t.Run("clears the row before deleting the file", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockDocumentRepository)
		svc := newService(mStore, mRepo, nil)

		mRepo.On("FindByID", ctx, "doc-1").Return(existingDoc("old.pdf"), nil)
		mRepo.On("ClearAttachment", ctx, "doc-1").Return(int64(1), nil)
		mStore.On("Delete", ctx, "old.pdf").Return(nil)

		require.NoError(t, svc.RemoveAttachment(ctx, "doc-1"))
		mStore.AssertExpectations(t)
		mRepo.AssertExpectations(t)
	})

	t.Run("second removal has nothing left", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		svc := newService(new(storeMocks.MockStorage), mRepo, nil)

		mRepo.On("FindByID", ctx, "doc-1").Return(existingDoc(""), nil)

		assert.ErrorIs(t, svc.RemoveAttachment(ctx, "doc-1"), ErrNoAttachment)
	})

	t.Run("unknown document", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		svc := newService(new(storeMocks.MockStorage), mRepo, nil)

		mRepo.On("FindByID", ctx, "missing").Return(nil, sql.ErrNoRows)

		assert.ErrorIs(t, svc.RemoveAttachment(ctx, "missing"), ErrNotFound)
	})

	t.Run("file already absent still succeeds", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockDocumentRepository)
		svc := newService(mStore, mRepo, nil)

		mRepo.On("FindByID", ctx, "doc-1").Return(existingDoc("old.pdf"), nil)
		mRepo.On("ClearAttachment", ctx, "doc-1").Return(int64(1), nil)
		mStore.On("Delete", ctx, "old.pdf").Return(storage.ErrNotExist)

		assert.NoError(t, svc.RemoveAttachment(ctx, "doc-1"))
	})
}

func TestDocumentService_FetchAttachment(t *testing.T) {
	ctx := context.Background()

	t.Run("streams the file with a sanitized filename", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockDocumentRepository)
		svc := newService(mStore, mRepo, nil)

		doc := existingDoc("old.pdf")
		doc.Title = "Ugovor br. 7/2025"
		mRepo.On("FindByID", ctx, "doc-1").Return(doc, nil)
		mStore.On("Get", ctx, "old.pdf").
			Return(io.NopCloser(strings.NewReader("%PDF-1.4")), storage.ObjectInfo{Key: "old.pdf", Size: 8}, nil)

		rc, info, err := svc.FetchAttachment(ctx, "doc-1")

		require.NoError(t, err)
		defer rc.Close()
		assert.Equal(t, "Ugovor_br__7_2025.pdf", info.Filename)
		assert.Equal(t, "application/pdf", info.ContentType)
		assert.EqualValues(t, 8, info.Size)

		body, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, "%PDF-1.4", string(body))
	})

	t.Run("no attachment reference", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		svc := newService(new(storeMocks.MockStorage), mRepo, nil)

		mRepo.On("FindByID", ctx, "doc-1").Return(existingDoc(""), nil)

		_, _, err := svc.FetchAttachment(ctx, "doc-1")
		assert.ErrorIs(t, err, ErrNoAttachment)
	})

	t.Run("file missing from the store", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockDocumentRepository)
		svc := newService(mStore, mRepo, nil)

		mRepo.On("FindByID", ctx, "doc-1").Return(existingDoc("old.pdf"), nil)
		mStore.On("Get", ctx, "old.pdf").Return(nil, storage.ObjectInfo{}, storage.ErrNotExist)

		_, _, err := svc.FetchAttachment(ctx, "doc-1")
		assert.ErrorIs(t, err, ErrNoAttachment)
	})

	t.Run("unknown document", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		svc := newService(new(storeMocks.MockStorage), mRepo, nil)

		mRepo.On("FindByID", ctx, "missing").Return(nil, sql.ErrNoRows)

		_, _, err := svc.FetchAttachment(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestDocumentService_NextNumber(t *testing.T) {
	ctx := context.Background()

	t.Run("delegates to the allocator for the current year", func(t *testing.T) {
		mAlloc := new(registryMocks.MockAllocator)
		svc := newService(nil, nil, mAlloc)

		mAlloc.On("Next", ctx, model.DirectionOutgoing, time.Now().Year()).Return("01/03-2026", nil)

		got, err := svc.NextNumber(ctx, model.DirectionOutgoing)

		require.NoError(t, err)
		assert.Equal(t, "01/03-2026", got)
		mAlloc.AssertExpectations(t)
	})

	t.Run("invalid direction", func(t *testing.T) {
		svc := newService(nil, nil, new(registryMocks.MockAllocator))

		_, err := svc.NextNumber(ctx, "sideways")

		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
	})
}

func TestDocumentService_List(t *testing.T) {
	ctx := context.Background()
	mRepo := new(repoMocks.MockDocumentRepository)
	svc := newService(nil, mRepo, nil)

	f := repository.DocumentFilter{Year: 2025, Direction: model.FilterOutgoing}
	mRepo.On("List", ctx, f).Return([]model.Document{{ID: "1"}, {ID: "2"}}, nil)

	docs, err := svc.List(ctx, f)

	require.NoError(t, err)
	assert.Len(t, docs, 2)
	mRepo.AssertExpectations(t)
}
