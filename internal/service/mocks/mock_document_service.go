package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"urudzbenik/internal/model"
	"urudzbenik/internal/repository"
	"urudzbenik/internal/service"
)

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) List(ctx context.Context, f repository.DocumentFilter) ([]model.Document, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *MockDocumentService) Create(ctx context.Context, input service.CreateDocumentInput, upload *service.AttachmentUpload) (*service.CreateResult, error) {
	args := m.Called(ctx, input, upload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CreateResult), args.Error(1)
}

func (m *MockDocumentService) Update(ctx context.Context, id string, input service.UpdateDocumentInput, upload *service.AttachmentUpload) (*service.UpdateResult, error) {
	args := m.Called(ctx, id, input, upload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UpdateResult), args.Error(1)
}

func (m *MockDocumentService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDocumentService) RemoveAttachment(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDocumentService) FetchAttachment(ctx context.Context, id string) (io.ReadCloser, *service.DownloadInfo, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.Get(1).(*service.DownloadInfo), args.Error(2)
}

func (m *MockDocumentService) NextNumber(ctx context.Context, direction model.FlowDirection) (string, error) {
	args := m.Called(ctx, direction)
	return args.String(0), args.Error(1)
}
