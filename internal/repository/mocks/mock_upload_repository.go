package mocks

import (
	"context"

	"tabgate/internal/model"
	"tabgate/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockUploadRepository struct {
	mock.Mock
}

func (m *MockUploadRepository) Create(ctx context.Context, f *model.StoredFile) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

func (m *MockUploadRepository) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.StoredFile], error) {
	args := m.Called(ctx, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.StoredFile]), args.Error(1)
}
