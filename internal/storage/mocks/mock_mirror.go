package mocks

import (
	"context"
	"io"

	"tabgate/internal/storage"

	"github.com/stretchr/testify/mock"
)

type MockMirror struct {
	mock.Mock
}

func (m *MockMirror) Put(ctx context.Context, key string, r io.Reader, opt storage.PutObjectOptions) (storage.ObjectInfo, error) {
	args := m.Called(ctx, key, r, opt)
	return args.Get(0).(storage.ObjectInfo), args.Error(1)
}
