package mocks

import (
	"context"
	"encoding/json"

	"tabgate/internal/engine"

	"github.com/stretchr/testify/mock"
)

type MockEngine struct {
	mock.Mock
}

func (m *MockEngine) Analyze(ctx context.Context, req engine.AnalyzeRequest) (json.RawMessage, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *MockEngine) Clean(ctx context.Context, req engine.CleanRequest) (*engine.CleanResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*engine.CleanResponse), args.Error(1)
}

func (m *MockEngine) Train(ctx context.Context, req engine.TrainRequest) (*engine.TrainResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*engine.TrainResponse), args.Error(1)
}

func (m *MockEngine) Download(ctx context.Context, filepath string) (*engine.Download, error) {
	args := m.Called(ctx, filepath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*engine.Download), args.Error(1)
}

func (m *MockEngine) Health(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
