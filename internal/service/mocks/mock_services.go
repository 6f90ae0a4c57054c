package mocks

import (
	"context"
	"io"

	"tabgate/internal/engine"
	"tabgate/internal/model"
	"tabgate/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockUploadService struct {
	mock.Mock
}

func (m *MockUploadService) Upload(ctx context.Context, r io.Reader, originalFilename string) (*model.UploadResult, error) {
	args := m.Called(ctx, r, originalFilename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UploadResult), args.Error(1)
}

func (m *MockUploadService) List(ctx context.Context, limit, offset int) (*model.UploadList, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UploadList), args.Error(1)
}

type MockAnalysisService struct {
	mock.Mock
}

func (m *MockAnalysisService) Analyze(ctx context.Context, filepath, analysisType string) (*model.AnalysisEnvelope, error) {
	args := m.Called(ctx, filepath, analysisType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AnalysisEnvelope), args.Error(1)
}

type MockCleaningService struct {
	mock.Mock
}

func (m *MockCleaningService) Clean(ctx context.Context, in service.CleanInput) (*model.CleaningResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CleaningResult), args.Error(1)
}

func (m *MockCleaningService) Download(ctx context.Context, filepath string) (*engine.Download, error) {
	args := m.Called(ctx, filepath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*engine.Download), args.Error(1)
}

type MockTrainingService struct {
	mock.Mock
}

func (m *MockTrainingService) Train(ctx context.Context, in service.TrainInput) (*model.TrainingResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TrainingResult), args.Error(1)
}
