package service

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"tabgate/internal/engine"
	"tabgate/internal/model"
	"tabgate/internal/storage"
)

// TrainInput is the request to fit a model on a stored dataset.
type TrainInput struct {
	Filepath  string
	ModelType string
	Features  []string
	Target    string
}

// TrainingService validates training requests and delegates fitting to the engine.
type TrainingService interface {
	Train(ctx context.Context, in TrainInput) (*model.TrainingResult, error)
}

type trainingService struct {
	store  *storage.Local
	engine engine.Engine
}

// NewTrainingService constructs a new TrainingService.
func NewTrainingService(store *storage.Local, eng engine.Engine) TrainingService {
	return &trainingService{store: store, engine: eng}
}

func (s *trainingService) Train(ctx context.Context, in TrainInput) (res *model.TrainingResult, err error) {
	ctx, span := tracer.Start(ctx, "training.Train")
	defer func() { endSpan(span, err) }()

	if strings.TrimSpace(in.Filepath) == "" ||
		strings.TrimSpace(in.ModelType) == "" ||
		strings.TrimSpace(in.Target) == "" ||
		len(in.Features) == 0 {
		return nil, ErrMissingParameters
	}
	// A target among its own features leaks the label; reject before any remote call.
	if slices.Contains(in.Features, in.Target) {
		return nil, ErrTargetInFeatures
	}

	resolved, err := s.store.Resolve(in.Filepath)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(
		attribute.String("training.model_type", in.ModelType),
		attribute.Int("training.features", len(in.Features)),
	)

	out, err := s.engine.Train(ctx, engine.TrainRequest{
		Filepath:  resolved,
		ModelType: in.ModelType,
		Features:  in.Features,
		Target:    in.Target,
	})
	if err != nil {
		slog.WarnContext(ctx, "training failed", "filepath", resolved, "model_type", in.ModelType, "error", err)
		return nil, err
	}

	slog.InfoContext(ctx, "training completed", "filepath", resolved, "model_type", in.ModelType)

	return &model.TrainingResult{
		Success:           true,
		TrainingSamples:   out.TrainingSamples,
		TestSamples:       out.TestSamples,
		Metrics:           out.Metrics,
		Predictions:       out.Predictions,
		FeatureImportance: out.FeatureImportance,
		ModelType:         out.ModelType,
	}, nil
}
