package service

import (
	"context"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"tabgate/internal/engine"
	"tabgate/internal/model"
	"tabgate/internal/storage"
)

// CleanInput is the request to clean a stored dataset.
type CleanInput struct {
	Filepath       string
	CleaningMethod string
	// Columns is optional. Nil means the engine applies the method to every column.
	Columns []string
}

// CleaningService delegates cleaning and cleaned-file retrieval to the engine.
type CleaningService interface {
	Clean(ctx context.Context, in CleanInput) (*model.CleaningResult, error)
	// Download streams a cleaned file back from the engine. The caller must close the body.
	Download(ctx context.Context, filepath string) (*engine.Download, error)
}

type cleaningService struct {
	store  *storage.Local
	engine engine.Engine
}

// NewCleaningService constructs a new CleaningService.
func NewCleaningService(store *storage.Local, eng engine.Engine) CleaningService {
	return &cleaningService{store: store, engine: eng}
}

func (s *cleaningService) Clean(ctx context.Context, in CleanInput) (res *model.CleaningResult, err error) {
	ctx, span := tracer.Start(ctx, "cleaning.Clean")
	defer func() { endSpan(span, err) }()

	if strings.TrimSpace(in.Filepath) == "" {
		return nil, ErrFilepathRequired
	}
	if strings.TrimSpace(in.CleaningMethod) == "" {
		return nil, ErrCleaningMethodRequired
	}
	resolved, err := s.store.Resolve(in.Filepath)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("cleaning.method", in.CleaningMethod))

	out, err := s.engine.Clean(ctx, engine.CleanRequest{
		Filepath:       resolved,
		CleaningMethod: in.CleaningMethod,
		Columns:        in.Columns,
	})
	if err != nil {
		slog.WarnContext(ctx, "cleaning failed", "filepath", resolved, "method", in.CleaningMethod, "error", err)
		return nil, err
	}

	slog.InfoContext(ctx, "cleaning completed", "filepath", resolved, "method", in.CleaningMethod)

	return &model.CleaningResult{
		Success:      true,
		CleanedData:  out.CleanedData,
		Summary:      out.Summary,
		OriginalRows: out.OriginalRows,
		CleanedRows:  out.CleanedRows,
		RemovedRows:  out.RemovedRows,
		Method:       out.Method,
	}, nil
}

func (s *cleaningService) Download(ctx context.Context, path string) (*engine.Download, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrFilepathRequired
	}
	resolved, err := s.store.Resolve(path)
	if err != nil {
		return nil, err
	}
	return s.engine.Download(ctx, resolved)
}
