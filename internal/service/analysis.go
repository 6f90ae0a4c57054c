package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"tabgate/internal/engine"
	"tabgate/internal/model"
	"tabgate/internal/storage"
	"tabgate/internal/tabular"
)

const defaultAnalysisType = "full"

// AnalysisService forwards a stored dataset to the engine for statistical analysis.
type AnalysisService interface {
	// Analyze re-parses the file on every call, since a cleaning run may have
	// rewritten it, and wraps the engine's analysis with provenance fields.
	Analyze(ctx context.Context, filepath, analysisType string) (*model.AnalysisEnvelope, error)
}

type analysisService struct {
	store  *storage.Local
	engine engine.Engine
}

// NewAnalysisService constructs a new AnalysisService.
func NewAnalysisService(store *storage.Local, eng engine.Engine) AnalysisService {
	return &analysisService{store: store, engine: eng}
}

func (s *analysisService) Analyze(ctx context.Context, path, analysisType string) (res *model.AnalysisEnvelope, err error) {
	ctx, span := tracer.Start(ctx, "analysis.Analyze")
	defer func() { endSpan(span, err) }()

	if strings.TrimSpace(path) == "" {
		return nil, ErrFilepathRequired
	}
	resolved, err := s.store.Resolve(path)
	if err != nil {
		return nil, err
	}

	ds, err := tabular.Parse(resolved)
	if err != nil {
		if errors.Is(err, tabular.ErrEmptyDataset) || errors.Is(err, tabular.ErrUnreadable) {
			return nil, fmt.Errorf("%w: %v", ErrEmptyOrUnreadable, err)
		}
		return nil, err
	}
	if ds.RowCount == 0 {
		return nil, ErrEmptyOrUnreadable
	}

	if analysisType == "" {
		analysisType = defaultAnalysisType
	}
	span.SetAttributes(
		attribute.String("analysis.type", analysisType),
		attribute.Int("dataset.rows", ds.RowCount),
	)

	analysis, err := s.engine.Analyze(ctx, engine.AnalyzeRequest{
		Data:         ds.Records,
		Columns:      ds.Columns,
		AnalysisType: analysisType,
	})
	if err != nil {
		slog.WarnContext(ctx, "analysis failed", "filepath", resolved, "error", err)
		return nil, err
	}

	slog.InfoContext(ctx, "analysis completed", "filepath", resolved, "rows", ds.RowCount, "analysis_type", analysisType)

	return &model.AnalysisEnvelope{
		Success:  true,
		Filename: filepath.Base(resolved),
		RowCount: ds.RowCount,
		Columns:  ds.Columns,
		Analysis: analysis,
	}, nil
}
