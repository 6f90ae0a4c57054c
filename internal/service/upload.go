package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"tabgate/internal/model"
	"tabgate/internal/repository"
	"tabgate/internal/storage"
	"tabgate/internal/tabular"
)

const previewRows = 10

var tracer = otel.Tracer("tabgate/internal/service")

// UploadService defines the intake use cases for tabular datasets.
type UploadService interface {
	// Upload persists r under a generated unique name, parses it and returns its shape.
	// A dataset with a header and no rows is accepted and reported with RowCount 0.
	Upload(ctx context.Context, r io.Reader, originalFilename string) (*model.UploadResult, error)

	// List returns ledger entries using limit/offset.
	List(ctx context.Context, limit, offset int) (*model.UploadList, error)
}

// uploadService writes to the local upload directory. The mirror and the
// ledger are optional and their failures never fail an upload.
type uploadService struct {
	store  *storage.Local
	mirror storage.Mirror
	repo   repository.UploadRepository
	now    func() time.Time
}

// NewUploadService constructs a new UploadService. mirror and repo may be nil.
func NewUploadService(store *storage.Local, mirror storage.Mirror, repo repository.UploadRepository) UploadService {
	return &uploadService{store: store, mirror: mirror, repo: repo, now: time.Now}
}

func (s *uploadService) Upload(ctx context.Context, r io.Reader, originalFilename string) (res *model.UploadResult, err error) {
	ctx, span := tracer.Start(ctx, "upload.Upload", trace.WithAttributes(attribute.String("upload.original_name", originalFilename)))
	defer func() { endSpan(span, err) }()

	format, err := tabular.DetectFormat(originalFilename)
	if err != nil {
		return nil, err
	}

	saved, err := s.store.Save(ctx, originalFilename, r)
	if err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}

	ds, err := tabular.Parse(saved.Path)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("dataset.rows", ds.RowCount), attribute.Int("dataset.columns", len(ds.Columns)))

	if s.mirror != nil {
		s.mirrorFile(ctx, saved, originalFilename, format)
	}
	if s.repo != nil {
		s.record(ctx, saved, originalFilename, format, ds)
	}

	slog.InfoContext(ctx, "upload stored",
		"filepath", saved.Path,
		"size", saved.Size,
		"format", string(format),
		"rows", ds.RowCount,
	)

	return &model.UploadResult{
		Success:  true,
		Filename: originalFilename,
		Filepath: saved.Path,
		Size:     saved.Size,
		FileType: format.Ext(),
		Columns:  ds.Columns,
		RowCount: ds.RowCount,
		Preview:  ds.Preview(previewRows),
	}, nil
}

func (s *uploadService) mirrorFile(ctx context.Context, saved *storage.SavedFile, originalFilename string, format tabular.Format) {
	f, err := os.Open(saved.Path)
	if err != nil {
		slog.WarnContext(ctx, "upload mirror skipped", "filepath", saved.Path, "error", err)
		return
	}
	defer f.Close()

	key := "uploads/" + saved.Name
	if _, err := s.mirror.Put(ctx, key, f, storage.PutObjectOptions{
		Size:        saved.Size,
		ContentType: format.MIMEType(),
		Metadata:    map[string]string{"original-filename": originalFilename},
	}); err != nil {
		slog.WarnContext(ctx, "upload mirror failed", "key", key, "error", err)
	}
}

func (s *uploadService) record(ctx context.Context, saved *storage.SavedFile, originalFilename string, format tabular.Format, ds *tabular.Dataset) {
	entry := &model.StoredFile{
		ID:           uuid.NewString(),
		StoredName:   saved.Name,
		OriginalName: originalFilename,
		Path:         saved.Path,
		Size:         saved.Size,
		Format:       string(format),
		RowCount:     ds.RowCount,
		Columns:      ds.Columns,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		slog.WarnContext(ctx, "upload ledger write failed", "filepath", saved.Path, "error", err)
	}
}

// List returns paginated ledger entries without exposing repository types.
func (s *uploadService) List(ctx context.Context, limit, offset int) (*model.UploadList, error) {
	if s.repo == nil {
		return nil, ErrLedgerDisabled
	}
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.repo.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &model.UploadList{Items: res.Items, Total: res.Total}, nil
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
