// Package repository contains the upload ledger abstraction.
// Implementations live in subpackages (e.g., postgres).
package repository

import (
	"context"

	"tabgate/internal/model"
)

// UploadRepository records stored uploads. It holds metadata only; the files
// themselves stay in the upload directory.
type UploadRepository interface {
	// Create inserts a ledger entry for a stored file.
	Create(ctx context.Context, f *model.StoredFile) error

	// List returns a page of entries, newest first, and the total row count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.StoredFile], error)
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
type PageResult[T any] struct {
	Items []T
	Total int
}
