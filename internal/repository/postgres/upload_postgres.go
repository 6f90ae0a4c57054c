package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"tabgate/internal/model"
	"tabgate/internal/repository"
)

// UploadPostgres is a PostgreSQL implementation of repository.UploadRepository.
type UploadPostgres struct {
	db *sql.DB
}

// NewUploadPostgres creates a new UploadPostgres repository.
func NewUploadPostgres(db *sql.DB) *UploadPostgres {
	return &UploadPostgres{db: db}
}

var _ repository.UploadRepository = (*UploadPostgres)(nil)

// Create inserts a ledger row. Columns are stored as a JSON array.
func (r *UploadPostgres) Create(ctx context.Context, f *model.StoredFile) error {
	cols, err := json.Marshal(f.Columns)
	if err != nil {
		return fmt.Errorf("encode columns: %w", err)
	}

	const q = `
		INSERT INTO uploads (id, stored_name, original_name, path, size, format, row_count, columns, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = r.db.ExecContext(ctx, q,
		f.ID,
		f.StoredName,
		f.OriginalName,
		f.Path,
		f.Size,
		f.Format,
		f.RowCount,
		string(cols),
		f.CreatedAt,
	)
	return err
}

// List returns ledger rows using LIMIT/OFFSET pagination and a total count.
func (r *UploadPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.StoredFile], error) {
	const qCount = `SELECT COUNT(*) FROM uploads`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT id, stored_name, original_name, path, size, format, row_count, columns, created_at
		FROM uploads
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.StoredFile, 0)
	for rows.Next() {
		var (
			f    model.StoredFile
			cols []byte
		)
		if err := rows.Scan(
			&f.ID,
			&f.StoredName,
			&f.OriginalName,
			&f.Path,
			&f.Size,
			&f.Format,
			&f.RowCount,
			&cols,
			&f.CreatedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(cols, &f.Columns); err != nil {
			return nil, fmt.Errorf("decode columns of %s: %w", f.ID, err)
		}
		items = append(items, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.StoredFile]{Items: items, Total: total}, nil
}
