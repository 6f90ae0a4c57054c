package model

import (
	"time"

	"tabgate/internal/tabular"
)

// StoredFile is a persisted upload. It is addressed by Path and never mutated
// by the gateway once written.
type StoredFile struct {
	ID           string    `json:"id"`
	StoredName   string    `json:"storedName"`
	OriginalName string    `json:"originalName"`
	Path         string    `json:"filepath"`
	Size         int64     `json:"size"`
	Format       string    `json:"format"`
	RowCount     int       `json:"rowCount"`
	Columns      []string  `json:"columns"`
	CreatedAt    time.Time `json:"createdAt"`
}

// UploadResult is returned to the client after a dataset was stored and parsed.
type UploadResult struct {
	Success  bool             `json:"success"`
	Filename string           `json:"filename"`
	Filepath string           `json:"filepath"`
	Size     int64            `json:"size"`
	FileType string           `json:"fileType"`
	Columns  []string         `json:"columns"`
	RowCount int              `json:"rowCount"`
	Preview  []tabular.Record `json:"preview"`
}

// UploadList is a page of ledger entries, newest first.
type UploadList struct {
	Items []StoredFile `json:"data"`
	Total int          `json:"total"`
}
