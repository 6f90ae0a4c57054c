package model

import "encoding/json"

// Engine payloads are carried as json.RawMessage so the gateway never reshapes them.
// A field the engine omitted stays omitted; an explicit null stays null.

// AnalysisEnvelope wraps the engine's analysis with provenance fields.
type AnalysisEnvelope struct {
	Success  bool            `json:"success"`
	Filename string          `json:"filename"`
	RowCount int             `json:"rowCount"`
	Columns  []string        `json:"columns"`
	Analysis json.RawMessage `json:"analysis"`
}

// CleaningResult relays the engine's cleaning report.
type CleaningResult struct {
	Success      bool            `json:"success"`
	CleanedData  json.RawMessage `json:"cleanedData,omitempty"`
	Summary      json.RawMessage `json:"summary,omitempty"`
	OriginalRows json.RawMessage `json:"originalRows,omitempty"`
	CleanedRows  json.RawMessage `json:"cleanedRows,omitempty"`
	RemovedRows  json.RawMessage `json:"removedRows,omitempty"`
	Method       json.RawMessage `json:"method,omitempty"`
}

// TrainingResult relays the engine's training report.
type TrainingResult struct {
	Success           bool            `json:"success"`
	TrainingSamples   json.RawMessage `json:"training_samples,omitempty"`
	TestSamples       json.RawMessage `json:"test_samples,omitempty"`
	Metrics           json.RawMessage `json:"metrics,omitempty"`
	Predictions       json.RawMessage `json:"predictions,omitempty"`
	FeatureImportance json.RawMessage `json:"feature_importance,omitempty"`
	ModelType         json.RawMessage `json:"model_type,omitempty"`
}
