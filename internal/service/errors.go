package service

import "errors"

var (
	ErrFilepathRequired       = errors.New("file path is required")
	ErrCleaningMethodRequired = errors.New("cleaning method is required")
	ErrMissingParameters      = errors.New("file path, model type, features, and target are required")
	ErrTargetInFeatures       = errors.New("target column must not be listed among the features")
	ErrEmptyOrUnreadable      = errors.New("file is empty or unreadable")
	ErrLedgerDisabled         = errors.New("upload ledger is not configured")
)
