package domain

import "errors"

var (
	// ErrNilDataset is returned when an analysis context has no data.
	ErrNilDataset = errors.New("production: nil dataset")
	// ErrThresholdUnavailable is returned by report builders when the threshold analysis did not run.
	ErrThresholdUnavailable = errors.New("production: threshold analysis unavailable, cannot build report")
	// ErrUnknownAnalysis is returned when a pass id is not registered.
	ErrUnknownAnalysis = errors.New("production: unknown analysis")
	// ErrDuplicateAnalysis is returned when a pass id is registered twice.
	ErrDuplicateAnalysis = errors.New("production: analysis already registered")
)
