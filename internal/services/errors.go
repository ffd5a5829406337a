package services

import "errors"

var (
	ErrInvalidRange        = errors.New("period end is before its start")
	ErrInvalidFlow         = errors.New("invalid flow value")
	ErrOverlappingRange    = errors.New("period overlaps an existing period")
	ErrLoadFailed          = errors.New("load periods failed")
	ErrPersistFailed       = errors.New("persist periods failed")
	ErrSelectionIncomplete = errors.New("period selection is incomplete")

	ErrInsufficientHistory  = errors.New("not enough cycle history to predict")
	ErrNoAnchorForMonth     = errors.New("no logged period on or before the requested month")
	ErrNoPredictionForMonth = errors.New("no predicted days fall in the requested month")
)
