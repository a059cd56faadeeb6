package models

import "errors"

// Sentinel errors shared by the store, services and transports
var (
	ErrNotFound              = errors.New("not found")
	ErrInvalidArgument       = errors.New("invalid argument")
	ErrNoEligibleContractors = errors.New("no eligible contractors for this work type")
	ErrVersionConflict       = errors.New("concurrent update conflict")
)
