package services

import "errors"

// Claims service errors
var (
	ErrDataSourceNotFound = errors.New("claims data source not found")
	ErrNotLoaded          = errors.New("claims dataset not loaded")
	ErrNoClaimsFound      = errors.New("no claims found")
)
