package seascape

import "errors"

var (
	ErrInvalidConfig = errors.New("invalid scene config")
	ErrAssetNotFound = errors.New("asset not found")
)
