package types

import "errors"

var (
	ErrMissingEnv             = errors.New("missing required configuration")
	ErrInvalidPartitionFilter = errors.New("invalid partition filter")
	ErrInvalidTier            = errors.New("invalid report tier")
	ErrNoAccounts             = errors.New("no accounts with a configured export bucket were found")
	ErrSyncFailed             = errors.New("sync finished with failures")
)
