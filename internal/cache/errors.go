package cache

import (
	"fmt"

	"github.com/rohmanhakim/docs-crawler/internal/metadata"
	"github.com/rohmanhakim/docs-crawler/pkg/failure"
)

type CacheErrorCause string

const (
	ErrCauseBuildFailed  CacheErrorCause = "build failed"
	ErrCauseWriteFailure CacheErrorCause = "write failed"
	ErrCauseReadFailure  CacheErrorCause = "read failed"
)

type CacheError struct {
	Message   string
	Retryable bool
	Cause     CacheErrorCause
	Key       string
}

func (e *CacheError) Error() string {
	return fmt.Sprintf("cache error (%s): %s", e.Cause, e.Message)
}

func (e *CacheError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

// mapCacheErrorToMetadataCause is observational only, per the
// metadata.ErrorCause contract; it must never drive control flow.
func mapCacheErrorToMetadataCause(err *CacheError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseWriteFailure, ErrCauseReadFailure:
		return metadata.CauseStorageFailure
	case ErrCauseBuildFailed:
		return metadata.CauseUnknown
	default:
		return metadata.CauseUnknown
	}
}
