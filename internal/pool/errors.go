package pool

import (
	"fmt"

	"github.com/rohmanhakim/docs-crawler/internal/metadata"
	"github.com/rohmanhakim/docs-crawler/pkg/failure"
)

type PoolErrorCause string

const (
	ErrCauseQueueTimeout  PoolErrorCause = "queueing timeout"
	ErrCauseLaunchFailed  PoolErrorCause = "browser launch failed"
	ErrCauseInstanceGone  PoolErrorCause = "instance closed mid-use"
)

type PoolError struct {
	Message   string
	Retryable bool
	Cause     PoolErrorCause
}

func (e *PoolError) Error() string {
	return fmt.Sprintf("pool error: %s", e.Cause)
}

func (e *PoolError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

// mapPoolErrorToMetadataCause is observational only, per the
// metadata.ErrorCause contract.
func mapPoolErrorToMetadataCause(err *PoolError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseQueueTimeout:
		return metadata.CauseRetryFailure
	case ErrCauseLaunchFailed, ErrCauseInstanceGone:
		return metadata.CauseUnknown
	default:
		return metadata.CauseUnknown
	}
}
