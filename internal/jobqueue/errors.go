package jobqueue

import (
	"fmt"

	"github.com/rohmanhakim/docs-crawler/internal/metadata"
	"github.com/rohmanhakim/docs-crawler/pkg/failure"
)

type JobQueueErrorCause string

const (
	ErrCauseJobNotFound   JobQueueErrorCause = "job not found"
	ErrCauseCrawlNotFound JobQueueErrorCause = "crawl not found"
	ErrCauseQueueClosed   JobQueueErrorCause = "queue closed"
)

type JobQueueError struct {
	Message   string
	Retryable bool
	Cause     JobQueueErrorCause
}

func (e *JobQueueError) Error() string {
	return fmt.Sprintf("jobqueue error: %s: %s", e.Cause, e.Message)
}

func (e *JobQueueError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

// mapJobQueueErrorToMetadataCause is observational only and MUST NOT be
// used to derive control-flow decisions.
func mapJobQueueErrorToMetadataCause(err *JobQueueError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseJobNotFound, ErrCauseCrawlNotFound:
		return metadata.CauseInvariantViolation
	case ErrCauseQueueClosed:
		return metadata.CauseStorageFailure
	default:
		return metadata.CauseUnknown
	}
}
