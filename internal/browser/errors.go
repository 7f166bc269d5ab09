package browser

import (
	"fmt"

	"github.com/rohmanhakim/docs-crawler/internal/metadata"
	"github.com/rohmanhakim/docs-crawler/pkg/failure"
)

type BrowserErrorCause string

const (
	ErrCauseNavigationTimeout  BrowserErrorCause = "navigation timeout"
	ErrCauseActionFailed       BrowserErrorCause = "scripted action failed"
	ErrCauseContentTypeInvalid BrowserErrorCause = "non-HTML content"
	ErrCausePoolExhausted      BrowserErrorCause = "browser pool exhausted"
)

type BrowserError struct {
	Message   string
	Retryable bool
	Cause     BrowserErrorCause
}

func (e *BrowserError) Error() string {
	return fmt.Sprintf("browser error: %s", e.Cause)
}

func (e *BrowserError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

// mapBrowserErrorToMetadataCause is observational only, per the
// metadata.ErrorCause contract.
func mapBrowserErrorToMetadataCause(err *BrowserError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseNavigationTimeout:
		return metadata.CauseNetworkFailure
	case ErrCauseContentTypeInvalid:
		return metadata.CauseContentInvalid
	case ErrCauseActionFailed, ErrCausePoolExhausted:
		return metadata.CauseUnknown
	default:
		return metadata.CauseUnknown
	}
}
