package metadata

import (
	"log/slog"
	"time"
)

/*
Metadata Collected
- Fetch timestamps
- HTTP status codes
- Content hashes
- Crawl depth

Logging Goals
- Debuggable crawl behavior
- Post-run auditability
- Failure diagnostics

Structured logging is preferred.

Allowed:
- Primitive values
- Timestamps
- URLs (as values, not objects with behavior)
- Hashes
- Status codes
- Durations
- Identifiers (page ID, crawl ID)
*/

// MetadataSink is the write-side contract every pipeline package depends on.
// It must never be consulted for control-flow decisions; it only observes.
type MetadataSink interface {
	RecordFetch(fetchUrl string, httpStatus int, duration time.Duration, contentType string, retryCount int, crawlDepth int)
	RecordAssetFetch(assetUrl string, httpStatus int, duration time.Duration, retryCount int)
	RecordError(observedAt time.Time, packageName string, action string, cause ErrorCause, errorString string, attrs []Attribute)
	RecordArtifact(kind ArtifactKind, path string, attrs []Attribute)
}

// CrawlFinalizer is recorded exactly once, after a crawl terminates.
type CrawlFinalizer interface {
	RecordFinalCrawlStats(totalPages int, totalErrors int, totalAssets int, duration time.Duration)
}

// Recorder is the default MetadataSink/CrawlFinalizer, backed by a single
// structured logger. It holds no mutable aggregate state of its own: counts
// live with the caller (the scheduler), since crawlStats must be computed
// without reading metadata.
type Recorder struct {
	name   string
	logger *slog.Logger
}

func NewRecorder(name string) *Recorder {
	return &Recorder{
		name:   name,
		logger: slog.Default().With("recorder", name),
	}
}

// NewRecorderWithLogger lets callers route records to a caller-owned logger
// (e.g. one writing JSON to a crawl-scoped file) instead of the default.
func NewRecorderWithLogger(name string, logger *slog.Logger) *Recorder {
	return &Recorder{name: name, logger: logger}
}

func (r *Recorder) RecordFetch(fetchUrl string, httpStatus int, duration time.Duration, contentType string, retryCount int, crawlDepth int) {
	r.logger.Info("fetch",
		"url", fetchUrl,
		"http_status", httpStatus,
		"duration_ms", duration.Milliseconds(),
		"content_type", contentType,
		"retry_count", retryCount,
		"depth", crawlDepth,
	)
}

func (r *Recorder) RecordAssetFetch(assetUrl string, httpStatus int, duration time.Duration, retryCount int) {
	r.logger.Info("asset_fetch",
		"url", assetUrl,
		"http_status", httpStatus,
		"duration_ms", duration.Milliseconds(),
		"retry_count", retryCount,
	)
}

func (r *Recorder) RecordError(observedAt time.Time, packageName string, action string, cause ErrorCause, errorString string, attrs []Attribute) {
	args := make([]any, 0, 8+len(attrs)*2)
	args = append(args,
		"observed_at", observedAt.Format(time.RFC3339),
		"package", packageName,
		"action", action,
		"cause", causeLabel(cause),
		"error", errorString,
	)
	for _, a := range attrs {
		args = append(args, string(a.Key), a.Value)
	}
	r.logger.Error("error", args...)
}

func (r *Recorder) RecordArtifact(kind ArtifactKind, path string, attrs []Attribute) {
	args := make([]any, 0, 4+len(attrs)*2)
	args = append(args, "kind", artifactKindLabel(kind), "path", path)
	for _, a := range attrs {
		args = append(args, string(a.Key), a.Value)
	}
	r.logger.Info("artifact", args...)
}

func (r *Recorder) RecordFinalCrawlStats(totalPages int, totalErrors int, totalAssets int, duration time.Duration) {
	r.logger.Info("crawl_stats",
		"total_pages", totalPages,
		"total_errors", totalErrors,
		"total_assets", totalAssets,
		"duration_ms", duration.Milliseconds(),
	)
}

func causeLabel(c ErrorCause) string {
	switch c {
	case CauseNetworkFailure:
		return "network_failure"
	case CausePolicyDisallow:
		return "policy_disallow"
	case CauseContentInvalid:
		return "content_invalid"
	case CauseStorageFailure:
		return "storage_failure"
	case CauseInvariantViolation:
		return "invariant_violation"
	case CauseRetryFailure:
		return "retry_failure"
	default:
		return "unknown"
	}
}

func artifactKindLabel(k ArtifactKind) string {
	if k == ArtifactAsset {
		return "asset"
	}
	return "markdown"
}
