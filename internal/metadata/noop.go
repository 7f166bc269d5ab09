package metadata

import "time"

// NoopSink discards every observation. It satisfies both MetadataSink and
// CrawlFinalizer, for callers (tests, the synchronous scrape path when no
// logger is configured) that need a sink but not its output.
type NoopSink struct{}

var _ MetadataSink = (*NoopSink)(nil)
var _ CrawlFinalizer = (*NoopSink)(nil)

func (NoopSink) RecordFetch(fetchUrl string, httpStatus int, duration time.Duration, contentType string, retryCount int, crawlDepth int) {
}

func (NoopSink) RecordAssetFetch(assetUrl string, httpStatus int, duration time.Duration, retryCount int) {
}

func (NoopSink) RecordError(observedAt time.Time, packageName string, action string, cause ErrorCause, errorString string, attrs []Attribute) {
}

func (NoopSink) RecordArtifact(kind ArtifactKind, path string, attrs []Attribute) {}

func (NoopSink) RecordFinalCrawlStats(totalPages int, totalErrors int, totalAssets int, duration time.Duration) {
}
