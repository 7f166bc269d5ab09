package jobqueue

import "time"

// JobKind distinguishes the one kickoff job that seeds a crawl from the
// per-page jobs it fans out to. Priorities are advisory (C11): Kickoff
// jobs are always dequeued ahead of Page jobs so a crawl's own seed step
// never waits behind another crawl's page fan-out.
type JobKind int

const (
	JobKindKickoff JobKind = iota
	JobKindPage
)

func (k JobKind) String() string {
	if k == JobKindKickoff {
		return "kickoff"
	}
	return "page"
}

// JobState is the lifecycle of a single job.
type JobState int

const (
	JobPending JobState = iota
	JobRunning
	JobCompleted
	JobFailed
)

func (s JobState) String() string {
	switch s {
	case JobPending:
		return "pending"
	case JobRunning:
		return "running"
	case JobCompleted:
		return "completed"
	case JobFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// JobSpec is the caller-supplied description of work to enqueue. URL is
// empty for kickoff jobs.
type JobSpec struct {
	CrawlID string
	Kind    JobKind
	URL     string
	Depth   int
}

// Job is the durable record a worker dequeues and later completes or
// fails. Result/Error are populated once the job leaves JobPending.
type Job struct {
	ID          string
	CrawlID     string
	Kind        JobKind
	URL         string
	Depth       int
	Priority    int
	State       JobState
	Result      string
	Error       string
	CreatedAt   time.Time
	CompletedAt time.Time
}

// CrawlDescriptor is the durable per-crawl record C10 reads to answer
// status() and drives cancel() through.
type CrawlDescriptor struct {
	ID          string
	SeedURL     string
	Webhook     string
	CreatedAt   time.Time
	Cancelled   bool
	Finished    bool
	Limit       int
	ExportPaths []string
}
