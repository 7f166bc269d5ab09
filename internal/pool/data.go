package pool

import "time"

// InstanceState is the per-instance lifecycle: launching -> ready -> closing -> closed.
type InstanceState int

const (
	InstanceLaunching InstanceState = iota
	InstanceReady
	InstanceClosing
	InstanceClosed
)

// TabState is the per-tab lifecycle: idle <-> in-use.
type TabState int

const (
	TabIdle TabState = iota
	TabInUse
)

// Param configures the pool at construction time, mirroring
// config.Config's browser fields (MaxBrowserInstance, MaxTabsPerInstance,
// BrowserIdleTimeout, StealthMode, BlockResources).
type Param struct {
	MaxInstances       int
	MaxTabsPerInstance int
	IdleTimeout        time.Duration
	AcquireTimeout     time.Duration
	Stealth            bool
	BlockResources     bool
	UserAgent          string
}
