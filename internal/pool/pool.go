package pool

import (
	"context"
	"sync"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/rohmanhakim/docs-crawler/internal/metadata"
	"github.com/rohmanhakim/docs-crawler/pkg/failure"
)

/*
Responsibilities
- Own up to MaxInstances browser instances, each up to MaxTabsPerInstance tabs
- Hand out an idle tab to WithTab, run the caller's function exclusively on
  it, and return it to idle afterwards
- Apply stealth hooks at tab (context) creation when enabled
- Reclaim instances whose tabs have all been idle past IdleTimeout

State machine per tab: idle -> in-use -> idle.
State machine per instance: launching -> ready -> closing -> closed.
WithTab callers that arrive while every tab is busy poll every 50ms for a
tab to free up, bounded by AcquireTimeout. Waiting callers are not served
in arrival order: whichever polls first after a release gets the tab.
*/

type tabSlot struct {
	ctx       context.Context
	cancel    context.CancelFunc
	state     TabState
	idleSince time.Time
}

type instance struct {
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
	state         InstanceState
	tabs          []*tabSlot
}

type Pool struct {
	mu           sync.Mutex
	param        Param
	instances    []*instance
	metadataSink metadata.MetadataSink
	stopReclaim  chan struct{}
}

func NewPool(param Param, metadataSink metadata.MetadataSink) *Pool {
	if param.MaxInstances <= 0 {
		param.MaxInstances = 1
	}
	if param.MaxTabsPerInstance <= 0 {
		param.MaxTabsPerInstance = 1
	}

	p := &Pool{
		param:        param,
		metadataSink: metadataSink,
		stopReclaim:  make(chan struct{}),
	}
	if param.IdleTimeout > 0 {
		go p.reclaimLoop()
	}
	return p
}

// WithTab acquires an idle tab (launching an instance/tab on demand up to
// the configured limits, waiting for one to free up otherwise), runs f
// exclusively on it, and releases the tab back to idle when f returns.
func (p *Pool) WithTab(ctx context.Context, f func(tabCtx context.Context) error) failure.ClassifiedError {
	var deadline time.Time
	if p.param.AcquireTimeout > 0 {
		deadline = time.Now().Add(p.param.AcquireTimeout)
	}

	for {
		tab, err := p.acquireIdleTab()
		if err == nil {
			result := f(tab.ctx)
			p.releaseTab(tab)
			if result != nil {
				return &PoolError{Message: result.Error(), Retryable: true, Cause: ErrCauseInstanceGone}
			}
			return nil
		}

		if !deadline.IsZero() && time.Now().After(deadline) {
			return &PoolError{Message: "no idle tab became available before the queueing timeout", Retryable: true, Cause: ErrCauseQueueTimeout}
		}

		select {
		case <-ctx.Done():
			return &PoolError{Message: ctx.Err().Error(), Retryable: false, Cause: ErrCauseQueueTimeout}
		case <-time.After(50 * time.Millisecond):
		}
	}
}

// acquireIdleTab returns an already-idle tab if one exists, otherwise tries
// to grow an existing instance with a new tab, otherwise launches a new
// instance. Returns a non-nil error only when every option is exhausted
// (all instances at MaxTabsPerInstance and MaxInstances reached).
func (p *Pool) acquireIdleTab() (*tabSlot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, inst := range p.instances {
		if inst.state != InstanceReady {
			continue
		}
		for _, tab := range inst.tabs {
			if tab.state == TabIdle {
				tab.state = TabInUse
				return tab, nil
			}
		}
	}

	for _, inst := range p.instances {
		if inst.state != InstanceReady {
			continue
		}
		if len(inst.tabs) < p.param.MaxTabsPerInstance {
			tab := p.newTab(inst)
			inst.tabs = append(inst.tabs, tab)
			tab.state = TabInUse
			return tab, nil
		}
	}

	if len(p.instances) < p.param.MaxInstances {
		inst := p.launchInstance()
		tab := p.newTab(inst)
		inst.tabs = append(inst.tabs, tab)
		tab.state = TabInUse
		p.instances = append(p.instances, inst)
		return tab, nil
	}

	return nil, &PoolError{Message: "pool exhausted", Retryable: true, Cause: ErrCauseQueueTimeout}
}

func (p *Pool) releaseTab(tab *tabSlot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	tab.state = TabIdle
	tab.idleSince = time.Now()
}

// launchInstance starts a fresh browser process via chromedp's exec
// allocator. Caller must hold p.mu.
func (p *Pool) launchInstance() *instance {
	opts := append(
		append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...),
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if p.param.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(p.param.UserAgent))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	return &instance{
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
		state:         InstanceReady,
	}
}

// newTab opens a new tab within inst's already-launched browser. Caller
// must hold p.mu.
func (p *Pool) newTab(inst *instance) *tabSlot {
	tabCtx, cancel := chromedp.NewContext(inst.browserCtx)
	if p.param.Stealth {
		_ = applyStealth(tabCtx)
	}
	return &tabSlot{
		ctx:       tabCtx,
		cancel:    cancel,
		state:     TabIdle,
		idleSince: time.Now(),
	}
}

// reclaimLoop periodically closes instances whose tabs have all been idle
// longer than IdleTimeout.
func (p *Pool) reclaimLoop() {
	ticker := time.NewTicker(p.param.IdleTimeout / 2)
	defer ticker.Stop()
	for {
		select {
		case <-p.stopReclaim:
			return
		case <-ticker.C:
			p.reclaimIdleInstances()
		}
	}
}

func (p *Pool) reclaimIdleInstances() {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()
	kept := p.instances[:0]
	for _, inst := range p.instances {
		if inst.state == InstanceReady && allTabsIdleLongerThan(inst.tabs, now, p.param.IdleTimeout) {
			p.closeInstance(inst)
			continue
		}
		kept = append(kept, inst)
	}
	p.instances = kept
}

func allTabsIdleLongerThan(tabs []*tabSlot, now time.Time, idleTimeout time.Duration) bool {
	for _, tab := range tabs {
		if tab.state != TabIdle {
			return false
		}
		if now.Sub(tab.idleSince) < idleTimeout {
			return false
		}
	}
	return true
}

func (p *Pool) closeInstance(inst *instance) {
	inst.state = InstanceClosing
	for _, tab := range inst.tabs {
		tab.cancel()
	}
	inst.browserCancel()
	inst.allocCancel()
	inst.state = InstanceClosed
}

// Close tears down every instance and stops idle reclamation. Safe to call
// once at crawl shutdown.
func (p *Pool) Close() {
	close(p.stopReclaim)

	p.mu.Lock()
	defer p.mu.Unlock()
	for _, inst := range p.instances {
		p.closeInstance(inst)
	}
	p.instances = nil
}

func (p *Pool) recordError(action string, err *PoolError) {
	if p.metadataSink == nil {
		return
	}
	p.metadataSink.RecordError(
		time.Now(),
		"pool",
		action,
		mapPoolErrorToMetadataCause(err),
		err.Error(),
		[]metadata.Attribute{},
	)
}
