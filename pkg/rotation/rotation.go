package rotation

import "sync"

// Rotator hands out the next user agent / proxy in round-robin order,
// the agent/proxy half of C7's acquire/release/nextUserAgent/nextProxy
// contract. Pacing and backoff live in pkg/limiter instead; the two
// concerns are split because limiter.RateLimiter is already implemented
// by several test mocks that have no reason to know about rotation.
type Rotator interface {
	NextUserAgent() string
	NextProxy() string
}

// RoundRobinRotator cycles through a fixed list of user agents and a
// fixed list of proxies independently, each in round-robin order. A nil
// or empty userAgents list falls back to fallbackUserAgent on every
// call; a nil or empty proxies list always returns "" (no proxy).
type RoundRobinRotator struct {
	mu               sync.Mutex
	userAgents       []string
	proxies          []string
	fallbackUserAgent string
	nextUserAgentIdx int
	nextProxyIdx     int
}

func NewRoundRobinRotator(userAgents []string, proxies []string, fallbackUserAgent string) *RoundRobinRotator {
	return &RoundRobinRotator{
		userAgents:        userAgents,
		proxies:           proxies,
		fallbackUserAgent: fallbackUserAgent,
	}
}

func (r *RoundRobinRotator) NextUserAgent() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.userAgents) == 0 {
		return r.fallbackUserAgent
	}
	agent := r.userAgents[r.nextUserAgentIdx%len(r.userAgents)]
	r.nextUserAgentIdx++
	return agent
}

func (r *RoundRobinRotator) NextProxy() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.proxies) == 0 {
		return ""
	}
	proxy := r.proxies[r.nextProxyIdx%len(r.proxies)]
	r.nextProxyIdx++
	return proxy
}
