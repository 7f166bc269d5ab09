package robots

import (
	"context"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/rohmanhakim/docs-crawler/internal/metadata"
	"github.com/rohmanhakim/docs-crawler/internal/robots/cache"
	"github.com/rohmanhakim/docs-crawler/pkg/failure"
)

/*
Responsibilities

- Fetch robots.txt per host
- Cache rules for crawl duration
- Enforce allow/disallow rules before enqueue

Robots checks occur before a URL enters the frontier.
*/

// Robot is the policy surface the scheduler consults before admitting a URL.
type Robot interface {
	Decide(target url.URL) (Decision, *RobotsError)
	Init(userAgent string)
}

// CachedRobot fetches robots.txt once per host (via the fetcher's own cache)
// and keeps a per-host ruleSet in memory for the duration of the crawl.
type CachedRobot struct {
	fetcher      *RobotsFetcher
	metadataSink metadata.MetadataSink
	userAgent    string
	ignoreRobots bool

	mu       sync.RWMutex
	ruleSets map[string]ruleSet
}

func NewCachedRobot(metadataSink metadata.MetadataSink) CachedRobot {
	return CachedRobot{
		fetcher:      NewRobotsFetcher(metadataSink, "DeepScrapeCrawler", cache.NewMemoryCache()),
		metadataSink: metadataSink,
		userAgent:    "DeepScrapeCrawler",
		ruleSets:     make(map[string]ruleSet),
	}
}

// NewCachedRobotWithOptions lets callers override the user agent token and
// bypass enforcement entirely (config.IgnoreRobots).
func NewCachedRobotWithOptions(metadataSink metadata.MetadataSink, userAgent string, ignoreRobots bool, c cache.Cache) CachedRobot {
	if userAgent == "" {
		userAgent = "DeepScrapeCrawler"
	}
	return CachedRobot{
		fetcher:      NewRobotsFetcher(metadataSink, userAgent, c),
		metadataSink: metadataSink,
		userAgent:    userAgent,
		ignoreRobots: ignoreRobots,
		ruleSets:     make(map[string]ruleSet),
	}
}

// Decide fetches (or reuses the cached) robots.txt ruleSet for target's host
// and returns whether target is allowed, alongside any crawl delay declared
// for our user-agent group.
//
// If target is non-HTTP(S), it is allowed unconditionally (robots.txt only
// governs HTTP(S) crawling). When ignoreRobots is set, every URL is allowed
// without a fetch.
func (r *CachedRobot) Decide(target url.URL) (Decision, *RobotsError) {
	if r.ignoreRobots {
		return Decision{Url: target, Allowed: true, Reason: AllowedByRobots}, nil
	}
	if target.Scheme != "http" && target.Scheme != "https" {
		return Decision{Url: target, Allowed: true, Reason: AllowedByRobots}, nil
	}

	rs, cached := r.lookupRuleSet(target.Host)
	if !cached {
		fetchResult, fetchErr := r.fetcher.Fetch(context.Background(), target.Scheme, target.Host)
		if fetchErr != nil {
			if r.metadataSink != nil {
				r.metadataSink.RecordError(
					time.Now(),
					"robots",
					"CachedRobot.Decide",
					mapRobotsErrorToMetadataCause(fetchErr),
					fetchErr.Error(),
					[]metadata.Attribute{metadata.NewAttr(metadata.AttrURL, target.String())},
				)
			}
			return Decision{}, fetchErr
		}
		rs = MapResponseToRuleSet(fetchResult.Response, r.userAgent, fetchResult.FetchedAt)
		r.storeRuleSet(target.Host, rs)
	}

	allowed, reason := evaluate(rs, target.Path)

	decision := Decision{
		Url:     target,
		Allowed: allowed,
		Reason:  reason,
	}
	if delay := rs.CrawlDelay(); delay != nil {
		decision.CrawlDelay = *delay
	}
	return decision, nil
}

// Init (re)sets the user agent token the robot identifies as and clears any
// per-host ruleSet cached under the previous token, so a scheduler run
// always evaluates rules for its configured identity.
func (r *CachedRobot) Init(userAgent string) {
	if userAgent == "" {
		userAgent = "DeepScrapeCrawler"
	}
	r.mu.Lock()
	r.userAgent = userAgent
	r.fetcher = NewRobotsFetcher(r.metadataSink, userAgent, r.fetcher.Cache())
	r.ruleSets = make(map[string]ruleSet)
	r.mu.Unlock()
}

// InitWithCache is Init with a caller-supplied robots.txt cache in place
// of the one the robot was built with.
func (r *CachedRobot) InitWithCache(userAgent string, c cache.Cache) {
	r.Init(userAgent)
	r.mu.Lock()
	r.fetcher = NewRobotsFetcher(r.metadataSink, r.userAgent, c)
	r.mu.Unlock()
}

func (r *CachedRobot) lookupRuleSet(host string) (ruleSet, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rs, ok := r.ruleSets[host]
	return rs, ok
}

func (r *CachedRobot) storeRuleSet(host string, rs ruleSet) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ruleSets == nil {
		r.ruleSets = make(map[string]ruleSet)
	}
	r.ruleSets[host] = rs
}

// evaluate applies the standard robots.txt longest-match-wins rule: the
// allow/disallow rule with the longest matching path prefix governs; ties
// are broken in favor of Allow. An empty or unmatched ruleSet allows by
// default.
func evaluate(rs ruleSet, path string) (bool, DecisionReason) {
	if !rs.hasGroups {
		return true, EmptyRuleSet
	}
	if !rs.matchedGroup {
		return true, UserAgentNotMatched
	}
	if path == "" {
		path = "/"
	}

	bestLen := -1
	allowed := true
	matched := false

	for _, rule := range rs.AllowRules() {
		if matchesPrefix(path, rule.Prefix()) && len(rule.Prefix()) > bestLen {
			bestLen = len(rule.Prefix())
			allowed = true
			matched = true
		}
	}
	for _, rule := range rs.DisallowRules() {
		if matchesPrefix(path, rule.Prefix()) && len(rule.Prefix()) > bestLen {
			bestLen = len(rule.Prefix())
			allowed = false
			matched = true
		}
	}

	if !matched {
		return true, NoMatchingRules
	}
	if allowed {
		return true, AllowedByRobots
	}
	return false, DisallowedByRobots
}

func matchesPrefix(path, prefix string) bool {
	if prefix == "" || prefix == "/" {
		return true
	}
	if !strings.ContainsAny(prefix, "*$") {
		return strings.HasPrefix(path, prefix)
	}
	// "*" matches any run of characters; a trailing "$" anchors the end.
	pattern := "^" + strings.ReplaceAll(regexp.QuoteMeta(strings.TrimSuffix(prefix, "$")), `\*`, ".*")
	if strings.HasSuffix(prefix, "$") {
		pattern += "$"
	}
	re, err := regexp.Compile(pattern)
	return err == nil && re.MatchString(path)
}

var _ failure.ClassifiedError = (*RobotsError)(nil)
