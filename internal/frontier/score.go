package frontier

import (
	"net/url"
	"strings"
)

// topicKeywords and transactionalKeywords drive the BEST_FIRST strategy's
// priority score: pages that look like documentation are worth visiting
// sooner, pages that look like an app's transactional flow are worth
// deferring (or skipping, if the crawl runs out of budget first).
var topicKeywords = []string{"docs", "guide", "tutorial", "about"}
var transactionalKeywords = []string{"login", "signup", "cart", "checkout"}

// bestFirstScore ranks a candidate for the BEST_FIRST strategy. Higher
// scores dequeue first. Topic keywords in the path raise the score;
// transactional keywords, path depth, and query-string length lower it.
func bestFirstScore(u url.URL) float64 {
	lowerPath := strings.ToLower(u.Path)

	score := 0.0
	for _, kw := range topicKeywords {
		if strings.Contains(lowerPath, kw) {
			score += 10
		}
	}
	for _, kw := range transactionalKeywords {
		if strings.Contains(lowerPath, kw) {
			score -= 20
		}
	}

	score -= float64(pathSegmentCount(u.Path))
	score -= float64(len(u.RawQuery)) * 0.1

	return score
}

func pathSegmentCount(path string) int {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return 0
	}
	return strings.Count(trimmed, "/") + 1
}
