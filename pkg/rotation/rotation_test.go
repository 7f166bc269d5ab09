package rotation_test

import (
	"sync"
	"testing"

	"github.com/rohmanhakim/docs-crawler/pkg/rotation"
)

func TestRoundRobinRotator_NextUserAgent_CyclesInOrder(t *testing.T) {
	r := rotation.NewRoundRobinRotator([]string{"ua-1", "ua-2", "ua-3"}, nil, "fallback-ua")

	want := []string{"ua-1", "ua-2", "ua-3", "ua-1", "ua-2"}
	for i, w := range want {
		if got := r.NextUserAgent(); got != w {
			t.Errorf("call %d: got %q, want %q", i, got, w)
		}
	}
}

func TestRoundRobinRotator_NextUserAgent_FallsBackWhenEmpty(t *testing.T) {
	r := rotation.NewRoundRobinRotator(nil, nil, "fallback-ua")

	for i := 0; i < 3; i++ {
		if got := r.NextUserAgent(); got != "fallback-ua" {
			t.Errorf("call %d: got %q, want fallback-ua", i, got)
		}
	}
}

func TestRoundRobinRotator_NextProxy_CyclesInOrder(t *testing.T) {
	r := rotation.NewRoundRobinRotator(nil, []string{"proxy-a", "proxy-b"}, "ua")

	want := []string{"proxy-a", "proxy-b", "proxy-a", "proxy-b"}
	for i, w := range want {
		if got := r.NextProxy(); got != w {
			t.Errorf("call %d: got %q, want %q", i, got, w)
		}
	}
}

func TestRoundRobinRotator_NextProxy_EmptyMeansNoProxy(t *testing.T) {
	r := rotation.NewRoundRobinRotator([]string{"ua"}, nil, "ua")
	if got := r.NextProxy(); got != "" {
		t.Errorf("expected empty string for no configured proxies, got %q", got)
	}
}

func TestRoundRobinRotator_ConcurrentCallersEachGetAValidEntry(t *testing.T) {
	agents := []string{"ua-1", "ua-2", "ua-3", "ua-4"}
	r := rotation.NewRoundRobinRotator(agents, nil, "fallback-ua")
	valid := make(map[string]bool, len(agents))
	for _, a := range agents {
		valid[a] = true
	}

	var wg sync.WaitGroup
	results := make([]string, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx] = r.NextUserAgent()
		}(i)
	}
	wg.Wait()

	for i, got := range results {
		if !valid[got] {
			t.Errorf("result %d: %q is not one of the configured agents", i, got)
		}
	}
}
