package browser

import (
	"context"
	"testing"

	"github.com/chromedp/cdproto/network"
)

func TestRunScriptedAction_UnknownKindErrors(t *testing.T) {
	err := runScriptedAction(context.Background(), Action{Kind: ActionKind("bogus"), Selector: "#x"})
	if err == nil {
		t.Fatal("expected an error for an unrecognized action kind")
	}
}

func TestAutoScroll_NoopWhenMaxScrollsNotPositive(t *testing.T) {
	if err := autoScroll(context.Background(), 0); err != nil {
		t.Errorf("expected no error for maxScrolls=0, got %v", err)
	}
	if err := autoScroll(context.Background(), -1); err != nil {
		t.Errorf("expected no error for a negative maxScrolls, got %v", err)
	}
}

func TestIsBlockedHost(t *testing.T) {
	cases := []struct {
		url  string
		want bool
	}{
		{"https://doubleclick.net/pixel.gif", true},
		{"https://www.doubleclick.net/pixel.gif", true},
		{"https://googletagmanager.com/gtag.js", true},
		{"https://sub.googletagmanager.com/gtag.js", true},
		{"https://example.com/page", false},
		{"https://not-doubleclick.net/evil", false},
		{"not a url at all", false},
	}

	for _, c := range cases {
		if got := isBlockedHost(c.url); got != c.want {
			t.Errorf("isBlockedHost(%q) = %v, want %v", c.url, got, c.want)
		}
	}
}

func TestIsBlockedResourceType(t *testing.T) {
	blocked := []network.ResourceType{
		network.ResourceTypeImage,
		network.ResourceTypeMedia,
		network.ResourceTypeFont,
		network.ResourceTypeStylesheet,
	}
	for _, rt := range blocked {
		if !isBlockedResourceType(rt) {
			t.Errorf("expected %v to be blocked", rt)
		}
	}

	allowed := []network.ResourceType{
		network.ResourceTypeDocument,
		network.ResourceTypeScript,
		network.ResourceTypeXHR,
	}
	for _, rt := range allowed {
		if isBlockedResourceType(rt) {
			t.Errorf("expected %v to be allowed", rt)
		}
	}
}

func TestHasSuffixDot(t *testing.T) {
	cases := []struct {
		host, suffix string
		want         bool
	}{
		{"sub.example.com", "example.com", true},
		{"example.com", "example.com", false},
		{"notexample.com", "example.com", false},
		{"a.b.example.com", "example.com", true},
	}
	for _, c := range cases {
		if got := hasSuffixDot(c.host, c.suffix); got != c.want {
			t.Errorf("hasSuffixDot(%q, %q) = %v, want %v", c.host, c.suffix, got, c.want)
		}
	}
}
