package browser

import "time"

// ActionKind enumerates the scripted post-navigation steps the browser
// fetcher can execute before extracting the page.
type ActionKind string

const (
	ActionClick  ActionKind = "click"
	ActionScroll ActionKind = "scroll"
	ActionWait   ActionKind = "wait"
	ActionFill   ActionKind = "fill"
	ActionSelect ActionKind = "select"
)

// Action is one scripted step. Selector addresses the target element for
// click/fill/select/wait; Value carries the text to type (fill) or the
// option to choose (select). Optional actions that fail are swallowed;
// non-optional failure aborts the fetch.
type Action struct {
	Kind     ActionKind `json:"kind"`
	Selector string     `json:"selector,omitempty"`
	Value    string     `json:"value,omitempty"`
	Optional bool       `json:"optional,omitempty"`
}

// FetchActionsParam extends FetchParam with the browser-specific
// navigation controls: a selector to wait for post-navigation, a scripted
// action sequence, and a bound on the auto-scroll pass used to trigger
// lazy-loaded content.
type FetchActionsParam struct {
	WaitSelector string
	Actions      []Action
	MaxScrolls   int
	Timeout      time.Duration
}
