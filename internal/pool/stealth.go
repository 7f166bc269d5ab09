package pool

import (
	"context"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// stealthScript is injected via Page.addScriptToEvaluateOnNewDocument so it
// runs before any page script, matching the chromedp idiom for patching
// properties the target page could otherwise read at load time.
//
// These hooks are advisory: they lower the odds of a naive bot check
// flagging the session, not a guarantee against determined fingerprinting.
const stealthScript = `
Object.defineProperty(navigator, 'webdriver', { get: () => false });
Object.defineProperty(navigator, 'plugins', { get: () => [1, 2, 3, 4, 5] });
const originalQuery = window.navigator.permissions.query;
window.navigator.permissions.query = (parameters) => (
	parameters.name === 'notifications'
		? Promise.resolve({ state: Notification.permission })
		: originalQuery(parameters)
);
const getParameter = WebGLRenderingContext.prototype.getParameter;
WebGLRenderingContext.prototype.getParameter = function(parameter) {
	if (parameter === 37445) { return 'Intel Inc.'; }
	if (parameter === 37446) { return 'Intel Iris OpenGL Engine'; }
	return getParameter.apply(this, [parameter]);
};
`

// applyStealth installs the stealth hooks at context init (before
// navigation), per the browser fetcher's contract that these hooks run
// once per tab rather than per navigation.
func applyStealth(ctx context.Context) error {
	return chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		_, err := page.AddScriptToEvaluateOnNewDocument(stealthScript).Do(ctx)
		return err
	}))
}
