// Package browser builds issue URLs and opens them in the user's browser.
package browser

import (
	"fmt"
	"net/url"
	"strings"

	pkgbrowser "github.com/pkg/browser"
)

// Opener opens a URL.
type Opener interface {
	Open(url string) error
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(string) error

// Open implements Opener.
func (f OpenerFunc) Open(u string) error { return f(u) }

// System opens URLs with the platform's default browser.
type System struct{}

// Open implements Opener.
func (System) Open(u string) error {
	if err := pkgbrowser.OpenURL(u); err != nil {
		return fmt.Errorf("browser: open %s: %w", u, err)
	}
	return nil
}

// IssueURL returns <site>/browse/<key>.
func IssueURL(site, key string) (string, error) {
	site = strings.TrimSpace(site)
	if site == "" {
		return "", fmt.Errorf("browser: site required")
	}
	if key == "" {
		return "", fmt.Errorf("browser: issue key required")
	}

	base, err := url.Parse(strings.TrimRight(site, "/"))
	if err != nil {
		return "", fmt.Errorf("browser: parse site: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return "", fmt.Errorf("browser: site %q must be an absolute URL", site)
	}
	return base.JoinPath("browse", key).String(), nil
}
