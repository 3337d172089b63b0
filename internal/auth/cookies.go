package auth

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"

	"github.com/storefront-labs/storefront-cli/internal/config"
	"golang.org/x/net/publicsuffix"
)

// cookiePaths are the API paths whose cookies are persisted. The refresh
// cookie is usually scoped to the refresh endpoint only.
var cookiePaths = []string{"/", RefreshPath}

func newCookieJar(baseURL *url.URL, stored []config.Cookie) (*cookiejar.Jar, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	byPath := make(map[string][]*http.Cookie)
	for _, c := range stored {
		path := c.Path
		if path == "" {
			path = "/"
		}
		byPath[path] = append(byPath[path], &http.Cookie{
			Name:  c.Name,
			Value: c.Value,
			Path:  path,
		})
	}
	for path, cookies := range byPath {
		jar.SetCookies(baseURL.ResolveReference(&url.URL{Path: path}), cookies)
	}

	return jar, nil
}

// cookies exports the jar's cookies for the API origin. A cookie visible at
// "/" is recorded with path "/", otherwise with the narrowest path it was
// seen at.
func (c *Credentials) cookies() []config.Cookie {
	jar := c.currentJar()

	var out []config.Cookie
	seen := make(map[string]bool)
	for _, path := range cookiePaths {
		u := c.baseURL.ResolveReference(&url.URL{Path: path})
		for _, ck := range jar.Cookies(u) {
			if seen[ck.Name] {
				continue
			}
			seen[ck.Name] = true
			out = append(out, config.Cookie{Name: ck.Name, Value: ck.Value, Path: path})
		}
	}
	return out
}
