// Package opencart holds the page objects for the OpenCart storefront.
package opencart

import (
	"net/url"
	"strings"
	"time"
)

// alertWait bounds checks for the transient alert banners.
const alertWait = 5 * time.Second

// RouteURL returns base with its route query set, e.g.
// https://demo.opencart.com/index.php?route=account/login.
func RouteURL(base, route string) string {
	u, err := url.Parse(base)
	if err != nil {
		return strings.TrimRight(base, "?&") + "?route=" + route
	}
	q := u.Query()
	q.Set("route", route)
	u.RawQuery = q.Encode()
	// OpenCart routes keep their slashes and dots readable.
	u.RawQuery = strings.NewReplacer("%2F", "/", "%7C", "|").Replace(u.RawQuery)
	return u.String()
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
