package sources

import "strings"

// ResolveURL turns a possibly relative link into an absolute URL.
// Protocol-relative links gain https:; site-relative links are prefixed with
// the source's base origin. Absolute links pass through unchanged.
func ResolveURL(base, href string) string {
	switch {
	case href == "":
		return ""
	case strings.HasPrefix(href, "//"):
		return "https:" + href
	case strings.HasPrefix(href, "http://"), strings.HasPrefix(href, "https://"):
		return href
	default:
		return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(href, "/")
	}
}

// StripQuery removes the query string from a URL. Image CDNs vary query
// parameters between renders, so stripping them keeps image URLs stable.
func StripQuery(url string) string {
	if idx := strings.IndexByte(url, '?'); idx >= 0 {
		return url[:idx]
	}
	return url
}
