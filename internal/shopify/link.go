package shopify

import (
	"net/url"
	"strings"
)

// parseNextLink extracts the rel="next" URL and its page_info token from a
// Link response header. Shopify returns cursors only through this header:
//
//	<https://shop.myshopify.com/admin/api/2024-04/orders.json?page_info=abc&limit=250>; rel="next"
//
// An empty result means this was the final page.
func parseNextLink(header string) (nextURL, pageInfo string) {
	if header == "" {
		return "", ""
	}

	for _, part := range strings.Split(header, ",") {
		part = strings.TrimSpace(part)
		if !strings.Contains(part, `rel="next"`) {
			continue
		}

		start := strings.Index(part, "<")
		end := strings.Index(part, ">")
		if start == -1 || end == -1 || end <= start {
			continue
		}
		rawURL := part[start+1 : end]

		u, err := url.Parse(rawURL)
		if err != nil {
			continue
		}
		token := u.Query().Get("page_info")
		if token == "" {
			continue
		}
		return rawURL, token
	}

	return "", ""
}
