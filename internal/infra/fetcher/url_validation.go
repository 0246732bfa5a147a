// Package fetcher provides the HTTP content fetching implementation behind
// URL summarization. It downloads a page, recognizes feeds, and extracts
// readable article text.
package fetcher

import (
	"fmt"
	"net"
	"net/url"

	"summary-lab/internal/domain/entity"
	"summary-lab/internal/usecase/summarize"
)

// validateURL validates a URL for security before making an HTTP request.
// It prevents Server-Side Request Forgery (SSRF) by checking the scheme,
// resolving DNS, and blocking loopback, private, and link-local addresses.
// The same check runs again for every redirect target.
func validateURL(urlStr string, denyPrivateIPs bool) error {
	u, err := url.Parse(urlStr)
	if err != nil {
		return fmt.Errorf("%w: parse error: %v", summarize.ErrInvalidURL, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme '%s' not allowed (only http/https)", summarize.ErrInvalidURL, u.Scheme)
	}

	hostname := u.Hostname()
	if hostname == "" {
		return fmt.Errorf("%w: empty hostname", summarize.ErrInvalidURL)
	}

	if !denyPrivateIPs {
		return nil
	}

	// SSRF対策。内部ネットワークを指すURLを弾く
	ips, err := net.LookupIP(hostname)
	if err != nil {
		return fmt.Errorf("%w: DNS lookup failed for %s: %v", summarize.ErrInvalidURL, hostname, err)
	}

	for _, ip := range ips {
		if entity.IsPrivateIP(ip) {
			return fmt.Errorf("%w: hostname '%s' resolves to private IP %s", summarize.ErrPrivateIP, hostname, ip.String())
		}
	}

	return nil
}
