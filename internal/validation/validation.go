package validation

import (
	"net"
	"net/mail"
	"net/url"
	"regexp"
	"strings"
)

// TokenPattern defines the share token alphabet: unpadded base64url.
var TokenPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidateToken checks that a raw token from the URL looks like something we
// could ever have issued. This is a cheap pre-filter, not a security check;
// the store lookup is authoritative.
func ValidateToken(token string) bool {
	if token == "" || len(token) > 64 {
		return false
	}
	return TokenPattern.MatchString(token)
}

// ValidateEmail checks an email address for the portal login and client
// account creation.
func ValidateEmail(email string) bool {
	if email == "" || len(email) > 254 {
		return false
	}
	_, err := mail.ParseAddress(email)
	return err == nil
}

// ValidateURL checks if a URL is valid and uses an allowed scheme (http/https
// only). This prevents javascript:, data:, and other dangerous schemes in
// material preview URLs.
func ValidateURL(urlStr string) (bool, string) {
	if urlStr == "" {
		return false, "URL is required"
	}

	u, err := url.Parse(urlStr)
	if err != nil {
		return false, "Invalid URL format"
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return false, "URL must use http:// or https:// scheme"
	}

	if u.Host == "" {
		return false, "URL must have a valid host"
	}

	return true, ""
}

// IsPrivateIP checks if an IP address is in a private/reserved range.
// Used to prevent SSRF attacks against internal networks.
func IsPrivateIP(ip net.IP) bool {
	if ip == nil {
		return false
	}

	if ip.IsLoopback() {
		return true
	}

	if ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() {
		return true
	}

	if ip.IsPrivate() {
		return true
	}

	if ip.IsUnspecified() {
		return true
	}

	// Cloud metadata endpoints (AWS/GCP/Azure standard, plus Azure's second).
	if ip.Equal(net.ParseIP("169.254.169.254")) || ip.Equal(net.ParseIP("168.63.129.16")) {
		return true
	}

	return false
}

// IsPrivateHost checks if a hostname resolves to a private IP address.
// Returns true if the host is private/blocked, false if it's safe to access.
func IsPrivateHost(host string) (bool, error) {
	hostname := host
	if h, _, err := net.SplitHostPort(host); err == nil {
		hostname = h
	}

	ips, err := net.LookupIP(hostname)
	if err != nil {
		// If we can't resolve, be conservative and block.
		return true, err
	}

	for _, ip := range ips {
		if IsPrivateIP(ip) {
			return true, nil
		}
	}

	return false, nil
}

// ValidateURLForAssetCheck validates a preview URL is safe to probe.
// Blocks private IPs, localhost, and cloud metadata endpoints.
func ValidateURLForAssetCheck(urlStr string) (bool, string) {
	valid, msg := ValidateURL(urlStr)
	if !valid {
		return false, msg
	}

	u, _ := url.Parse(urlStr)

	isPrivate, err := IsPrivateHost(u.Host)
	if err != nil {
		return false, "Cannot resolve hostname"
	}
	if isPrivate {
		return false, "URL points to a private or reserved IP address"
	}

	return true, ""
}
