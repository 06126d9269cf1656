package validators

import (
	"net"
	"strings"
)

// IsEmailDomainValid checks that the address has a deliverable domain:
// an MX record, or at least an A/AAAA record as fallback. Format
// validation happens at binding time; this only vets the domain.
func IsEmailDomainValid(email string) bool {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}

	domain := strings.ToLower(email[at+1:])
	if strings.Contains(domain, "..") {
		return false
	}

	if mx, err := net.LookupMX(domain); err == nil && len(mx) > 0 {
		return true
	}

	if ips, err := net.LookupIP(domain); err == nil && len(ips) > 0 {
		return true
	}

	return false
}
