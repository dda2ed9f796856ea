package models

import (
	"strings"
)

// Platform identifies a food-delivery platform
type Platform string

const (
	PlatformZomato Platform = "zomato"
	PlatformSwiggy Platform = "swiggy"
)

// DisplayName returns the name shown to users
func (p Platform) DisplayName() string {
	switch p {
	case PlatformZomato:
		return "Zomato"
	case PlatformSwiggy:
		return "Swiggy"
	}
	s := string(p)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// PlatformInfo describes how to reach and recognise one platform
type PlatformInfo struct {
	Platform      Platform `json:"platform"`
	HomeURL       string   `json:"home_url"`
	Domains       []string `json:"domains"`
	DeepLinkHosts []string `json:"deep_link_hosts"`
}

// DefaultPlatforms returns the two supported platforms
func DefaultPlatforms() []PlatformInfo {
	return []PlatformInfo{
		{
			Platform:      PlatformZomato,
			HomeURL:       "https://www.zomato.com",
			Domains:       []string{"zomato.com"},
			DeepLinkHosts: []string{"zoma.to", "link.zomato.com", "onelink.me"},
		},
		{
			Platform:      PlatformSwiggy,
			HomeURL:       "https://www.swiggy.com",
			Domains:       []string{"swiggy.com"},
			DeepLinkHosts: []string{"onelink.me", "swiggy.app.link"},
		},
	}
}

// PlatformRegistry resolves hosts to platforms
type PlatformRegistry struct {
	platforms []PlatformInfo
}

// NewPlatformRegistry creates a registry; an empty list falls back to DefaultPlatforms
func NewPlatformRegistry(platforms []PlatformInfo) *PlatformRegistry {
	if len(platforms) == 0 {
		platforms = DefaultPlatforms()
	}
	return &PlatformRegistry{platforms: platforms}
}

// Platforms returns the registered platforms in order
func (r *PlatformRegistry) Platforms() []PlatformInfo {
	out := make([]PlatformInfo, len(r.platforms))
	copy(out, r.platforms)
	return out
}

// Info returns the description of p
func (r *PlatformRegistry) Info(p Platform) (PlatformInfo, bool) {
	for _, info := range r.platforms {
		if info.Platform == p {
			return info, true
		}
	}
	return PlatformInfo{}, false
}

// Lookup finds the platform serving host. Subdomains of a platform domain match.
func (r *PlatformRegistry) Lookup(host string) (PlatformInfo, bool) {
	host = normalizeHost(host)
	for _, info := range r.platforms {
		for _, domain := range info.Domains {
			if hostMatches(host, domain) {
				return info, true
			}
		}
	}
	return PlatformInfo{}, false
}

// IsDeepLinkHost reports whether host is a known mobile deep-link host
func (r *PlatformRegistry) IsDeepLinkHost(host string) bool {
	host = normalizeHost(host)
	for _, info := range r.platforms {
		for _, dl := range info.DeepLinkHosts {
			if hostMatches(host, dl) {
				return true
			}
		}
	}
	return false
}

// Other returns the first registered platform that is not p
func (r *PlatformRegistry) Other(p Platform) (PlatformInfo, bool) {
	for _, info := range r.platforms {
		if info.Platform != p {
			return info, true
		}
	}
	return PlatformInfo{}, false
}

func normalizeHost(host string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(host)), ".")
}

func hostMatches(host, domain string) bool {
	domain = normalizeHost(domain)
	if domain == "" {
		return false
	}
	return host == domain || strings.HasSuffix(host, "."+domain)
}
