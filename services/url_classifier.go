package services

import (
	"fmt"
	"net/url"
	"strings"

	"menucompare/models"
)

// RejectReason explains why an input URL cannot be compared
type RejectReason string

const (
	ReasonMobileDeepLink    RejectReason = "mobile_deep_link"
	ReasonUnsupportedDomain RejectReason = "unsupported_domain"
	ReasonInvalidURL        RejectReason = "invalid_url"
)

// InputRejectedError is returned when the input URL is not a supported web page
type InputRejectedError struct {
	Reason  RejectReason
	Host    string
	Message string
}

func (e *InputRejectedError) Error() string {
	return e.Message
}

// Classification is an accepted input URL with its platforms
type Classification struct {
	URL    string
	Source models.PlatformInfo
	Target models.PlatformInfo
}

// ClassifyURL maps rawURL to its source platform and the competing one.
// A missing scheme is treated as https.
func ClassifyURL(registry *models.PlatformRegistry, rawURL string) (Classification, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return Classification{}, &InputRejectedError{Reason: ReasonInvalidURL, Message: "url is required"}
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}

	u, err := url.Parse(trimmed)
	if err != nil || u.Hostname() == "" {
		return Classification{}, &InputRejectedError{
			Reason:  ReasonInvalidURL,
			Message: fmt.Sprintf("%q is not a valid URL", rawURL),
		}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Classification{}, &InputRejectedError{
			Reason:  ReasonInvalidURL,
			Host:    u.Hostname(),
			Message: fmt.Sprintf("unsupported scheme %q", u.Scheme),
		}
	}

	host := u.Hostname()
	if registry.IsDeepLinkHost(host) {
		return Classification{}, &InputRejectedError{
			Reason:  ReasonMobileDeepLink,
			Host:    host,
			Message: "mobile app links are not supported, open the dish in a browser and paste the web URL",
		}
	}

	source, ok := registry.Lookup(host)
	if !ok {
		return Classification{}, &InputRejectedError{
			Reason:  ReasonUnsupportedDomain,
			Host:    host,
			Message: fmt.Sprintf("%s is neither Zomato nor Swiggy", host),
		}
	}
	target, ok := registry.Other(source.Platform)
	if !ok {
		return Classification{}, &InputRejectedError{
			Reason:  ReasonUnsupportedDomain,
			Host:    host,
			Message: fmt.Sprintf("no platform to compare %s against", source.Platform.DisplayName()),
		}
	}

	return Classification{URL: u.String(), Source: source, Target: target}, nil
}
