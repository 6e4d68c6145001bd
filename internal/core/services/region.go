package services

import (
	"strings"

	"github.com/custodia-labs/falcon-go/internal/core/domain"
	"github.com/custodia-labs/falcon-go/internal/logger"
)

// RegionHeader carries the cloud a token was minted for.
const RegionHeader = "X-Cs-Region"

// AutodiscoverRegion returns the base URL that subsequent calls should use
// after a token response. When the response names a region other than the
// one implied by baseURL, the region's API host replaces the current host
// and the scheme is kept.
func AutodiscoverRegion(baseURL string, headers map[string]string) string {
	hint := HeaderValue(headers, RegionHeader)
	if hint == "" {
		return baseURL
	}
	region, ok := domain.ParseRegion(hint)
	if !ok {
		logger.Warn("ignoring unknown region hint %q", hint)
		return baseURL
	}
	if region == domain.ImpliedRegion(baseURL) {
		return baseURL
	}
	scheme, _ := domain.SplitBaseURL(baseURL)
	rewritten := scheme + "://" + region.Host()
	logger.Debug("region discovery moved base URL from %s to %s", baseURL, rewritten)
	return rewritten
}

// HeaderValue looks up a header case-insensitively.
func HeaderValue(headers map[string]string, name string) string {
	if v, ok := headers[name]; ok {
		return v
	}
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}
