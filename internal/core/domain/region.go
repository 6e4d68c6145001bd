package domain

import "strings"

// Region identifies a Falcon cloud.
type Region string

// Known Falcon clouds.
const (
	RegionUS1    Region = "US1"
	RegionUS2    Region = "US2"
	RegionEU1    Region = "EU1"
	RegionUSGOV1 Region = "USGOV1"
	RegionUSGOV2 Region = "USGOV2"
)

// Regions lists every known cloud in lookup order.
var Regions = []Region{RegionUS1, RegionUS2, RegionEU1, RegionUSGOV1, RegionUSGOV2}

var regionHosts = map[Region]string{
	RegionUS1:    "api.crowdstrike.com",
	RegionUS2:    "api.us-2.crowdstrike.com",
	RegionEU1:    "api.eu-1.crowdstrike.com",
	RegionUSGOV1: "api.laggar.gcw.crowdstrike.com",
	RegionUSGOV2: "api.us-gov-2.crowdstrike.mil",
}

var containerHosts = map[Region]string{
	RegionUS1:    "container-upload.us-1.crowdstrike.com",
	RegionUS2:    "container-upload.us-2.crowdstrike.com",
	RegionEU1:    "container-upload.eu-1.crowdstrike.com",
	RegionUSGOV1: "container-upload.laggar.gcw.crowdstrike.com",
	RegionUSGOV2: "container-upload.us-gov-2.crowdstrike.mil",
}

// DefaultBaseURL is used when no base URL is configured.
const DefaultBaseURL = "https://api.crowdstrike.com"

// ParseRegion resolves a region short name such as "us-2", "US2" or "usgov1".
func ParseRegion(name string) (Region, bool) {
	key := Region(strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(name), "-", "")))
	if _, ok := regionHosts[key]; ok {
		return key, true
	}
	return "", false
}

// Host returns the OAuth2 API host for the region.
func (r Region) Host() string {
	return regionHosts[r]
}

// ContainerHost returns the container upload host paired with the region.
func (r Region) ContainerHost() string {
	return containerHosts[r]
}

// BaseURL returns the API base URL for the region using the https scheme.
func (r Region) BaseURL() string {
	return "https://" + r.Host()
}

// String returns the string representation.
func (r Region) String() string {
	return string(r)
}

// ConfirmBaseURL normalises a caller-supplied base URL. Region short names
// map to their API host, bare hosts gain an https scheme and any trailing
// slash is removed. "auto" resolves to US1 and is corrected after login by
// region discovery.
func ConfirmBaseURL(provided string) string {
	provided = strings.TrimSpace(provided)
	if provided == "" || strings.EqualFold(provided, "auto") {
		return DefaultBaseURL
	}
	if region, ok := ParseRegion(provided); ok {
		return region.BaseURL()
	}
	if !strings.Contains(provided, "://") {
		provided = "https://" + provided
	}
	return strings.TrimRight(provided, "/")
}

// SplitBaseURL returns the scheme and host of a base URL, ignoring any path.
func SplitBaseURL(baseURL string) (scheme, host string) {
	scheme = "https"
	rest := baseURL
	if i := strings.Index(rest, "://"); i >= 0 {
		scheme = rest[:i]
		rest = rest[i+3:]
	}
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest = rest[:i]
	}
	return scheme, rest
}

// RegionForBaseURL returns the region whose API host matches baseURL.
func RegionForBaseURL(baseURL string) (Region, bool) {
	_, host := SplitBaseURL(baseURL)
	for _, r := range Regions {
		if strings.EqualFold(regionHosts[r], host) {
			return r, true
		}
	}
	return "", false
}

// ImpliedRegion returns the region a base URL points at, falling back to
// US1 for hosts outside the region table.
func ImpliedRegion(baseURL string) Region {
	if r, ok := RegionForBaseURL(baseURL); ok {
		return r
	}
	return RegionUS1
}

// ContainerBaseURL returns the container upload base URL paired with
// baseURL. The second value is false when baseURL is not a known API host.
func ContainerBaseURL(baseURL string) (string, bool) {
	r, ok := RegionForBaseURL(baseURL)
	if !ok {
		return baseURL, false
	}
	scheme, _ := SplitBaseURL(baseURL)
	return scheme + "://" + r.ContainerHost(), true
}
