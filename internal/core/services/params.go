package services

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/custodia-labs/falcon-go/internal/core/domain"
	"github.com/custodia-labs/falcon-go/internal/logger"
)

// ArgsToParams builds the query string for op. Explicit params are copied
// as given. Each keyword naming a declared query parameter is added, with
// comma-delimited strings split for array parameters. Keywords that match
// no query parameter are dropped. Manual operations skip keyword matching.
func ArgsToParams(op domain.Operation, params, keywords map[string]any) map[string]any {
	out := make(map[string]any, len(params)+len(keywords))
	for k, v := range params {
		out[k] = v
	}
	if op.IsManual() {
		return out
	}
	for name, value := range keywords {
		param, ok := op.QueryParam(name)
		if !ok {
			logger.Debug("%s: ignoring keyword %q", op.ID, name)
			continue
		}
		if s, isString := value.(string); isString {
			if param.Type == "array" {
				value = strings.Split(s, ",")
			} else if strings.Contains(s, "%3A") {
				logger.Warn("%s argument contains potentially urlencoded string of '%s'.", name, s)
			}
		}
		out[name] = value
	}
	return out
}

// MergeHeaders combines the auth header with caller supplied extras.
// Extras never replace Authorization. A non-empty contentType sets
// Content-Type.
func MergeHeaders(auth, extra map[string]string, contentType string) map[string]string {
	out := make(map[string]string, len(auth)+len(extra)+1)
	for k, v := range extra {
		if strings.EqualFold(k, "Authorization") {
			continue
		}
		out[k] = v
	}
	if contentType != "" {
		out["Content-Type"] = contentType
	}
	for k, v := range auth {
		out[k] = v
	}
	return out
}

// PathValues fill the placeholders of a route template.
type PathValues struct {
	Partition     string
	DistinctField string
	ImageID       string
	// ID is any other "{}" value.
	ID string
	// Named fills "{name}" placeholders.
	Named map[string]string
}

// Positional returns the value for the "{}" placeholder in priority order.
func (p PathValues) Positional() (string, bool) {
	for _, v := range []string{p.Partition, p.DistinctField, p.ImageID, p.ID} {
		if v != "" {
			return v, true
		}
	}
	return "", false
}

// ResolveRoute substitutes path placeholders in route. A query template
// such as "?ids={}" that is left unresolved is removed, since the value
// travels in the query string instead.
func ResolveRoute(route string, values PathValues) string {
	if v, ok := values.Positional(); ok && strings.Contains(route, "{}") {
		route = strings.Replace(route, "{}", url.PathEscape(v), 1)
	}
	for name, v := range values.Named {
		route = strings.ReplaceAll(route, "{"+name+"}", url.PathEscape(v))
	}
	if path, query, found := strings.Cut(route, "?"); found && strings.Contains(query, "{}") {
		route = path
	}
	return route
}

var namedPlaceholder = regexp.MustCompile(`\{([A-Za-z0-9_-]+)\}`)

// PathFromKeywords completes values from keywords for every placeholder
// in op's route that values leave open. Consumed keywords are removed
// from keywords so they never reach the query string.
func PathFromKeywords(op domain.Operation, values PathValues, keywords map[string]any) PathValues {
	path, _, _ := strings.Cut(op.Route, "?")

	for _, m := range namedPlaceholder.FindAllStringSubmatch(path, -1) {
		name := m[1]
		if _, set := values.Named[name]; set {
			continue
		}
		v, ok := takeKeyword(keywords, name)
		if !ok {
			for alias, target := range domain.PathKeywordAliases {
				if target == name {
					if v, ok = takeKeyword(keywords, alias); ok {
						break
					}
				}
			}
		}
		if !ok {
			continue
		}
		named := make(map[string]string, len(values.Named)+1)
		for k, val := range values.Named {
			named[k] = val
		}
		named[name] = v
		values.Named = named
	}

	if !strings.Contains(path, "{}") {
		return values
	}
	if _, ok := values.Positional(); ok {
		return values
	}
	candidates := append([]string{}, domain.PositionalKeywords...)
	for _, p := range op.Params {
		if p.In == domain.InPath {
			candidates = append(candidates, p.Name)
		}
	}
	for _, name := range candidates {
		if v, ok := takeKeyword(keywords, name); ok {
			values.ID = v
			break
		}
	}
	return values
}

// takeKeyword removes name from keywords and returns its rendered value.
// Missing and empty values are left in place.
func takeKeyword(keywords map[string]any, name string) (string, bool) {
	raw, found := keywords[name]
	if !found {
		return "", false
	}
	v := stringify(raw)
	if v == "" {
		return "", false
	}
	delete(keywords, name)
	return v, true
}

// ContainerTarget applies the container upload remap for op. It returns the
// base URL to use and whether the remap happened.
func ContainerTarget(op domain.Operation, baseURL string, params map[string]any) (string, bool) {
	if !domain.InSet(domain.ContainerOperations, op.ID) {
		return baseURL, false
	}
	if op.ID == domain.OpImageMatchesPolicy && params != nil {
		params["policy_type"] = domain.ImagePreventionPolicy
	}
	return domain.ContainerBaseURL(baseURL)
}

// SplitIDs normalises an ids value into a list.
func SplitIDs(v any) any {
	if s, ok := v.(string); ok {
		return strings.Split(s, ",")
	}
	return v
}
