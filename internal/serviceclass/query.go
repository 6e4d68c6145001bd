package serviceclass

import (
	"strings"

	"github.com/custodia-labs/falcon-go/internal/core/domain"
)

// Query holds the paging and filter arguments common to query operations.
type Query struct {
	Filter string
	Sort   string
	Limit  int
	Offset string
}

// Keywords converts the query into keyword arguments, omitting unset fields.
func (q Query) Keywords() map[string]any {
	kw := make(map[string]any, 4)
	if q.Filter != "" {
		kw["filter"] = q.Filter
	}
	if q.Sort != "" {
		kw["sort"] = q.Sort
	}
	if q.Limit > 0 {
		kw["limit"] = q.Limit
	}
	if q.Offset != "" {
		kw["offset"] = q.Offset
	}
	return kw
}

// Options converts the query into command options.
func (q Query) Options() domain.CommandOptions {
	return domain.CommandOptions{Keywords: q.Keywords()}
}

// splitList accepts a []string, a []any or a comma-delimited string.
func splitList(v any) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		if t == "" {
			return nil
		}
		return strings.Split(t, ",")
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func keyword(opts domain.CommandOptions, name string) (any, bool) {
	if v, ok := opts.Keywords[name]; ok {
		return v, true
	}
	v, ok := opts.Parameters[name]
	return v, ok
}

func withKeywords(opts domain.CommandOptions, kw map[string]any) domain.CommandOptions {
	merged := make(map[string]any, len(opts.Keywords)+len(kw))
	for k, v := range opts.Keywords {
		merged[k] = v
	}
	for k, v := range kw {
		merged[k] = v
	}
	opts.Keywords = merged
	return opts
}
