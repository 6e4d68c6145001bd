package serviceclass

import (
	"fmt"
	"sort"

	"github.com/custodia-labs/falcon-go/internal/adapters/driven/catalog"
	"github.com/custodia-labs/falcon-go/internal/core/domain"
	"github.com/custodia-labs/falcon-go/internal/core/ports/driving"
)

// typed lists the collections with a dedicated class.
var typed = map[string]func(Options) driving.ServiceRequester{
	"hosts":                  func(o Options) driving.ServiceRequester { return NewHosts(o) },
	"event_streams":          func(o Options) driving.ServiceRequester { return NewEventStreams(o) },
	"sensor_update_policies": func(o Options) driving.ServiceRequester { return NewSensorUpdatePolicy(o) },
	"falcon_container":       func(o Options) driving.ServiceRequester { return NewFalconContainer(o) },
	"incidents":              func(o Options) driving.ServiceRequester { return NewIncidents(o) },
	"sensor_download":        func(o Options) driving.ServiceRequester { return NewSensorDownload(o) },
}

// Open returns the class for collection. Collections without a typed
// class get a generic one that dispatches by operation id.
func Open(collection string, opts Options) (driving.ServiceRequester, error) {
	if build, ok := typed[collection]; ok {
		return build(opts), nil
	}
	full := opts.Catalog
	if full == nil {
		full = catalog.MustDefault()
	}
	if len(full.Collection(collection)) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidCollection, collection)
	}
	return New(collection, opts), nil
}

// TypedCollections returns the collections with a dedicated class, sorted.
func TypedCollections() []string {
	names := make([]string, 0, len(typed))
	for name := range typed {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
