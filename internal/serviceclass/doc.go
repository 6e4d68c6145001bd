// Package serviceclass provides typed wrappers over one API collection
// each.
//
// A ServiceClass binds a shared services.FalconInterface to the
// operations of a single collection. Several classes built on the same
// interface multiplex one token and observe each other's refreshes and
// region changes, while each keeps its own proxy, timeout, user agent and
// extra headers.
//
// Every typed class carries an explicit dispatch table so methods can be
// invoked by operation id or by their snake_case alias:
//
//	hosts := serviceclass.NewHosts(serviceclass.Options{Auth: auth})
//	resp := hosts.Invoke(ctx, "query_devices_by_filter", opts)
package serviceclass
