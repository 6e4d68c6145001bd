package serviceclass

import (
	"context"
	"slices"
	"strings"

	"github.com/custodia-labs/falcon-go/internal/core/domain"
	"github.com/custodia-labs/falcon-go/internal/core/services"
)

// GroupingTagPrefix is prepended to host tags that lack it.
const GroupingTagPrefix = "FalconGroupingTags/"

var (
	hostActions = []string{"contain", "lift_containment", "hide_host", "unhide_host"}
	tagActions  = []string{"add", "remove"}
)

// Hosts wraps the hosts collection.
type Hosts struct {
	*ServiceClass
}

// NewHosts creates a hosts class.
func NewHosts(opts Options) *Hosts {
	h := &Hosts{ServiceClass: New("hosts", opts)}
	h.Register("PerformActionV2", h.performAction, "perform_action")
	h.Register("UpdateDeviceTags", h.updateDeviceTags, "update_device_tags")
	h.Register("GetDeviceDetails", h.getDeviceDetails, "get_device_details")
	h.Alias("query_hidden_devices", "QueryHiddenDevices")
	h.Alias("query_devices_by_filter_scroll", "QueryDevicesByFilterScroll")
	h.Alias("query_devices_by_filter", "QueryDevicesByFilter")
	return h
}

// PerformAction runs a containment or visibility action on the hosts in
// body. Unsupported actions fail without a network call.
func (h *Hosts) PerformAction(ctx context.Context, actionName string, body map[string]any) *domain.Response {
	return h.performAction(ctx, domain.CommandOptions{
		Keywords: map[string]any{"action_name": actionName},
		Body:     body,
	})
}

// UpdateDeviceTags adds or removes grouping tags. ids and tags accept a
// list or a comma-delimited string.
func (h *Hosts) UpdateDeviceTags(ctx context.Context, actionName string, ids, tags any) *domain.Response {
	return h.updateDeviceTags(ctx, domain.CommandOptions{
		Keywords: map[string]any{"action_name": actionName, "ids": ids, "tags": tags},
	})
}

// GetDeviceDetails returns the hosts with the given agent ids.
func (h *Hosts) GetDeviceDetails(ctx context.Context, ids ...string) *domain.Response {
	return h.getDeviceDetails(ctx, domain.CommandOptions{Keywords: map[string]any{"ids": ids}})
}

// QueryDevicesByFilter searches hosts.
func (h *Hosts) QueryDevicesByFilter(ctx context.Context, q Query) *domain.Response {
	return h.Invoke(ctx, "QueryDevicesByFilter", q.Options())
}

// QueryDevicesByFilterScroll searches hosts with a scroll offset.
func (h *Hosts) QueryDevicesByFilterScroll(ctx context.Context, q Query) *domain.Response {
	return h.Invoke(ctx, "QueryDevicesByFilterScroll", q.Options())
}

// QueryHiddenDevices searches hidden hosts.
func (h *Hosts) QueryHiddenDevices(ctx context.Context, q Query) *domain.Response {
	return h.Invoke(ctx, "QueryHiddenDevices", q.Options())
}

func (h *Hosts) performAction(ctx context.Context, opts domain.CommandOptions) *domain.Response {
	action, _ := keyword(opts, "action_name")
	name, _ := action.(string)
	if !allowed(hostActions, name) {
		return invalidAction()
	}
	req := RequestFromOptions(opts)
	req.BodyValidator = domain.BodyValidator{"ids": domain.TypeList, "action_parameters": domain.TypeList}
	req.BodyRequired = []string{"ids"}
	return h.Call(ctx, "PerformActionV2", req)
}

func (h *Hosts) updateDeviceTags(ctx context.Context, opts domain.CommandOptions) *domain.Response {
	action, _ := keyword(opts, "action_name")
	name, _ := action.(string)
	rawTags, hasTags := keyword(opts, "tags")
	if !allowed(tagActions, name) || !hasTags || rawTags == nil {
		return invalidAction()
	}
	ids, _ := keyword(opts, "ids")

	tags := splitList(rawTags)
	prefixed := make([]any, 0, len(tags))
	for _, tag := range tags {
		if !strings.HasPrefix(tag, GroupingTagPrefix) {
			tag = GroupingTagPrefix + tag
		}
		prefixed = append(prefixed, tag)
	}
	deviceIDs := make([]any, 0)
	for _, id := range splitList(ids) {
		deviceIDs = append(deviceIDs, id)
	}

	return h.Call(ctx, "UpdateDeviceTags", services.ServiceRequest{
		Headers: opts.Headers,
		Body: map[string]any{
			"action":     name,
			"device_ids": deviceIDs,
			"tags":       prefixed,
		},
	})
}

func (h *Hosts) getDeviceDetails(ctx context.Context, opts domain.CommandOptions) *domain.Response {
	if ids, ok := keyword(opts, "ids"); ok {
		opts = withKeywords(opts, map[string]any{"ids": splitList(ids)})
	}
	return h.Call(ctx, "GetDeviceDetails", RequestFromOptions(opts))
}

func allowed(actions []string, name string) bool {
	return slices.Contains(actions, strings.ToLower(name))
}

func invalidAction() *domain.Response {
	return domain.ErrorResponse(domain.NewError(domain.KindValidation, "Invalid value specified for action_name parameter."))
}
