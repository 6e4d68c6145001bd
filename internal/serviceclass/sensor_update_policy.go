package serviceclass

import (
	"context"

	"github.com/custodia-labs/falcon-go/internal/core/domain"
)

var sensorUpdateActions = []string{"add-host-group", "disable", "enable", "remove-host-group"}

// sensorUpdateAliases maps snake_case method names onto operation ids.
var sensorUpdateAliases = map[string]string{
	"reveal_uninstall_token":                   "revealUninstallToken",
	"query_combined_builds":                    "queryCombinedSensorUpdateBuilds",
	"query_combined_kernels":                   "queryCombinedSensorUpdateKernels",
	"query_combined_policy_members":            "queryCombinedSensorUpdatePolicyMembers",
	"query_combined_policies":                  "queryCombinedSensorUpdatePolicies",
	"query_combined_policies_v2":               "queryCombinedSensorUpdatePoliciesV2",
	"perform_policies_action":                  "performSensorUpdatePoliciesAction",
	"set_policies_precedence":                  "setSensorUpdatePoliciesPrecedence",
	"get_policies":                             "getSensorUpdatePolicies",
	"create_policies":                          "createSensorUpdatePolicies",
	"update_policies":                          "updateSensorUpdatePolicies",
	"delete_policies":                          "deleteSensorUpdatePolicies",
	"get_policies_v2":                          "getSensorUpdatePoliciesV2",
	"create_policies_v2":                       "createSensorUpdatePoliciesV2",
	"update_policies_v2":                       "updateSensorUpdatePoliciesV2",
	"query_kernels_distinct":                   "querySensorUpdateKernelsDistinct",
	"query_policy_members":                     "querySensorUpdatePolicyMembers",
	"query_policies":                           "querySensorUpdatePolicies",
	"query_combined_sensor_update_builds":      "queryCombinedSensorUpdateBuilds",
	"query_combined_sensor_update_kernels":     "queryCombinedSensorUpdateKernels",
	"query_sensor_update_kernels_distinct":     "querySensorUpdateKernelsDistinct",
	"perform_sensor_update_policies_action":    "performSensorUpdatePoliciesAction",
	"set_sensor_update_policies_precedence":    "setSensorUpdatePoliciesPrecedence",
	"query_combined_sensor_update_policies_v2": "queryCombinedSensorUpdatePoliciesV2",
}

// SensorUpdatePolicy wraps the sensor_update_policies collection.
type SensorUpdatePolicy struct {
	*ServiceClass
}

// NewSensorUpdatePolicy creates a sensor update policy class.
func NewSensorUpdatePolicy(opts Options) *SensorUpdatePolicy {
	p := &SensorUpdatePolicy{ServiceClass: New("sensor_update_policies", opts)}
	for alias, id := range sensorUpdateAliases {
		p.Alias(alias, id)
	}
	p.Register("performSensorUpdatePoliciesAction", p.performAction)
	p.Register("querySensorUpdateKernelsDistinct", p.queryKernelsDistinct)
	p.Register("setSensorUpdatePoliciesPrecedence", p.setPrecedence)
	return p
}

// PerformAction applies actionName to the policies in body.
func (p *SensorUpdatePolicy) PerformAction(ctx context.Context, actionName string, body map[string]any) *domain.Response {
	return p.performAction(ctx, domain.CommandOptions{
		Keywords: map[string]any{"action_name": actionName},
		Body:     body,
	})
}

// QueryKernelsDistinct lists the distinct values of field across supported kernels.
func (p *SensorUpdatePolicy) QueryKernelsDistinct(ctx context.Context, field string, q Query) *domain.Response {
	opts := q.Options()
	opts.DistinctField = field
	return p.queryKernelsDistinct(ctx, opts)
}

// SetPrecedence orders the policies of platform, highest precedence first.
func (p *SensorUpdatePolicy) SetPrecedence(ctx context.Context, platform string, ids ...string) *domain.Response {
	list := make([]any, 0, len(ids))
	for _, id := range ids {
		list = append(list, id)
	}
	return p.setPrecedence(ctx, domain.CommandOptions{
		Body: map[string]any{"platform_name": platform, "ids": list},
	})
}

// QueryPolicies searches sensor update policies.
func (p *SensorUpdatePolicy) QueryPolicies(ctx context.Context, q Query) *domain.Response {
	return p.Invoke(ctx, "querySensorUpdatePolicies", q.Options())
}

// GetPoliciesV2 returns policy details by id.
func (p *SensorUpdatePolicy) GetPoliciesV2(ctx context.Context, ids ...string) *domain.Response {
	return p.Invoke(ctx, "getSensorUpdatePoliciesV2", domain.CommandOptions{Keywords: map[string]any{"ids": ids}})
}

func (p *SensorUpdatePolicy) performAction(ctx context.Context, opts domain.CommandOptions) *domain.Response {
	action, _ := keyword(opts, "action_name")
	name, _ := action.(string)
	if !allowed(sensorUpdateActions, name) {
		return invalidAction()
	}
	req := RequestFromOptions(opts)
	req.BodyValidator = domain.BodyValidator{"ids": domain.TypeList, "action_parameters": domain.TypeList}
	req.BodyRequired = []string{"ids"}
	return p.Call(ctx, "performSensorUpdatePoliciesAction", req)
}

func (p *SensorUpdatePolicy) queryKernelsDistinct(ctx context.Context, opts domain.CommandOptions) *domain.Response {
	if opts.DistinctField == "" {
		if v, ok := keyword(opts, "distinct_field"); ok {
			opts.DistinctField = stringValue(v)
		}
	}
	if opts.DistinctField == "" {
		return domain.ErrorResponse(domain.NewError(domain.KindValidation, "Argument distinct_field must be specified."))
	}
	return p.Call(ctx, "querySensorUpdateKernelsDistinct", RequestFromOptions(opts))
}

func (p *SensorUpdatePolicy) setPrecedence(ctx context.Context, opts domain.CommandOptions) *domain.Response {
	req := RequestFromOptions(opts)
	req.BodyValidator = domain.BodyValidator{"ids": domain.TypeList, "platform_name": domain.TypeString}
	req.BodyRequired = []string{"ids", "platform_name"}
	return p.Call(ctx, "setSensorUpdatePoliciesPrecedence", req)
}
