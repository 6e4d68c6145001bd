package serviceclass

import (
	"context"

	"github.com/custodia-labs/falcon-go/internal/core/domain"
)

// Incidents wraps the incidents collection.
type Incidents struct {
	*ServiceClass
}

// NewIncidents creates an incidents class.
func NewIncidents(opts Options) *Incidents {
	i := &Incidents{ServiceClass: New("incidents", opts)}
	i.Register("GetBehaviors", i.idsInBody("GetBehaviors"), "get_behaviors")
	i.Register("GetIncidents", i.idsInBody("GetIncidents"), "get_incidents")
	i.Register("PerformIncidentAction", i.performIncidentAction, "perform_incident_action")
	i.Alias("crowdscore", "CrowdScore")
	i.Alias("query_behaviors", "QueryBehaviors")
	i.Alias("query_incidents", "QueryIncidents")
	return i
}

// CrowdScore returns the environment score history.
func (i *Incidents) CrowdScore(ctx context.Context, q Query) *domain.Response {
	return i.Invoke(ctx, "CrowdScore", q.Options())
}

// QueryIncidents searches incident ids.
func (i *Incidents) QueryIncidents(ctx context.Context, q Query) *domain.Response {
	return i.Invoke(ctx, "QueryIncidents", q.Options())
}

// QueryBehaviors searches behavior ids.
func (i *Incidents) QueryBehaviors(ctx context.Context, q Query) *domain.Response {
	return i.Invoke(ctx, "QueryBehaviors", q.Options())
}

// GetIncidents returns incident details.
func (i *Incidents) GetIncidents(ctx context.Context, ids ...string) *domain.Response {
	return i.Invoke(ctx, "GetIncidents", domain.CommandOptions{Keywords: map[string]any{"ids": ids}})
}

// GetBehaviors returns behavior details.
func (i *Incidents) GetBehaviors(ctx context.Context, ids ...string) *domain.Response {
	return i.Invoke(ctx, "GetBehaviors", domain.CommandOptions{Keywords: map[string]any{"ids": ids}})
}

// PerformIncidentAction applies action parameters to incidents.
func (i *Incidents) PerformIncidentAction(ctx context.Context, body map[string]any) *domain.Response {
	return i.performIncidentAction(ctx, domain.CommandOptions{Body: body})
}

// idsInBody posts the ids keyword as {"ids": [...]} unless a body is given.
func (i *Incidents) idsInBody(operationID string) Handler {
	return func(ctx context.Context, opts domain.CommandOptions) *domain.Response {
		if opts.Body == nil {
			if ids, ok := keyword(opts, "ids"); ok {
				list := make([]any, 0)
				for _, id := range splitList(ids) {
					list = append(list, id)
				}
				opts.Body = map[string]any{"ids": list}
			}
		}
		req := RequestFromOptions(opts)
		req.BodyValidator = domain.BodyValidator{"ids": domain.TypeList}
		req.BodyRequired = []string{"ids"}
		return i.Call(ctx, operationID, req)
	}
}

func (i *Incidents) performIncidentAction(ctx context.Context, opts domain.CommandOptions) *domain.Response {
	req := RequestFromOptions(opts)
	req.BodyValidator = domain.BodyValidator{
		"ids":               domain.TypeList,
		"action_parameters": domain.TypeList,
		"overwrite_detects": domain.TypeBoolean,
		"update_detects":    domain.TypeBoolean,
	}
	req.BodyRequired = []string{"ids", "action_parameters"}
	return i.Call(ctx, "PerformIncidentAction", req)
}
