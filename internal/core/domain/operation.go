package domain

import "strings"

// ParamLocation is where a declared parameter travels in the request.
type ParamLocation string

// Parameter locations.
const (
	InQuery    ParamLocation = "query"
	InPath     ParamLocation = "path"
	InBody     ParamLocation = "body"
	InFormData ParamLocation = "formData"
	InHeader   ParamLocation = "header"
)

// Param describes one declared parameter of an operation.
type Param struct {
	Name     string        `json:"name"`
	In       ParamLocation `json:"in"`
	Type     string        `json:"type,omitempty"`
	Required bool          `json:"required,omitempty"`
	Enum     []string      `json:"enum,omitempty"`
	Pattern  string        `json:"pattern,omitempty"`
}

// ManualCollection tags descriptors synthesized from an override.
const ManualCollection = "Manual"

// Operation is a static endpoint descriptor.
type Operation struct {
	ID     string `json:"operation_id"`
	Method string `json:"method"`
	// Route is a URL template with "{}" path placeholders.
	Route       string  `json:"route"`
	Description string  `json:"description,omitempty"`
	Collection  string  `json:"collection"`
	Params      []Param `json:"params,omitempty"`
}

// Param returns the declared parameter named name in the given location.
func (o Operation) Param(name string, in ParamLocation) (Param, bool) {
	for _, p := range o.Params {
		if p.Name == name && p.In == in {
			return p, true
		}
	}
	return Param{}, false
}

// QueryParam returns the declared query-string parameter named name.
func (o Operation) QueryParam(name string) (Param, bool) {
	return o.Param(name, InQuery)
}

// IsManual reports whether the descriptor was synthesized from an override.
func (o Operation) IsManual() bool {
	return o.Collection == ManualCollection
}

// ParseOverride builds a manual descriptor from "METHOD,/route".
func ParseOverride(override string) (Operation, bool) {
	method, route, ok := strings.Cut(override, ",")
	if !ok {
		return Operation{}, false
	}
	method = strings.ToUpper(strings.TrimSpace(method))
	route = strings.TrimSpace(route)
	if method == "" || route == "" {
		return Operation{}, false
	}
	return Operation{
		ID:         ManualCollection,
		Method:     method,
		Route:      route,
		Collection: ManualCollection,
	}, true
}

// ValueType is the expected type of a body field.
type ValueType string

// Body field types understood by the dispatcher's validator.
const (
	TypeString  ValueType = "string"
	TypeInteger ValueType = "integer"
	TypeNumber  ValueType = "number"
	TypeBoolean ValueType = "boolean"
	TypeList    ValueType = "list"
	TypeMap     ValueType = "map"
)

// BodyValidator maps a body field name to its expected type.
type BodyValidator map[string]ValueType
