package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const uriScheme = "falcon://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "collections",
		Name:        "collections",
		Description: "Service collections in the operation catalog with their operation counts",
		MIMEType:    "application/json",
	}, s.handleCollectionsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "collections/{collection}",
		Name:        "collection-operations",
		Description: "Operations belonging to one service collection",
		MIMEType:    "application/json",
	}, s.handleCollectionResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "operations/{operationId}",
		Name:        "operation",
		Description: "Descriptor of a single operation including its parameters",
		MIMEType:    "application/json",
	}, s.handleOperationResource)
}

func (s *Server) handleCollectionsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	counts := make(map[string]int)
	for _, op := range s.ports.Catalog.Operations() {
		counts[op.Collection]++
	}

	type collectionInfo struct {
		Name       string `json:"name"`
		Operations int    `json:"operations"`
	}
	infos := make([]collectionInfo, 0, len(counts))
	for name, n := range counts {
		infos = append(infos, collectionInfo{Name: name, Operations: n})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })

	return jsonResource(req.Params.URI, infos)
}

func (s *Server) handleCollectionResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	name := trimURI(req.Params.URI, "collections/")
	if name == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	ops := s.ports.Catalog.Collection(name)
	if len(ops) == 0 {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	out := make([]OperationOutput, len(ops))
	for i, op := range ops {
		out[i] = describe(op)
	}
	return jsonResource(req.Params.URI, out)
}

func (s *Server) handleOperationResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	id := trimURI(req.Params.URI, "operations/")
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	op, ok := s.ports.Catalog.Lookup(id)
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	return jsonResource(req.Params.URI, op)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// trimURI returns the part of uri after falcon://<prefix>, or "" when uri
// does not start with it or names a nested path.
func trimURI(uri, prefix string) string {
	rest, ok := strings.CutPrefix(uri, uriScheme+prefix)
	if !ok || strings.Contains(rest, "/") {
		return ""
	}
	return rest
}
