package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for croissant-toml resources.
	uriScheme = "croissant://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "schema",
		Name:        "schema",
		Description: "JSON Schema the TOML layout is validated against",
		MIMEType:    "application/schema+json",
	}, s.handleSchemaResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "fields/{section}",
		Name:        "section-fields",
		Description: "Recognised fields of a TOML section with descriptions and allowed values",
		MIMEType:    "application/json",
	}, s.handleFieldsResource)
}

// handleSchemaResource returns the validation schema.
func (s *Server) handleSchemaResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Catalog == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	data, err := json.MarshalIndent(s.ports.Catalog.JSONSchema(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling schema: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/schema+json",
			Text:     string(data),
		}},
	}, nil
}

// fieldInfo is the JSON shape of one catalog entry.
type fieldInfo struct {
	Key         string   `json:"key"`
	JSONLD      string   `json:"jsonld,omitempty"`
	Type        string   `json:"type"`
	Required    bool     `json:"required,omitempty"`
	Description string   `json:"description,omitempty"`
	Values      []string `json:"values,omitempty"`
}

// handleFieldsResource lists the catalog entries of one section.
func (s *Server) handleFieldsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Catalog == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract section from URI: croissant://fields/{section}
	section := extractSection(req.Params.URI)
	if section == "" || !slices.Contains(s.ports.Catalog.Sections(), section) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	entries := s.ports.Catalog.Entries(section)
	infos := make([]fieldInfo, len(entries))
	for i, e := range entries {
		infos[i] = fieldInfo{
			Key:         e.Key,
			JSONLD:      e.JSONLD,
			Type:        e.Type,
			Required:    e.Required,
			Description: e.Description,
			Values:      s.ports.Catalog.Enum(section, e.Key),
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling fields: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractSection extracts the section from a URI like croissant://fields/{section}.
func extractSection(uri string) string {
	const prefix = uriScheme + "fields/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	return strings.TrimPrefix(uri, prefix)
}
