package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/TheLustriVA/Croissant-TOML/internal/core/domain"
)

// ToTOMLInput is the input schema for the to_toml tool.
type ToTOMLInput struct {
	JSONLD string `json:"jsonld" jsonschema:"the Croissant JSON-LD document text"`
}

// ToTOMLOutput is the output schema for the to_toml tool.
type ToTOMLOutput struct {
	TOML string `json:"toml"`
}

// ToJSONLDInput is the input schema for the to_jsonld tool.
type ToJSONLDInput struct {
	TOML string `json:"toml" jsonschema:"the Croissant TOML document text"`
}

// ToJSONLDOutput is the output schema for the to_jsonld tool.
type ToJSONLDOutput struct {
	JSONLD string `json:"jsonld"`
}

// ValidateInput is the input schema for the validate tool.
type ValidateInput struct {
	TOML   string `json:"toml" jsonschema:"the Croissant TOML document text"`
	Strict bool   `json:"strict,omitempty" jsonschema:"treat warnings as errors"`
}

// ValidateOutput is the output schema for the validate tool.
type ValidateOutput struct {
	Valid       bool               `json:"valid"`
	Diagnostics []DiagnosticOutput `json:"diagnostics"`
}

// DiagnosticOutput represents a single validation finding.
type DiagnosticOutput struct {
	Path     string `json:"path"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
	Check    string `json:"check"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "to_toml",
		Description: "Convert Croissant JSON-LD metadata into commented TOML",
	}, s.handleToTOML)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "to_jsonld",
		Description: "Convert Croissant TOML back into JSON-LD. Fails with the diagnostics if the TOML does not validate",
	}, s.handleToJSONLD)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "validate",
		Description: "Validate Croissant TOML and list schema, format, vocabulary and reference diagnostics",
	}, s.handleValidate)
}

func (s *Server) handleToTOML(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ToTOMLInput,
) (*mcp.CallToolResult, ToTOMLOutput, error) {
	out, err := s.ports.Conversion.ToTOML(ctx, []byte(input.JSONLD))
	if err != nil {
		return nil, ToTOMLOutput{}, err
	}
	return nil, ToTOMLOutput{TOML: string(out)}, nil
}

func (s *Server) handleToJSONLD(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ToJSONLDInput,
) (*mcp.CallToolResult, ToJSONLDOutput, error) {
	out, err := s.ports.Conversion.ToJSONLD(ctx, []byte(input.TOML))
	if err != nil {
		return nil, ToJSONLDOutput{}, describe(err)
	}
	return nil, ToJSONLDOutput{JSONLD: string(out)}, nil
}

func (s *Server) handleValidate(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ValidateInput,
) (*mcp.CallToolResult, ValidateOutput, error) {
	report, err := s.ports.Conversion.Validate(ctx, []byte(input.TOML))
	if err != nil {
		return nil, ValidateOutput{}, err
	}
	if input.Strict {
		report = report.Strict()
	}

	output := ValidateOutput{
		Valid:       report.Valid,
		Diagnostics: make([]DiagnosticOutput, len(report.Diagnostics)),
	}
	for i, d := range report.Diagnostics {
		output.Diagnostics[i] = DiagnosticOutput{
			Path:     d.Path,
			Message:  d.Message,
			Severity: string(d.Severity),
			Check:    string(d.Check),
		}
	}
	return nil, output, nil
}

// describe spells out every diagnostic of a validation failure, since the
// caller only sees the error text.
func describe(err error) error {
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || ve.Report == nil {
		return err
	}
	lines := make([]string, len(ve.Report.Diagnostics))
	for i, d := range ve.Report.Diagnostics {
		lines[i] = d.String()
	}
	return fmt.Errorf("%w:\n%s", domain.ErrValidation, strings.Join(lines, "\n"))
}
