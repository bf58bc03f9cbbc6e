package mcp

import (
	"context"

	"github.com/TheLustriVA/Croissant-TOML/internal/core/domain"
)

// mockConversionService is a mock implementation of driving.ConversionService.
type mockConversionService struct {
	output    []byte
	report    *domain.Report
	roundTrip *domain.RoundTrip
	err       error

	// input records the last document passed in.
	input []byte
}

func (m *mockConversionService) ToTOML(_ context.Context, jsonld []byte) ([]byte, error) {
	m.input = jsonld
	return m.output, m.err
}

func (m *mockConversionService) ToJSONLD(_ context.Context, toml []byte) ([]byte, error) {
	m.input = toml
	return m.output, m.err
}

func (m *mockConversionService) Validate(_ context.Context, toml []byte) (*domain.Report, error) {
	m.input = toml
	return m.report, m.err
}

func (m *mockConversionService) RoundTrip(_ context.Context, jsonld []byte) (*domain.RoundTrip, error) {
	m.input = jsonld
	return m.roundTrip, m.err
}
