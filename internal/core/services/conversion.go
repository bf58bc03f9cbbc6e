package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/TheLustriVA/Croissant-TOML/internal/core/domain"
	"github.com/TheLustriVA/Croissant-TOML/internal/core/ports/driven"
	"github.com/TheLustriVA/Croissant-TOML/internal/core/ports/driving"
	"github.com/TheLustriVA/Croissant-TOML/internal/logger"
)

// Ensure ConversionService implements the interface.
var _ driving.ConversionService = (*ConversionService)(nil)

// ConversionService orchestrates the conversion pipeline in both directions.
// It keeps no per-call state and is safe for concurrent use.
type ConversionService struct {
	normaliser driven.Normaliser
	renderer   driven.Renderer
	parser     driven.TextParser
	validator  driven.Validator
	mapper     driven.ReverseMapper
	indent     int
	strict     bool
}

// NewConversionService creates a new conversion service.
func NewConversionService(
	normaliser driven.Normaliser,
	renderer driven.Renderer,
	parser driven.TextParser,
	validator driven.Validator,
	mapper driven.ReverseMapper,
	settings domain.AppSettings,
) *ConversionService {
	return &ConversionService{
		normaliser: normaliser,
		renderer:   renderer,
		parser:     parser,
		validator:  validator,
		mapper:     mapper,
		indent:     settings.Output.Indent,
		strict:     settings.Validate.Strict,
	}
}

// ToTOML converts JSON-LD bytes into commented TOML.
func (s *ConversionService) ToTOML(ctx context.Context, jsonld []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log := logger.Scope(uuid.NewString())
	log.Debug("to-toml: %d bytes of JSON-LD", len(jsonld))

	doc, err := s.normaliser.Normalise(jsonld)
	if err != nil {
		return nil, fmt.Errorf("failed to normalise JSON-LD: %w", err)
	}
	log.Debug("normalised %d distributions, %d record sets", len(doc.Distribution), len(doc.RecordSets))

	out, err := s.renderer.Render(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to render TOML: %w", err)
	}
	log.Info("rendered %d bytes of TOML", len(out))
	return out, nil
}

// ToJSONLD converts TOML bytes into JSON-LD. The document must validate.
func (s *ConversionService) ToJSONLD(ctx context.Context, toml []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log := logger.Scope(uuid.NewString())
	log.Debug("to-json: %d bytes of TOML", len(toml))

	tree, err := s.parser.Decode(toml)
	if err != nil {
		return nil, err
	}

	report := s.check(tree)
	log.Debug("validation: %d errors, %d warnings", len(report.Errors()), len(report.Warnings()))
	if !report.Valid {
		return nil, &domain.ValidationError{Report: report}
	}

	out, err := s.reverse(tree)
	if err != nil {
		return nil, err
	}
	log.Info("wrote %d bytes of JSON-LD", len(out))
	return out, nil
}

// Validate checks TOML bytes. Only undecodable input is an error.
func (s *ConversionService) Validate(ctx context.Context, toml []byte) (*domain.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log := logger.Scope(uuid.NewString())

	tree, err := s.parser.Decode(toml)
	if err != nil {
		return nil, err
	}
	report := s.check(tree)
	log.Info("validation: valid=%t, %d diagnostics", report.Valid, len(report.Diagnostics))
	return report, nil
}

// RoundTrip converts JSON-LD to TOML and back, then compares the normalised
// input with the normalised output. Validation is not applied on the way
// back so that format problems in the input do not hide conversion losses.
func (s *ConversionService) RoundTrip(ctx context.Context, jsonld []byte) (*domain.RoundTrip, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log := logger.Scope(uuid.NewString())

	before, err := s.normaliser.Normalise(jsonld)
	if err != nil {
		return nil, fmt.Errorf("failed to normalise JSON-LD: %w", err)
	}
	text, err := s.renderer.Render(before)
	if err != nil {
		return nil, fmt.Errorf("failed to render TOML: %w", err)
	}

	tree, err := s.parser.Decode(text)
	if err != nil {
		return nil, fmt.Errorf("rendered TOML does not decode: %w", err)
	}
	out, err := s.reverse(tree)
	if err != nil {
		return nil, err
	}

	after, err := s.normaliser.Normalise(out)
	if err != nil {
		return nil, fmt.Errorf("reverse JSON-LD does not normalise: %w", err)
	}

	result := &domain.RoundTrip{TOML: text, JSONLD: out, Difference: Difference(before, after)}
	if !result.Equal() {
		log.Warn("round trip differs at %s", result.Difference)
		return result, fmt.Errorf("%w at %s", domain.ErrRoundTrip, result.Difference)
	}
	log.Info("round trip preserved the document")
	return result, nil
}

func (s *ConversionService) check(tree *domain.Tree) *domain.Report {
	report := s.validator.Validate(tree)
	if s.strict {
		return report.Strict()
	}
	return report
}

func (s *ConversionService) reverse(tree *domain.Tree) ([]byte, error) {
	doc, err := s.parser.Build(tree)
	if err != nil {
		return nil, fmt.Errorf("failed to read TOML document: %w", err)
	}
	obj, err := s.mapper.Map(doc)
	if err != nil {
		var me *domain.MappingError
		if errors.As(err, &me) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to map to JSON-LD: %w", err)
	}
	return s.mapper.Encode(obj, s.indent)
}
