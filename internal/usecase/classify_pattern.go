package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/trebuchet-org/treb-proxy/internal/domain"
	"github.com/trebuchet-org/treb-proxy/internal/domain/solc"
)

// ClassifyPattern decides which upgradeable-proxy pattern a source file uses
// by looking at the library paths it imports
type ClassifyPattern struct {
	log *slog.Logger
}

// NewClassifyPattern creates a new ClassifyPattern use case
func NewClassifyPattern(log *slog.Logger) *ClassifyPattern {
	return &ClassifyPattern{log: log.With("component", "ClassifyPattern")}
}

// Run classifies the AST of file. A nil or empty AST is PatternNone.
func (uc *ClassifyPattern) Run(ctx context.Context, file string, unit *solc.SourceUnit) domain.PatternClassification {
	result := domain.PatternClassification{Kind: domain.PatternNone, File: file}

	paths := solc.NewSymbolIndex(unit).ImportPaths()

	// UUPS wins when a file pulls in both libraries
	if marker, ok := findMarker(paths, domain.UUPSMarker); ok {
		result.Kind = domain.PatternUUPS
		result.Marker = marker
	} else if marker, ok := findMarker(paths, domain.TransparentMarker); ok {
		result.Kind = domain.PatternTransparent
		result.Marker = marker
	}

	uc.log.DebugContext(ctx, "classified source", "file", file, "kind", result.Kind, "marker", result.Marker)
	return result
}

func findMarker(paths []string, marker string) (string, bool) {
	for _, p := range paths {
		if strings.Contains(p, marker) {
			return p, true
		}
	}
	return "", false
}
