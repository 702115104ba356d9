package usecase

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"github.com/samber/lo"
	"github.com/trebuchet-org/treb-proxy/internal/domain"
	"github.com/trebuchet-org/treb-proxy/internal/domain/solc"
)

// BuildProxyOptions lists the proxy actions available for each contract of
// a classified source file. It never fails: anything missing or malformed
// makes a contract ineligible.
type BuildProxyOptions struct {
	inputs InputDescriber
	log    *slog.Logger
}

// NewBuildProxyOptions creates a new BuildProxyOptions use case
func NewBuildProxyOptions(inputs InputDescriber, log *slog.Logger) *BuildProxyOptions {
	return &BuildProxyOptions{
		inputs: inputs,
		log:    log.With("component", "BuildProxyOptions"),
	}
}

// Run returns deploy options keyed by contract name for every eligible
// contract in file. The map is empty, never nil, when nothing is eligible.
func (uc *BuildProxyOptions) Run(ctx context.Context, classification domain.PatternClassification, output *domain.CompilationOutput, file string) map[string]domain.DeployOptions {
	result := make(map[string]domain.DeployOptions)

	if classification.File != "" && classification.File != file {
		uc.log.WarnContext(ctx, "classification belongs to another file", "classified", classification.File, "file", file)
		return result
	}

	switch classification.Kind {
	case domain.PatternUUPS:
	case domain.PatternTransparent:
		uc.log.WarnContext(ctx, "transparent proxies are detected but not supported", "file", file)
		return result
	default:
		return result
	}

	unit := output.SourceAST(file)
	if unit == nil {
		uc.log.DebugContext(ctx, "no AST for file", "file", file)
		return result
	}

	index := solc.NewSymbolIndex(unit)
	uupsID, err := index.ResolveSymbol(domain.UUPSSymbol)
	if err != nil {
		var ambiguous solc.AmbiguousSymbolErr
		if !errors.As(err, &ambiguous) {
			uc.log.DebugContext(ctx, "UUPS base not exported", "file", file, "error", err)
			return result
		}
		uc.log.WarnContext(ctx, "ambiguous UUPS symbol, using first declaration", "file", file, "ids", ambiguous.IDs, "using", ambiguous.First)
	}

	contracts := output.ContractsIn(file)
	names := lo.Keys(contracts)
	slices.Sort(names)

	for _, name := range names {
		if !index.InheritsFrom(file, name, uupsID) {
			continue
		}

		initializer := domain.FindABIEntry(contracts[name].ABI, domain.InitializerName)
		options := domain.DeployOptions{
			Options:           domain.DefaultProxyActions(),
			InitializeOptions: domain.InitializeOptions{Inputs: initializer},
		}
		if initializer != nil {
			options.InitializeOptions.InitializeInputs = uc.inputs.GetInputs(*initializer)
		}
		result[name] = options
	}

	uc.log.DebugContext(ctx, "built proxy options", "file", file, "eligible", len(result), "contracts", len(names))
	return result
}
