package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/samber/lo"
	"github.com/trebuchet-org/treb-proxy/internal/domain"
	"github.com/trebuchet-org/treb-proxy/internal/domain/config"
)

// AnalyzeProxyFileParams contains parameters for analyzing a source file
type AnalyzeProxyFileParams struct {
	File string
}

// ProxyAnalysis is the classification and option set of one source file
type ProxyAnalysis struct {
	File           string                          `json:"file" yaml:"file"`
	Classification domain.PatternClassification   `json:"classification" yaml:"classification"`
	Contracts      []string                        `json:"contracts" yaml:"contracts"`
	Options        map[string]domain.DeployOptions `json:"options" yaml:"options"`

	output *domain.CompilationOutput
}

// Eligible returns the names of contracts that have proxy options, sorted
func (a *ProxyAnalysis) Eligible() []string {
	names := lo.Keys(a.Options)
	slices.Sort(names)
	return names
}

// Descriptor returns the implementation descriptor for a compiled contract
func (a *ProxyAnalysis) Descriptor(name string) (domain.ContractDescriptor, bool) {
	contract, ok := a.output.Contract(a.File, name)
	if !ok {
		return domain.ContractDescriptor{}, false
	}
	return domain.ContractDescriptor{Name: name, File: a.File, ABI: contract.ABI}, true
}

// Initializer returns the initializer ABI of a contract. Eligible contracts
// answer from their options; other compiled contracts fall back to their ABI.
func (a *ProxyAnalysis) Initializer(name string) *domain.ABIEntry {
	if opts, ok := a.Options[name]; ok {
		return opts.InitializeOptions.Inputs
	}
	if contract, ok := a.output.Contract(a.File, name); ok {
		return domain.FindABIEntry(contract.ABI, domain.InitializerName)
	}
	return nil
}

// AnalyzeProxyFile compiles, loads and classifies a source file, then builds
// the proxy options of its contracts
type AnalyzeProxyFile struct {
	config       *config.RuntimeConfig
	builder      ContractBuilder
	compilations CompilationProvider
	classify     *ClassifyPattern
	options      *BuildProxyOptions
	progress     ProgressSink
	log          *slog.Logger
}

// NewAnalyzeProxyFile creates a new AnalyzeProxyFile use case
func NewAnalyzeProxyFile(
	cfg *config.RuntimeConfig,
	builder ContractBuilder,
	compilations CompilationProvider,
	classify *ClassifyPattern,
	options *BuildProxyOptions,
	progress ProgressSink,
	log *slog.Logger,
) *AnalyzeProxyFile {
	return &AnalyzeProxyFile{
		config:       cfg,
		builder:      builder,
		compilations: compilations,
		classify:     classify,
		options:      options,
		progress:     progress,
		log:          log.With("component", "AnalyzeProxyFile"),
	}
}

// Run analyzes params.File
func (uc *AnalyzeProxyFile) Run(ctx context.Context, params AnalyzeProxyFileParams) (*ProxyAnalysis, error) {
	if params.File == "" {
		return nil, fmt.Errorf("no source file given")
	}
	file := domain.NormalizeSourcePath(uc.config.ProjectRoot, params.File)

	if !uc.config.NoBuild {
		uc.progress.OnProgress(ctx, ProgressEvent{
			Stage:   "building",
			Message: "Building contracts",
			Spinner: true,
		})
		if err := uc.builder.Build(ctx, file); err != nil {
			return nil, err
		}
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "loading",
		Message: fmt.Sprintf("Loading compilation output for %s", file),
		Spinner: true,
	})
	output, err := uc.compilations.Load(ctx, file)
	if err != nil {
		return nil, err
	}

	classification := uc.classify.Run(ctx, file, output.SourceAST(file))
	options := uc.options.Run(ctx, classification, output, file)

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "analyzed",
		Message: fmt.Sprintf("%s: %s", file, classification.Kind),
	})

	return NewProxyAnalysis(file, classification, output, options), nil
}

// NewProxyAnalysis assembles an analysis from parts already computed
func NewProxyAnalysis(file string, classification domain.PatternClassification, output *domain.CompilationOutput, options map[string]domain.DeployOptions) *ProxyAnalysis {
	contracts := lo.Keys(output.ContractsIn(file))
	slices.Sort(contracts)
	return &ProxyAnalysis{
		File:           file,
		Classification: classification,
		Contracts:      contracts,
		Options:        options,
		output:         output,
	}
}
