package forge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/samber/lo"
	"github.com/trebuchet-org/treb-proxy/internal/domain"
	"github.com/trebuchet-org/treb-proxy/internal/domain/config"
	"github.com/trebuchet-org/treb-proxy/internal/domain/solc"
)

// BuildInfoLoader reads solc standard-json output from Foundry's build-info
// directory
type BuildInfoLoader struct {
	log          *slog.Logger
	projectRoot  string
	buildInfoDir string
}

// NewBuildInfoLoader creates a loader for the configured build-info directory
func NewBuildInfoLoader(cfg *config.RuntimeConfig, log *slog.Logger) *BuildInfoLoader {
	return &BuildInfoLoader{
		log:          log.With("component", "BuildInfoLoader"),
		projectRoot:  cfg.ProjectRoot,
		buildInfoDir: cfg.BuildInfoDir,
	}
}

type buildInfoFile struct {
	ID          string                            `json:"id"`
	SolcVersion string                            `json:"solcVersion"`
	Output      *compilerOutput                   `json:"output"`
	Sources     map[string]rawSource              `json:"sources"`
	Contracts   map[string]map[string]rawContract `json:"contracts"`
}

type compilerOutput struct {
	Sources   map[string]rawSource              `json:"sources"`
	Contracts map[string]map[string]rawContract `json:"contracts"`
}

type rawSource struct {
	ID  int64           `json:"id"`
	AST json.RawMessage `json:"ast"`
}

type rawContract struct {
	ABI []domain.ABIEntry `json:"abi"`
	EVM struct {
		Bytecode struct {
			Object         string         `json:"object"`
			LinkReferences map[string]any `json:"linkReferences"`
		} `json:"bytecode"`
	} `json:"evm"`
}

// Load returns the newest compilation output that contains file
func (l *BuildInfoLoader) Load(ctx context.Context, file string) (*domain.CompilationOutput, error) {
	source := l.SourcePath(file)

	var found *domain.CompilationOutput
	err := l.each(ctx, func(path string, out *domain.CompilationOutput) bool {
		if _, ok := out.Sources[source]; !ok {
			return false
		}
		l.log.Debug("found build info", "file", source, "buildInfo", filepath.Base(path))
		found = out
		return true
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, domain.SourceNotFoundErr{File: source}
	}
	return found, nil
}

// FindContract returns the newest compiled contract named name whose source
// path ends with fileSuffix
func (l *BuildInfoLoader) FindContract(ctx context.Context, fileSuffix, name string) (*domain.CompiledContract, error) {
	var found *domain.CompiledContract
	err := l.each(ctx, func(_ string, out *domain.CompilationOutput) bool {
		for file, contracts := range out.Contracts {
			if !strings.HasSuffix(file, fileSuffix) {
				continue
			}
			if c, ok := contracts[name]; ok && c.Bytecode != "" {
				found = &c
				return true
			}
		}
		return false
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, fmt.Errorf("contract %s (%s): %w", name, fileSuffix, domain.ErrNotFound)
	}
	return found, nil
}

// SourcePath normalizes file to the key solc uses for it
func (l *BuildInfoLoader) SourcePath(file string) string {
	return domain.NormalizeSourcePath(l.projectRoot, file)
}

// each visits build-info files newest first until visit returns true
func (l *BuildInfoLoader) each(ctx context.Context, visit func(path string, out *domain.CompilationOutput) bool) error {
	entries, err := os.ReadDir(l.buildInfoDir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("build info directory %s does not exist (run forge build --build-info): %w", l.buildInfoDir, domain.ErrNotFound)
		}
		return fmt.Errorf("failed to read build info directory: %w", err)
	}

	type candidate struct {
		path    string
		modTime int64
	}
	candidates := lo.FilterMap(entries, func(e os.DirEntry, _ int) (candidate, bool) {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			return candidate{}, false
		}
		info, err := e.Info()
		if err != nil {
			return candidate{}, false
		}
		return candidate{path: filepath.Join(l.buildInfoDir, e.Name()), modTime: info.ModTime().UnixNano()}, true
	})
	slices.SortStableFunc(candidates, func(a, b candidate) int {
		switch {
		case a.modTime > b.modTime:
			return -1
		case a.modTime < b.modTime:
			return 1
		default:
			return strings.Compare(a.path, b.path)
		}
	})

	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return err
		}
		out, err := readBuildInfo(c.path)
		if err != nil {
			l.log.Warn("skipping unreadable build info", "path", c.path, "error", err)
			continue
		}
		if visit(c.path, out) {
			return nil
		}
	}
	return nil
}

func readBuildInfo(path string) (*domain.CompilationOutput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw buildInfoFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse build info: %w", err)
	}

	// Older layouts nest the compiler output; newer ones inline it
	output := compilerOutput{Sources: raw.Sources, Contracts: raw.Contracts}
	if raw.Output != nil {
		output = *raw.Output
	}

	return convertOutput(output)
}

func convertOutput(raw compilerOutput) (*domain.CompilationOutput, error) {
	out := &domain.CompilationOutput{
		Sources:   make(map[string]domain.CompiledSource, len(raw.Sources)),
		Contracts: make(map[string]map[string]domain.CompiledContract, len(raw.Contracts)),
	}

	for file, src := range raw.Sources {
		unit, err := solc.ParseSourceUnit(src.AST)
		if err != nil {
			return nil, fmt.Errorf("failed to parse AST of %s: %w", file, err)
		}
		out.Sources[file] = domain.CompiledSource{ID: src.ID, AST: unit}
	}

	for file, contracts := range raw.Contracts {
		out.Contracts[file] = lo.MapValues(contracts, func(c rawContract, _ string) domain.CompiledContract {
			return domain.CompiledContract{
				ABI:            c.ABI,
				Bytecode:       domain.StripHexPrefix(c.EVM.Bytecode.Object),
				LinkReferences: c.EVM.Bytecode.LinkReferences,
			}
		})
	}

	return out, nil
}
