package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/trebuchet-org/treb-proxy/internal/domain"
	"github.com/trebuchet-org/treb-proxy/internal/domain/config"
)

// ResolveContract picks the contract of an analyzed file a proxy command acts on
type ResolveContract struct {
	config   *config.RuntimeConfig
	selector ContractSelector
	sink     ProgressSink
}

// NewResolveContract creates a new ResolveContract use case
func NewResolveContract(
	cfg *config.RuntimeConfig,
	selector ContractSelector,
	sink ProgressSink,
) *ResolveContract {
	return &ResolveContract{
		config:   cfg,
		selector: selector,
		sink:     sink,
	}
}

// Run returns the eligible contract named name. With an empty name the only
// eligible contract is picked, or the user is asked when there are several.
func (uc *ResolveContract) Run(ctx context.Context, analysis *ProxyAnalysis, name string) (string, error) {
	eligible := analysis.Eligible()

	if name != "" {
		for _, candidate := range eligible {
			if candidate == name {
				return name, nil
			}
		}
		return "", domain.NotEligibleErr{File: analysis.File, Contract: name, Kind: analysis.Classification.Kind}
	}

	switch len(eligible) {
	case 0:
		return "", fmt.Errorf("no contract in %s is eligible for a %s proxy", analysis.File, domain.ProxyContractName)
	case 1:
		return eligible[0], nil
	}

	if uc.config.NonInteractive {
		return "", fmt.Errorf("multiple eligible contracts in %s, specify one of: %s", analysis.File, strings.Join(eligible, ", "))
	}

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "selecting",
		Message: fmt.Sprintf("%d eligible contracts in %s", len(eligible), analysis.File),
	})
	return uc.selector.SelectContract(ctx, eligible, "Select contract")
}
