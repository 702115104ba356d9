package adapters

import (
	"log/slog"

	"github.com/google/wire"
	"github.com/trebuchet-org/treb-proxy/internal/adapters/abi"
	"github.com/trebuchet-org/treb-proxy/internal/adapters/blockchain"
	"github.com/trebuchet-org/treb-proxy/internal/adapters/forge"
	"github.com/trebuchet-org/treb-proxy/internal/adapters/fs"
	"github.com/trebuchet-org/treb-proxy/internal/adapters/interactive"
	"github.com/trebuchet-org/treb-proxy/internal/config"
	"github.com/trebuchet-org/treb-proxy/internal/usecase"
)

// ProvideDispatcher returns the dry-run dispatcher when --dry-run is set and
// the RPC dispatcher otherwise
func ProvideDispatcher(cfg *config.RuntimeConfig, log *slog.Logger) usecase.ProxyDispatcher {
	if cfg.DryRun {
		return blockchain.NewDryRunDispatcher(cfg, log)
	}
	return blockchain.NewDispatcher(cfg, log)
}

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	fs.NewProxyRecordStoreAdapter,
	wire.Bind(new(usecase.ProxyRecordStore), new(*fs.ProxyRecordStoreAdapter)),
)

// ForgeSet provides forge-based implementations
var ForgeSet = wire.NewSet(
	forge.NewForgeAdapter,
	wire.Bind(new(usecase.ContractBuilder), new(*forge.ForgeAdapter)),

	forge.NewBuildInfoLoader,
	wire.Bind(new(usecase.CompilationProvider), new(*forge.BuildInfoLoader)),

	forge.NewProxyArtifactLoader,
	wire.Bind(new(usecase.ProxyArtifactProvider), new(*forge.ProxyArtifactLoader)),
)

// ABISet provides go-ethereum backed ABI implementations
var ABISet = wire.NewSet(
	abi.NewEncoder,
	wire.Bind(new(usecase.ABIEncoder), new(*abi.Encoder)),

	abi.NewInputDescriber,
	wire.Bind(new(usecase.InputDescriber), new(*abi.InputDescriber)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.ContractSelector), new(*interactive.SelectorAdapter)),
)

// BlockchainSet provides transaction dispatch and chain queries
var BlockchainSet = wire.NewSet(
	ProvideDispatcher,
	blockchain.NewDispatcher,
	wire.Bind(new(usecase.ChainIDReader), new(*blockchain.Dispatcher)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	FSSet,
	ForgeSet,
	ABISet,
	InteractiveSet,
	BlockchainSet,
)
