package app

import (
	"log/slog"

	"github.com/trebuchet-org/treb-proxy/internal/adapters/interactive"
	"github.com/trebuchet-org/treb-proxy/internal/domain/config"
	"github.com/trebuchet-org/treb-proxy/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig
	Log    *slog.Logger

	// Shared dependencies
	Prompter *interactive.SelectorAdapter

	// Use cases
	AnalyzeProxyFile *usecase.AnalyzeProxyFile
	ResolveContract  *usecase.ResolveContract
	DeployProxy      *usecase.DeployProxy
	UpgradeProxy     *usecase.UpgradeProxy
	ListProxyRecords *usecase.ListProxyRecords
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	log *slog.Logger,
	prompter *interactive.SelectorAdapter,
	analyzeProxyFile *usecase.AnalyzeProxyFile,
	resolveContract *usecase.ResolveContract,
	deployProxy *usecase.DeployProxy,
	upgradeProxy *usecase.UpgradeProxy,
	listProxyRecords *usecase.ListProxyRecords,
) (*App, error) {
	return &App{
		Config:           cfg,
		Log:              log,
		Prompter:         prompter,
		AnalyzeProxyFile: analyzeProxyFile,
		ResolveContract:  resolveContract,
		DeployProxy:      deployProxy,
		UpgradeProxy:     upgradeProxy,
		ListProxyRecords: listProxyRecords,
	}, nil
}
