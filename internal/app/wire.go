//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/treb-proxy/internal/adapters"
	"github.com/trebuchet-org/treb-proxy/internal/config"
	"github.com/trebuchet-org/treb-proxy/internal/logging"
	"github.com/trebuchet-org/treb-proxy/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper, sink usecase.ProgressSink) (*App, error) {
	wire.Build(
		// Configuration and logging
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewClassifyPattern,
		usecase.NewBuildProxyOptions,
		usecase.NewAnalyzeProxyFile,
		usecase.NewResolveContract,
		usecase.NewDeployProxy,
		usecase.NewUpgradeProxy,
		usecase.NewListProxyRecords,

		// App
		NewApp,
	)
	return nil, nil
}
