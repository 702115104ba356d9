package config

import (
	"time"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string
	DataDir     string

	// Foundry output locations
	OutDir        string // e.g. <root>/out
	BuildInfoDir  string // e.g. <root>/out/build-info
	ProxyArtifact string // path to the compiled ERC1967Proxy artifact

	// Context settings
	Profile string   // foundry profile
	Network *Network // nil if not specified

	// Signing
	PrivateKey string

	// Execution settings
	Debug          bool
	NonInteractive bool
	JSON           bool // Output in JSON format
	Format         string
	Timeout        time.Duration

	// Command-specific settings (only populated for relevant commands)
	DryRun  bool
	NoBuild bool

	// Resolved configurations
	FoundryConfig *FoundryConfig
}

// Network represents network configuration
type Network struct {
	ChainID uint64 `json:"chainId"`
	Name    string `json:"name"`
	RPCURL  string `json:"rpcUrl"`
}
