package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/treb-proxy/internal/domain/config"
)

// RuntimeConfig is re-exported for callers that only import this package
type RuntimeConfig = config.RuntimeConfig

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		var err error
		projectRoot, err = FindProjectRoot()
		if err != nil {
			return nil, fmt.Errorf("failed to find project root: %w", err)
		}
	}

	loadEnvFiles(projectRoot)

	cfg := &config.RuntimeConfig{
		ProjectRoot:    projectRoot,
		DataDir:        filepath.Join(projectRoot, ".treb"),
		Profile:        v.GetString("profile"),
		PrivateKey:     v.GetString("private_key"),
		Debug:          v.GetBool("debug"),
		NonInteractive: v.GetBool("non_interactive"),
		JSON:           v.GetBool("json"),
		Format:         v.GetString("format"),
		Timeout:        v.GetDuration("timeout"),
		DryRun:         v.GetBool("dry_run"),
		NoBuild:        v.GetBool("no_build"),
	}
	if cfg.JSON {
		cfg.Format = "json"
	}

	foundryConfig, err := loadFoundryConfig(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to load foundry config: %w", err)
	}
	cfg.FoundryConfig = foundryConfig

	cfg.OutDir = resolvePath(projectRoot, foundryConfig.OutDir(cfg.Profile))
	cfg.BuildInfoDir = filepath.Join(cfg.OutDir, "build-info")
	cfg.ProxyArtifact = filepath.Join(cfg.OutDir, "ERC1967Proxy.sol", "ERC1967Proxy.json")
	if artifact := v.GetString("proxy_artifact"); artifact != "" {
		cfg.ProxyArtifact = resolvePath(projectRoot, artifact)
	}

	if networkName := v.GetString("network"); networkName != "" {
		network, err := ResolveNetwork(foundryConfig, networkName, v.GetUint64("chain_id"))
		if err != nil {
			return nil, err
		}
		cfg.Network = network
	}

	return cfg, nil
}

// ResolveNetwork maps a network name or raw RPC URL to a Network. The chain
// ID may be zero, in which case the dispatcher reads it from the node.
func ResolveNetwork(foundryConfig *config.FoundryConfig, networkName string, chainID uint64) (*config.Network, error) {
	if isRPCURL(networkName) {
		return &config.Network{Name: networkName, RPCURL: networkName, ChainID: chainID}, nil
	}

	if foundryConfig == nil {
		return nil, fmt.Errorf("network '%s' not found: no foundry config loaded", networkName)
	}
	rpcURL, ok := foundryConfig.RpcEndpoints[networkName]
	if !ok {
		return nil, fmt.Errorf("network '%s' not found in foundry.toml [rpc_endpoints]", networkName)
	}
	if rpcURL == "" {
		return nil, fmt.Errorf("network '%s' has an empty RPC URL (is its environment variable set?)", networkName)
	}

	return &config.Network{Name: networkName, RPCURL: rpcURL, ChainID: chainID}, nil
}

func isRPCURL(s string) bool {
	for _, prefix := range []string{"http://", "https://", "ws://", "wss://"} {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}

func resolvePath(root, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}

// FindProjectRoot walks up from current directory to find foundry.toml
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		foundryToml := filepath.Join(dir, "foundry.toml")
		if _, err := os.Stat(foundryToml); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root without finding foundry.toml
			return "", fmt.Errorf("not in a Foundry project (foundry.toml not found)")
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string, flags *pflag.FlagSet) *viper.Viper {
	v := viper.New()

	// Set up config file
	v.SetConfigName("config.local")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(projectRoot, ".treb"))

	// Set up environment variables
	v.SetEnvPrefix("TREB")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	// Set defaults
	v.SetDefault("profile", "default")
	v.SetDefault("timeout", "5m")
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("format", "table")
	v.SetDefault("project_root", projectRoot)

	// Try to read config file (ignore error if not found)
	_ = v.ReadInConfig()

	if flags != nil {
		flags.VisitAll(func(f *pflag.Flag) {
			key := strings.ReplaceAll(f.Name, "-", "_")
			if err := v.BindPFlag(key, f); err != nil {
				panic(err)
			}
		})
	}

	return v
}
