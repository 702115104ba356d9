package config

// FoundryConfig represents the parts of foundry.toml the proxy tooling reads
type FoundryConfig struct {
	Profile      map[string]ProfileConfig `toml:"profile"`
	RpcEndpoints map[string]string        `toml:"rpc_endpoints"`
}

// ProfileConfig represents a profile's foundry configuration
type ProfileConfig struct {
	SrcPath    string   `toml:"src,omitempty"`
	OutPath    string   `toml:"out,omitempty"`
	LibPaths   []string `toml:"libs,omitempty"`
	Remappings []string `toml:"remappings,omitempty"`
	BuildInfo  bool     `toml:"build_info,omitempty"`
}

// OutDir returns the configured output directory for profile, falling back
// to the default profile and then to "out".
func (f *FoundryConfig) OutDir(profile string) string {
	if f != nil {
		if p, ok := f.Profile[profile]; ok && p.OutPath != "" {
			return p.OutPath
		}
		if p, ok := f.Profile["default"]; ok && p.OutPath != "" {
			return p.OutPath
		}
	}
	return "out"
}
