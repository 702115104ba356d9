package forge

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treb-proxy/internal/domain"
	"github.com/trebuchet-org/treb-proxy/internal/domain/config"
)

const tokenBuildInfo = `{
  "id": "b1",
  "solcVersion": "0.8.24",
  "output": {
    "sources": {
      "src/Token.sol": {
        "id": 0,
        "ast": {
          "id": 40,
          "nodeType": "SourceUnit",
          "absolutePath": "src/Token.sol",
          "exportedSymbols": {"Token": [39], "UUPSUpgradeable": [7]},
          "nodes": [
            {"id": 2, "nodeType": "ImportDirective", "absolutePath": "lib/openzeppelin-contracts-upgradeable/contracts/proxy/utils/UUPSUpgradeable.sol"},
            {"id": 39, "nodeType": "ContractDefinition", "name": "Token", "contractKind": "contract", "linearizedBaseContracts": [39, 7]}
          ]
        }
      }
    },
    "contracts": {
      "src/Token.sol": {
        "Token": {
          "abi": [{"type": "function", "name": "initialize", "inputs": [{"name": "owner", "type": "address", "internalType": "address"}], "outputs": [], "stateMutability": "nonpayable"}],
          "evm": {"bytecode": {"object": "0x6080", "linkReferences": {}}}
        }
      },
      "lib/openzeppelin-contracts/contracts/proxy/ERC1967/ERC1967Proxy.sol": {
        "ERC1967Proxy": {
          "abi": [],
          "evm": {"bytecode": {"object": "0x60a0", "linkReferences": {}}}
        }
      }
    }
  }
}`

const otherBuildInfo = `{
  "id": "b0",
  "output": {
    "sources": {"src/Other.sol": {"id": 0, "ast": {"id": 1, "nodeType": "SourceUnit", "absolutePath": "src/Other.sol", "nodes": []}}},
    "contracts": {}
  }
}`

func writeBuildInfo(t *testing.T, dir, name, content string, age time.Duration) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	mod := time.Now().Add(-age)
	require.NoError(t, os.Chtimes(path, mod, mod))
}

func newTestLoader(t *testing.T) (*BuildInfoLoader, string) {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "out", "build-info")
	require.NoError(t, os.MkdirAll(dir, 0755))
	cfg := &config.RuntimeConfig{ProjectRoot: root, BuildInfoDir: dir}
	return NewBuildInfoLoader(cfg, newTestLogger()), dir
}

func TestBuildInfoLoader_Load(t *testing.T) {
	loader, dir := newTestLoader(t)
	writeBuildInfo(t, dir, "b1.json", tokenBuildInfo, time.Hour)
	writeBuildInfo(t, dir, "b0.json", otherBuildInfo, 0)
	writeBuildInfo(t, dir, "broken.json", "{", 2*time.Hour)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))

	out, err := loader.Load(context.Background(), "./src/Token.sol")
	require.NoError(t, err)

	unit := out.SourceAST("src/Token.sol")
	require.NotNil(t, unit)
	assert.Equal(t, []int64{7}, unit.ExportedSymbols["UUPSUpgradeable"])
	require.Len(t, unit.Nodes, 2)
	assert.Equal(t, []int64{39, 7}, unit.Nodes[1].LinearizedBaseContracts)

	token, ok := out.Contract("src/Token.sol", "Token")
	require.True(t, ok)
	assert.Equal(t, "6080", token.Bytecode)
	require.Len(t, token.ABI, 1)
	assert.Equal(t, "initialize", token.ABI[0].Name)
	assert.Equal(t, "owner", token.ABI[0].Inputs[0].Name)
}

func TestBuildInfoLoader_LoadAbsolutePath(t *testing.T) {
	loader, dir := newTestLoader(t)
	writeBuildInfo(t, dir, "b1.json", tokenBuildInfo, 0)

	out, err := loader.Load(context.Background(), filepath.Join(loader.projectRoot, "src", "Token.sol"))
	require.NoError(t, err)
	assert.NotNil(t, out.SourceAST("src/Token.sol"))
}

func TestBuildInfoLoader_NewestWins(t *testing.T) {
	loader, dir := newTestLoader(t)

	var stale map[string]any
	require.NoError(t, json.Unmarshal([]byte(tokenBuildInfo), &stale))
	contracts := stale["output"].(map[string]any)["contracts"].(map[string]any)
	token := contracts["src/Token.sol"].(map[string]any)["Token"].(map[string]any)
	token["evm"] = map[string]any{"bytecode": map[string]any{"object": "0xdead"}}
	staleJSON, err := json.Marshal(stale)
	require.NoError(t, err)

	writeBuildInfo(t, dir, "old.json", string(staleJSON), time.Hour)
	writeBuildInfo(t, dir, "new.json", tokenBuildInfo, 0)

	out, err := loader.Load(context.Background(), "src/Token.sol")
	require.NoError(t, err)
	c, ok := out.Contract("src/Token.sol", "Token")
	require.True(t, ok)
	assert.Equal(t, "6080", c.Bytecode)
}

func TestBuildInfoLoader_Errors(t *testing.T) {
	t.Run("source not compiled", func(t *testing.T) {
		loader, dir := newTestLoader(t)
		writeBuildInfo(t, dir, "b0.json", otherBuildInfo, 0)

		_, err := loader.Load(context.Background(), "src/Token.sol")
		var notFound domain.SourceNotFoundErr
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, "src/Token.sol", notFound.File)
	})

	t.Run("missing build info dir", func(t *testing.T) {
		cfg := &config.RuntimeConfig{ProjectRoot: t.TempDir(), BuildInfoDir: filepath.Join(t.TempDir(), "nope")}
		loader := NewBuildInfoLoader(cfg, newTestLogger())

		_, err := loader.Load(context.Background(), "src/Token.sol")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("cancelled context", func(t *testing.T) {
		loader, dir := newTestLoader(t)
		writeBuildInfo(t, dir, "b1.json", tokenBuildInfo, 0)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := loader.Load(ctx, "src/Token.sol")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestBuildInfoLoader_FindContract(t *testing.T) {
	loader, dir := newTestLoader(t)
	writeBuildInfo(t, dir, "b1.json", tokenBuildInfo, 0)

	c, err := loader.FindContract(context.Background(), erc1967Source, domain.ProxyContractName)
	require.NoError(t, err)
	assert.Equal(t, "60a0", c.Bytecode)

	_, err = loader.FindContract(context.Background(), "proxy/transparent/ProxyAdmin.sol", "ProxyAdmin")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
