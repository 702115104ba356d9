package domain

import (
	"strings"
	"time"
)

// PatternKind identifies an upgradeable proxy pattern
type PatternKind string

const (
	PatternNone        PatternKind = "NONE"
	PatternUUPS        PatternKind = "UUPS"
	PatternTransparent PatternKind = "TRANSPARENT"
)

// Library path suffixes identifying each pattern in import paths. They match
// both remapped (@openzeppelin/...) and raw lib/ paths.
const (
	UUPSMarker        = "proxy/utils/UUPSUpgradeable.sol"
	TransparentMarker = "proxy/transparent/TransparentUpgradeableProxy.sol"
)

// UUPSSymbol is the exported name of the UUPS base contract
const UUPSSymbol = "UUPSUpgradeable"

// InitializerName is the conventional initializer function name
const InitializerName = "initialize"

// ProxyContractName is the display name of the deployed proxy
const ProxyContractName = "ERC1967Proxy"

// PatternClassification is the result of classifying a source file.
// It is a value: callers pass it to option building and composing.
type PatternClassification struct {
	Kind   PatternKind `json:"kind" yaml:"kind"`
	File   string      `json:"file" yaml:"file"`
	Marker string      `json:"marker,omitempty" yaml:"marker,omitempty"` // import path that matched
}

// Concerned reports whether the file uses any known upgradeable pattern
func (c PatternClassification) Concerned() bool {
	return c.Kind == PatternUUPS || c.Kind == PatternTransparent
}

// Proxy action titles offered for eligible contracts
const (
	ActionDeployWithProxy  = "Deploy with Proxy"
	ActionUpgradeWithProxy = "Upgrade with Proxy"
)

// ProxyAction is a selectable proxy action
type ProxyAction struct {
	Title  string `json:"title" yaml:"title"`
	Active bool   `json:"active" yaml:"active"`
}

// InitializeOptions describes the initializer of an eligible contract
type InitializeOptions struct {
	Inputs           *ABIEntry     `json:"inputs" yaml:"inputs"`
	InitializeInputs []ParsedInput `json:"initializeInputs" yaml:"initializeInputs"`
}

// DeployOptions lists the proxy actions available for a contract
type DeployOptions struct {
	Options           []ProxyAction     `json:"options" yaml:"options"`
	InitializeOptions InitializeOptions `json:"initializeOptions" yaml:"initializeOptions"`
}

// DefaultProxyActions returns the actions offered for an eligible contract, all inactive
func DefaultProxyActions() []ProxyAction {
	return []ProxyAction{
		{Title: ActionDeployWithProxy, Active: false},
		{Title: ActionUpgradeWithProxy, Active: false},
	}
}

// ProxyTxData is the payload handed to the dispatch service
type ProxyTxData struct {
	ContractABI      []ABIEntry     `json:"contractABI" yaml:"contractABI"`
	ContractByteCode string         `json:"contractByteCode,omitempty" yaml:"contractByteCode,omitempty"`
	ContractName     string         `json:"contractName" yaml:"contractName"`
	FunAbi           ABIEntry       `json:"funAbi" yaml:"funAbi"`
	FunArgs          []any          `json:"funArgs" yaml:"funArgs"`
	LinkReferences   map[string]any `json:"linkReferences" yaml:"linkReferences"`
	DataHex          string         `json:"dataHex" yaml:"dataHex"` // no 0x prefix
}

// IsDeployment reports whether the payload creates a contract
func (t *ProxyTxData) IsDeployment() bool {
	return t.ContractByteCode != ""
}

// ContractDescriptor describes the implementation contract a proxy fronts
type ContractDescriptor struct {
	Name    string     `json:"name" yaml:"name"`
	File    string     `json:"file,omitempty" yaml:"file,omitempty"`
	ABI     []ABIEntry `json:"abi,omitempty" yaml:"abi,omitempty"`
	Address string     `json:"address,omitempty" yaml:"address,omitempty"`
}

// WithName returns a copy of the descriptor carrying name.
// The ABI slice is shared; descriptors treat it as read-only.
func (d ContractDescriptor) WithName(name string) ContractDescriptor {
	d.Name = name
	return d
}

// ProxyArtifact is the compiled ERC1967 proxy used for deployments
type ProxyArtifact struct {
	Name     string     `json:"name"`
	ABI      []ABIEntry `json:"abi"`
	Bytecode string     `json:"bytecode"` // no 0x prefix
}

// DispatchReceipt is returned by the dispatch service once a transaction is sent
type DispatchReceipt struct {
	TxHash          string `json:"txHash,omitempty" yaml:"txHash,omitempty"`
	From            string `json:"from,omitempty" yaml:"from,omitempty"`
	To              string `json:"to,omitempty" yaml:"to,omitempty"`
	ContractAddress string `json:"contractAddress,omitempty" yaml:"contractAddress,omitempty"` // predicted for deployments
	ChainID         uint64 `json:"chainId,omitempty" yaml:"chainId,omitempty"`
	Nonce           uint64 `json:"nonce" yaml:"nonce"`
	DryRun          bool   `json:"dryRun" yaml:"dryRun"`
}

// ProxyRecordKind distinguishes deploys from upgrades in the record store
type ProxyRecordKind string

const (
	ProxyRecordDeploy  ProxyRecordKind = "DEPLOY"
	ProxyRecordUpgrade ProxyRecordKind = "UPGRADE"
)

// ProxyRecord is a persisted dispatch
type ProxyRecord struct {
	Kind           ProxyRecordKind `json:"kind"`
	Contract       string          `json:"contract"`
	File           string          `json:"file,omitempty"`
	ChainID        uint64          `json:"chainId"`
	Proxy          string          `json:"proxy,omitempty"`
	Implementation string          `json:"implementation"`
	TxHash         string          `json:"txHash"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// ShortTxHash abbreviates the hash for tables
func (r ProxyRecord) ShortTxHash() string {
	if len(r.TxHash) <= 14 {
		return r.TxHash
	}
	return r.TxHash[:8] + "..." + r.TxHash[len(r.TxHash)-4:]
}

// StripHexPrefix removes a leading 0x or 0X
func StripHexPrefix(s string) string {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return s[2:]
	}
	return s
}

// ProxyRecordFilter narrows record listings; zero fields match everything
type ProxyRecordFilter struct {
	ChainID  uint64
	Contract string
	Kind     ProxyRecordKind
}

// Matches reports whether r passes the filter
func (f ProxyRecordFilter) Matches(r ProxyRecord) bool {
	if f.ChainID != 0 && r.ChainID != f.ChainID {
		return false
	}
	if f.Contract != "" && !strings.EqualFold(r.Contract, f.Contract) {
		return false
	}
	if f.Kind != "" && r.Kind != f.Kind {
		return false
	}
	return true
}
