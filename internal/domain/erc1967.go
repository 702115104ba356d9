package domain

// Fixed ABI fragments of OpenZeppelin's ERC1967Proxy and UUPSUpgradeable.

// ERC1967ConstructorABI is constructor(address implementation, bytes _data)
var ERC1967ConstructorABI = ABIEntry{
	Type: "constructor",
	Inputs: []ABIParam{
		{Name: "implementation", Type: "address", InternalType: "address"},
		{Name: "_data", Type: "bytes", InternalType: "bytes"},
	},
	StateMutability: "payable",
}

// UpgradeToABI is upgradeTo(address newImplementation)
var UpgradeToABI = ABIEntry{
	Type: "function",
	Name: "upgradeTo",
	Inputs: []ABIParam{
		{Name: "newImplementation", Type: "address", InternalType: "address"},
	},
	Outputs:         []ABIParam{},
	StateMutability: "nonpayable",
}

// UpgradeToAndCallABI is upgradeToAndCall(address newImplementation, bytes data).
// OpenZeppelin 5 removed upgradeTo, leaving only this entry point.
var UpgradeToAndCallABI = ABIEntry{
	Type: "function",
	Name: "upgradeToAndCall",
	Inputs: []ABIParam{
		{Name: "newImplementation", Type: "address", InternalType: "address"},
		{Name: "data", Type: "bytes", InternalType: "bytes"},
	},
	Outputs:         []ABIParam{},
	StateMutability: "payable",
}

// ERC1967ProxyABI is the ABI of the proxy itself, used when no artifact ABI is available
var ERC1967ProxyABI = []ABIEntry{
	ERC1967ConstructorABI,
	{
		Type: "event",
		Name: "Upgraded",
		Inputs: []ABIParam{
			{Name: "implementation", Type: "address", InternalType: "address", Indexed: true},
		},
	},
	{Type: "fallback", StateMutability: "payable"},
}
