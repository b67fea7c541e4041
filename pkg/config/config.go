package config

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"k8s.io/apimachinery/pkg/util/validation/field"
)

// Environment variable names for plasma configuration
const (
	EnvPlasmaChainID            = "PLASMA_CHAIN_ID"
	EnvPlasmaContractAddress    = "PLASMA_CONTRACT_ADDRESS"
	EnvPlasmaEthVaultAddress    = "PLASMA_ETH_VAULT_ADDRESS"
	EnvPlasmaErc20VaultAddress  = "PLASMA_ERC20_VAULT_ADDRESS"
	EnvPlasmaTreeHeight         = "PLASMA_TREE_HEIGHT"
	EnvPlasmaChildBlockInterval = "PLASMA_CHILD_BLOCK_INTERVAL"
	EnvPlasmaPersistenceType    = "PLASMA_PERSISTENCE_TYPE"
	EnvPlasmaDataPath           = "PLASMA_DATA_PATH"
	EnvPlasmaRedisAddress       = "PLASMA_REDIS_ADDRESS"
	EnvPlasmaRedisPassword      = "PLASMA_REDIS_PASSWORD"
	EnvPlasmaRedisDB            = "PLASMA_REDIS_DB"
	EnvPlasmaRPCURL             = "PLASMA_RPC_URL"
	EnvPlasmaVerbose            = "PLASMA_VERBOSE"
)

const (
	// DefaultTreeHeight is the block tree height fixed by the root chain contracts
	DefaultTreeHeight = 16

	// DefaultChildBlockInterval is the spacing between child block numbers; the gaps are reserved for deposit blocks
	DefaultChildBlockInterval = 1000

	maxTreeHeight = 32
)

type ChainId uint

const (
	ChainId_EthereumMainnet ChainId = 1
	ChainId_EthereumSepolia ChainId = 11155111
	ChainId_EthereumAnvil   ChainId = 31337
)

type ChainName string

const (
	ChainName_EthereumMainnet ChainName = "mainnet"
	ChainName_EthereumSepolia ChainName = "sepolia"
	ChainName_EthereumAnvil   ChainName = "devnet"
)

var ChainIdToName = map[ChainId]ChainName{
	ChainId_EthereumMainnet: ChainName_EthereumMainnet,
	ChainId_EthereumSepolia: ChainName_EthereumSepolia,
	ChainId_EthereumAnvil:   ChainName_EthereumAnvil,
}

// PlasmaConfig holds the root chain contract addresses and block parameters.
// It is built once at startup and passed to the components that need it.
type PlasmaConfig struct {
	ChainID   ChainId   `json:"chain_id" yaml:"chainId"`
	ChainName ChainName `json:"chain_name" yaml:"chainName"`

	// ContractAddress is the plasma framework contract that receives block roots and verifies proofs
	ContractAddress string `json:"contract_address" yaml:"contractAddress"`

	// Vault addresses that accept deposits. Optional; only checked for format.
	EthVaultAddress   string `json:"eth_vault_address,omitempty" yaml:"ethVaultAddress"`
	Erc20VaultAddress string `json:"erc20_vault_address,omitempty" yaml:"erc20VaultAddress"`

	TreeHeight         int    `json:"tree_height" yaml:"treeHeight"`
	ChildBlockInterval uint64 `json:"child_block_interval" yaml:"childBlockInterval"`
}

// NewDefaultPlasmaConfig returns a config with protocol defaults and no contract addresses.
func NewDefaultPlasmaConfig() *PlasmaConfig {
	return &PlasmaConfig{
		ChainID:            ChainId_EthereumAnvil,
		TreeHeight:         DefaultTreeHeight,
		ChildBlockInterval: DefaultChildBlockInterval,
	}
}

// Validate checks every field and reports all problems at once.
func (c *PlasmaConfig) Validate() error {
	var allErrors field.ErrorList

	chainName, exists := ChainIdToName[c.ChainID]
	if !exists {
		allErrors = append(allErrors, field.Invalid(field.NewPath("chainId"), c.ChainID, "supported: "+GetSupportedChainIDsString()))
	}

	if c.ContractAddress == "" {
		allErrors = append(allErrors, field.Required(field.NewPath("contractAddress"), "contractAddress is required"))
	} else if !common.IsHexAddress(c.ContractAddress) {
		allErrors = append(allErrors, field.Invalid(field.NewPath("contractAddress"), c.ContractAddress, "must be a hex address"))
	}

	if c.EthVaultAddress != "" && !common.IsHexAddress(c.EthVaultAddress) {
		allErrors = append(allErrors, field.Invalid(field.NewPath("ethVaultAddress"), c.EthVaultAddress, "must be a hex address"))
	}

	if c.Erc20VaultAddress != "" && !common.IsHexAddress(c.Erc20VaultAddress) {
		allErrors = append(allErrors, field.Invalid(field.NewPath("erc20VaultAddress"), c.Erc20VaultAddress, "must be a hex address"))
	}

	if c.TreeHeight < 1 || c.TreeHeight > maxTreeHeight {
		allErrors = append(allErrors, field.Invalid(field.NewPath("treeHeight"), c.TreeHeight,
			fmt.Sprintf("must be between 1 and %d", maxTreeHeight)))
	}

	if c.ChildBlockInterval == 0 {
		allErrors = append(allErrors, field.Invalid(field.NewPath("childBlockInterval"), c.ChildBlockInterval, "must be positive"))
	}

	if len(allErrors) > 0 {
		return allErrors.ToAggregate()
	}

	c.ChainName = chainName
	return nil
}

// Contract returns the plasma framework contract address.
func (c *PlasmaConfig) Contract() common.Address {
	return common.HexToAddress(c.ContractAddress)
}

// GetSupportedChainIDsString returns supported chain IDs as strings for CLI help
func GetSupportedChainIDsString() string {
	return fmt.Sprintf("%d (mainnet), %d (sepolia), %d (anvil)",
		ChainId_EthereumMainnet, ChainId_EthereumSepolia, ChainId_EthereumAnvil)
}

type PersistenceType string

const (
	PersistenceType_Memory PersistenceType = "memory"
	PersistenceType_Badger PersistenceType = "badger"
	PersistenceType_Redis  PersistenceType = "redis"
)

type RedisConfig struct {
	Address   string `json:"address" yaml:"address"`
	Password  string `json:"password" yaml:"password"`
	DB        int    `json:"db" yaml:"db"`
	KeyPrefix string `json:"keyPrefix" yaml:"keyPrefix"`
}

// PersistenceConfig selects and configures the block store backend
type PersistenceConfig struct {
	Type     PersistenceType `json:"type" yaml:"type"`
	DataPath string          `json:"dataPath" yaml:"dataPath"`
	Redis    *RedisConfig    `json:"redis,omitempty" yaml:"redis"`
}

func (pc *PersistenceConfig) Validate() error {
	var allErrors field.ErrorList
	switch pc.Type {
	case PersistenceType_Memory:
	case PersistenceType_Badger:
		if pc.DataPath == "" {
			allErrors = append(allErrors, field.Required(field.NewPath("dataPath"), "dataPath is required for badger persistence"))
		}
	case PersistenceType_Redis:
		if pc.Redis == nil || pc.Redis.Address == "" {
			allErrors = append(allErrors, field.Required(field.NewPath("redis", "address"), "redis address is required for redis persistence"))
		} else if pc.Redis.DB < 0 || pc.Redis.DB > 15 {
			allErrors = append(allErrors, field.Invalid(field.NewPath("redis", "db"), pc.Redis.DB, "must be between 0 and 15"))
		}
	default:
		allErrors = append(allErrors, field.NotSupported(field.NewPath("type"), pc.Type,
			[]string{string(PersistenceType_Memory), string(PersistenceType_Badger), string(PersistenceType_Redis)}))
	}
	if len(allErrors) > 0 {
		return allErrors.ToAggregate()
	}
	return nil
}
