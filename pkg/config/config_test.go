package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPlasmaConfig() *PlasmaConfig {
	cfg := NewDefaultPlasmaConfig()
	cfg.ContractAddress = "0x1234567890123456789012345678901234567890"
	cfg.EthVaultAddress = "0xABCDEF1234567890ABCDEF1234567890ABCDEF12"
	return cfg
}

func TestPlasmaConfig_Validate(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		cfg := validPlasmaConfig()
		require.NoError(t, cfg.Validate())
		assert.Equal(t, ChainName_EthereumAnvil, cfg.ChainName)
		assert.Equal(t, "0x1234567890123456789012345678901234567890", cfg.Contract().Hex())
	})

	testCases := []struct {
		name     string
		mutate   func(*PlasmaConfig)
		expected string
	}{
		{"Missing contract", func(c *PlasmaConfig) { c.ContractAddress = "" }, "contractAddress"},
		{"Bad contract", func(c *PlasmaConfig) { c.ContractAddress = "0x1234" }, "contractAddress"},
		{"Bad eth vault", func(c *PlasmaConfig) { c.EthVaultAddress = "0x22" }, "ethVaultAddress"},
		{"Bad erc20 vault", func(c *PlasmaConfig) { c.Erc20VaultAddress = "nope" }, "erc20VaultAddress"},
		{"Zero height", func(c *PlasmaConfig) { c.TreeHeight = 0 }, "treeHeight"},
		{"Huge height", func(c *PlasmaConfig) { c.TreeHeight = 64 }, "treeHeight"},
		{"Zero interval", func(c *PlasmaConfig) { c.ChildBlockInterval = 0 }, "childBlockInterval"},
		{"Unknown chain", func(c *PlasmaConfig) { c.ChainID = 42 }, "chainId"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validPlasmaConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.expected)
		})
	}

	t.Run("Vaults are optional", func(t *testing.T) {
		cfg := validPlasmaConfig()
		cfg.EthVaultAddress = ""
		cfg.Erc20VaultAddress = ""
		require.NoError(t, cfg.Validate())
	})

	t.Run("Reports every problem", func(t *testing.T) {
		cfg := &PlasmaConfig{}
		err := cfg.Validate()
		require.Error(t, err)
		for _, f := range []string{"chainId", "contractAddress", "treeHeight", "childBlockInterval"} {
			assert.Contains(t, err.Error(), f)
		}
	})
}

func TestPersistenceConfig_Validate(t *testing.T) {
	require.NoError(t, (&PersistenceConfig{Type: PersistenceType_Memory}).Validate())
	require.NoError(t, (&PersistenceConfig{Type: PersistenceType_Badger, DataPath: "/tmp/x"}).Validate())
	require.NoError(t, (&PersistenceConfig{Type: PersistenceType_Redis, Redis: &RedisConfig{Address: "localhost:6379"}}).Validate())

	require.Error(t, (&PersistenceConfig{Type: PersistenceType_Badger}).Validate())
	require.Error(t, (&PersistenceConfig{Type: PersistenceType_Redis}).Validate())
	require.Error(t, (&PersistenceConfig{Type: PersistenceType_Redis, Redis: &RedisConfig{Address: "x", DB: 16}}).Validate())
	require.Error(t, (&PersistenceConfig{Type: "sqlite"}).Validate())
}
