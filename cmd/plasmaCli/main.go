package main

import (
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/omgnetwork/plasma-core-go/pkg/config"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "plasma-cli",
		Usage: "Plasma child chain commitment tooling",
		Description: `Builds and checks the commitments a plasma child chain submits to the root chain.

Commands cover keccak hashing, block merkle roots and inclusion proofs, deposit
transaction encoding, and committing deposits to a block store.`,
		Version: "1.0.0",
		Flags: []cli.Flag{
			&cli.Uint64Flag{
				Name:    "chain-id",
				Aliases: []string{"chain"},
				Usage:   fmt.Sprintf("Ethereum chain ID: %s", config.GetSupportedChainIDsString()),
				Value:   uint64(config.ChainId_EthereumAnvil),
				EnvVars: []string{config.EnvPlasmaChainID},
			},
			&cli.StringFlag{
				Name:    "contract-address",
				Usage:   "Plasma framework contract address",
				EnvVars: []string{config.EnvPlasmaContractAddress},
			},
			&cli.StringFlag{
				Name:    "eth-vault-address",
				Usage:   "Ether vault contract address",
				EnvVars: []string{config.EnvPlasmaEthVaultAddress},
			},
			&cli.StringFlag{
				Name:    "erc20-vault-address",
				Usage:   "ERC20 vault contract address",
				EnvVars: []string{config.EnvPlasmaErc20VaultAddress},
			},
			&cli.IntFlag{
				Name:    "tree-height",
				Usage:   "Block merkle tree height",
				Value:   config.DefaultTreeHeight,
				EnvVars: []string{config.EnvPlasmaTreeHeight},
			},
			&cli.Uint64Flag{
				Name:    "child-block-interval",
				Usage:   "Spacing between child block numbers",
				Value:   config.DefaultChildBlockInterval,
				EnvVars: []string{config.EnvPlasmaChildBlockInterval},
			},
			&cli.StringFlag{
				Name:    "persistence-type",
				Usage:   "Block store backend: memory, badger or redis",
				Value:   string(config.PersistenceType_Memory),
				EnvVars: []string{config.EnvPlasmaPersistenceType},
			},
			&cli.StringFlag{
				Name:    "data-path",
				Usage:   "Badger data directory",
				Value:   "./data/blocks",
				EnvVars: []string{config.EnvPlasmaDataPath},
			},
			&cli.StringFlag{
				Name:    "redis-address",
				Usage:   "Redis server address (host:port)",
				EnvVars: []string{config.EnvPlasmaRedisAddress},
			},
			&cli.StringFlag{
				Name:    "redis-password",
				Usage:   "Redis password",
				EnvVars: []string{config.EnvPlasmaRedisPassword},
			},
			&cli.IntFlag{
				Name:    "redis-db",
				Usage:   "Redis database number",
				EnvVars: []string{config.EnvPlasmaRedisDB},
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Usage:   "Enable verbose logging",
				EnvVars: []string{config.EnvPlasmaVerbose},
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "hash",
				Usage:     "Keccak-256 of hex encoded bytes",
				ArgsUsage: "<0x-data>",
				Action:    hashCommand,
			},
			{
				Name:  "root",
				Usage: "Merkle root of a list of 32 byte leaves",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{Name: "leaf", Usage: "Leaf hash (repeatable)"},
				},
				Action: rootCommand,
			},
			{
				Name:  "prove",
				Usage: "Inclusion proof for one leaf of a list",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{Name: "leaf", Usage: "Leaf hash (repeatable)"},
					&cli.IntFlag{Name: "index", Usage: "Index of the leaf to prove"},
					&cli.BoolFlag{Name: "calldata", Usage: "Also print checkMembership calldata"},
				},
				Action: proveCommand,
			},
			{
				Name:  "verify",
				Usage: "Check an inclusion proof against a root",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "leaf", Usage: "Leaf hash", Required: true},
					&cli.IntFlag{Name: "index", Usage: "Leaf index"},
					&cli.StringFlag{Name: "root", Usage: "Expected root", Required: true},
					&cli.StringFlag{Name: "proof", Usage: "Proof bytes", Required: true},
					&cli.StringFlag{
						Name:    "rpc-url",
						Aliases: []string{"rpc"},
						Usage:   "Ethereum RPC endpoint; when set the proof is also checked by the plasma contract",
						EnvVars: []string{config.EnvPlasmaRPCURL},
					},
				},
				Action: verifyCommand,
			},
			{
				Name:  "deposit",
				Usage: "Encode a deposit transaction",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "owner", Usage: "Output owner address", Required: true},
					&cli.StringFlag{Name: "currency", Usage: "Currency address, zero for ether", Value: "0x0000000000000000000000000000000000000000"},
					&cli.StringFlag{Name: "amount", Usage: "Amount as hex", Required: true},
					&cli.StringFlag{Name: "metadata", Usage: "32 byte metadata"},
				},
				Action: depositCommand,
			},
			{
				Name:  "commit",
				Usage: "Commit encoded transactions as the next child block",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{Name: "tx", Usage: "Encoded transaction (repeatable)"},
				},
				Action: commitCommand,
			},
			{
				Name:  "block-proof",
				Usage: "Inclusion proof for a transaction of a committed block",
				Flags: []cli.Flag{
					&cli.Uint64Flag{Name: "block", Usage: "Block number", Required: true},
					&cli.IntFlag{Name: "index", Usage: "Transaction index"},
				},
				Action: blockProofCommand,
			},
		},
	}
}
