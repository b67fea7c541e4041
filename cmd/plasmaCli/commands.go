package main

import (
	"fmt"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/omgnetwork/plasma-core-go/pkg/block"
	"github.com/omgnetwork/plasma-core-go/pkg/config"
	"github.com/omgnetwork/plasma-core-go/pkg/crypto"
	"github.com/omgnetwork/plasma-core-go/pkg/encoding"
	"github.com/omgnetwork/plasma-core-go/pkg/logger"
	"github.com/omgnetwork/plasma-core-go/pkg/merkle"
	"github.com/omgnetwork/plasma-core-go/pkg/persistence"
	"github.com/omgnetwork/plasma-core-go/pkg/persistence/factory"
	"github.com/omgnetwork/plasma-core-go/pkg/transaction"
	"github.com/omgnetwork/plasma-core-go/pkg/types"
	"github.com/omgnetwork/plasma-core-go/pkg/verifier"
)

func hashCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("expected exactly one hex argument")
	}
	data, err := encoding.ToBinary(c.Args().First())
	if err != nil {
		return err
	}

	h := crypto.Keccak256(data)
	_, err = fmt.Fprintln(c.App.Writer, h.Hex())
	return err
}

func rootCommand(c *cli.Context) error {
	leaves, err := encoding.HashesFromHex(c.StringSlice("leaf"))
	if err != nil {
		return err
	}

	root, err := merkle.FastRoot(leaves, c.Int("tree-height"))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.App.Writer, root.Hex())
	return err
}

func proveCommand(c *cli.Context) error {
	leaves, err := encoding.HashesFromHex(c.StringSlice("leaf"))
	if err != nil {
		return err
	}

	tree, err := merkle.BuildMerkleTree(leaves, c.Int("tree-height"))
	if err != nil {
		return err
	}
	proof, err := tree.GenerateProof(c.Int("index"))
	if err != nil {
		return err
	}

	if err := printProof(c, proof); err != nil {
		return err
	}

	if c.Bool("calldata") {
		builder, err := verifier.NewCalldataBuilder(parsePlasmaConfig(c))
		if err != nil {
			return err
		}
		data, err := builder.CheckMembership(proof)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(c.App.Writer, "calldata: %s\n", encoding.ToHex(data))
		return err
	}
	return nil
}

func verifyCommand(c *cli.Context) error {
	leaf, err := encoding.HashFromHex(c.String("leaf"))
	if err != nil {
		return err
	}
	root, err := encoding.HashFromHex(c.String("root"))
	if err != nil {
		return err
	}
	proofBytes, err := encoding.ToBinary(c.String("proof"))
	if err != nil {
		return err
	}

	proof, err := merkle.ProofFromBytes(proofBytes, c.Int("index"), leaf, root)
	if err != nil {
		return err
	}

	if !merkle.VerifyProof(proof, root) {
		return errors.New("proof is invalid")
	}
	if _, err := fmt.Fprintln(c.App.Writer, "proof is valid"); err != nil {
		return err
	}

	if rpcURL := c.String("rpc-url"); rpcURL != "" {
		return verifyOnChain(c, rpcURL, proof)
	}
	return nil
}

func verifyOnChain(c *cli.Context, rpcURL string, proof *merkle.MerkleProof) error {
	l, err := newLogger(c)
	if err != nil {
		return err
	}
	defer func() { _ = l.Sync() }()

	builder, err := verifier.NewCalldataBuilder(parsePlasmaConfig(c))
	if err != nil {
		return err
	}

	client, err := ethclient.DialContext(c.Context, rpcURL)
	if err != nil {
		return errors.Wrapf(err, "failed to connect to %s", rpcURL)
	}
	defer client.Close()

	ok, err := verifier.NewMembershipChecker(client, builder, l).CheckMembership(c.Context, proof)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("proof rejected by plasma contract")
	}
	_, err = fmt.Fprintln(c.App.Writer, "proof accepted by plasma contract")
	return err
}

func depositCommand(c *cli.Context) error {
	owner, err := encoding.AddressFromHex(c.String("owner"))
	if err != nil {
		return err
	}
	currency, err := encoding.AddressFromHex(c.String("currency"))
	if err != nil {
		return err
	}
	amount, err := encoding.ToInt(c.String("amount"))
	if err != nil {
		return err
	}

	deposit := transaction.NewDeposit(types.NewOutput(owner, currency, amount))
	if metadata := c.String("metadata"); metadata != "" {
		m, err := encoding.HashFromHex(metadata)
		if err != nil {
			return err
		}
		deposit = deposit.WithMetadata(m)
	}

	encoded, err := deposit.Encode()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(c.App.Writer, "tx: %s\nhash: %s\n", encoding.ToHex(encoded), crypto.Keccak256(encoded).Hex())
	return err
}

func commitCommand(c *cli.Context) error {
	l, err := newLogger(c)
	if err != nil {
		return err
	}
	defer func() { _ = l.Sync() }()

	txs := make([]transaction.Transaction, 0, len(c.StringSlice("tx")))
	for i, raw := range c.StringSlice("tx") {
		b, err := encoding.ToBinary(raw)
		if err != nil {
			return errors.Wrapf(err, "tx %d", i)
		}
		tx, err := transaction.Decode(b)
		if err != nil {
			return errors.Wrapf(err, "tx %d", i)
		}
		txs = append(txs, tx)
	}

	committer, store, err := newCommitter(c, l)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	b, err := committer.Commit(txs)
	if err != nil {
		return err
	}

	builder, err := verifier.NewCalldataBuilder(parsePlasmaConfig(c))
	if err != nil {
		return err
	}
	submit, err := builder.SubmitBlock(b.Hash)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(c.App.Writer, "block: %d\nroot: %s\nsubmitBlock: %s\n",
		b.Number, b.Hash.Hex(), encoding.ToHex(submit))
	return err
}

func blockProofCommand(c *cli.Context) error {
	l, err := newLogger(c)
	if err != nil {
		return err
	}
	defer func() { _ = l.Sync() }()

	committer, store, err := newCommitter(c, l)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	proof, err := committer.Prove(c.Uint64("block"), c.Int("index"))
	if err != nil {
		return err
	}
	return printProof(c, proof)
}

func printProof(c *cli.Context, proof *merkle.MerkleProof) error {
	_, err := fmt.Fprintf(c.App.Writer, "leaf: %s\nindex: %d\nroot: %s\nproof: %s\n",
		proof.Leaf.Hex(), proof.LeafIndex, proof.Root.Hex(), encoding.ToHex(proof.Bytes()))
	return err
}

func newLogger(c *cli.Context) (*zap.Logger, error) {
	l, err := logger.NewLogger(&logger.LoggerConfig{Debug: c.Bool("verbose")})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return l, nil
}

func newCommitter(c *cli.Context, l *zap.Logger) (*block.Committer, persistence.IBlockStore, error) {
	cfg := parsePlasmaConfig(c)
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	l.Sugar().Infow("Using chain", "name", cfg.ChainName, "chain_id", cfg.ChainID)

	store, err := factory.NewBlockStore(parsePersistenceConfig(c), l)
	if err != nil {
		return nil, nil, err
	}

	committer, err := block.NewCommitter(cfg, store, l)
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	return committer, store, nil
}

func parsePlasmaConfig(c *cli.Context) *config.PlasmaConfig {
	return &config.PlasmaConfig{
		ChainID:            config.ChainId(c.Uint64("chain-id")),
		ContractAddress:    c.String("contract-address"),
		EthVaultAddress:    c.String("eth-vault-address"),
		Erc20VaultAddress:  c.String("erc20-vault-address"),
		TreeHeight:         c.Int("tree-height"),
		ChildBlockInterval: c.Uint64("child-block-interval"),
	}
}

func parsePersistenceConfig(c *cli.Context) *config.PersistenceConfig {
	pc := &config.PersistenceConfig{
		Type:     config.PersistenceType(c.String("persistence-type")),
		DataPath: c.String("data-path"),
	}
	if pc.Type == config.PersistenceType_Redis {
		pc.Redis = &config.RedisConfig{
			Address:  c.String("redis-address"),
			Password: c.String("redis-password"),
			DB:       c.Int("redis-db"),
		}
	}
	return pc
}
