// Package verifier builds the root chain calls that consume child chain block roots and inclusion proofs.
package verifier

import (
	"bytes"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/omgnetwork/plasma-core-go/pkg/config"
	"github.com/omgnetwork/plasma-core-go/pkg/merkle"
	"github.com/omgnetwork/plasma-core-go/pkg/types"
)

const (
	MethodCheckMembership = "checkMembership"
	MethodSubmitBlock     = "submitBlock"
)

// plasmaABI covers the two framework methods the core talks to.
const plasmaABI = `[
	{
		"type": "function",
		"name": "checkMembership",
		"stateMutability": "pure",
		"inputs": [
			{"name": "leaf", "type": "bytes32"},
			{"name": "index", "type": "uint256"},
			{"name": "rootHash", "type": "bytes32"},
			{"name": "proof", "type": "bytes"}
		],
		"outputs": [{"name": "", "type": "bool"}]
	},
	{
		"type": "function",
		"name": "submitBlock",
		"stateMutability": "nonpayable",
		"inputs": [{"name": "blockRoot", "type": "bytes32"}],
		"outputs": []
	}
]`

var parsedABI abi.ABI

func init() {
	var err error
	parsedABI, err = abi.JSON(strings.NewReader(plasmaABI))
	if err != nil {
		panic(err)
	}
}

// CalldataBuilder encodes calls against the configured plasma framework contract.
type CalldataBuilder struct {
	contract common.Address
}

// NewCalldataBuilder requires a config with a valid contract address.
func NewCalldataBuilder(cfg *config.PlasmaConfig) (*CalldataBuilder, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if !common.IsHexAddress(cfg.ContractAddress) {
		return nil, errors.Errorf("invalid contract address %q", cfg.ContractAddress)
	}
	return &CalldataBuilder{contract: cfg.Contract()}, nil
}

// Contract is the address every built call targets
func (b *CalldataBuilder) Contract() common.Address {
	return b.contract
}

// CheckMembership packs checkMembership(leaf, index, rootHash, proof) for an inclusion proof.
func (b *CalldataBuilder) CheckMembership(proof *merkle.MerkleProof) ([]byte, error) {
	if proof == nil || len(proof.Proof) == 0 {
		return nil, errors.New("empty proof")
	}

	data, err := parsedABI.Pack(MethodCheckMembership,
		[32]byte(proof.Leaf),
		big.NewInt(int64(proof.LeafIndex)),
		[32]byte(proof.Root),
		proof.Bytes(),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to pack checkMembership")
	}
	return data, nil
}

// SubmitBlock packs submitBlock(blockRoot).
func (b *CalldataBuilder) SubmitBlock(root types.Hash) ([]byte, error) {
	data, err := parsedABI.Pack(MethodSubmitBlock, [32]byte(root))
	if err != nil {
		return nil, errors.Wrap(err, "failed to pack submitBlock")
	}
	return data, nil
}

// CheckMembershipCall wraps the packed proof in a call message for eth_call.
func (b *CalldataBuilder) CheckMembershipCall(proof *merkle.MerkleProof) (ethereum.CallMsg, error) {
	data, err := b.CheckMembership(proof)
	if err != nil {
		return ethereum.CallMsg{}, err
	}
	to := b.contract
	return ethereum.CallMsg{To: &to, Data: data}, nil
}

// DecodeCheckMembership parses checkMembership calldata back into a proof.
func DecodeCheckMembership(data []byte) (*merkle.MerkleProof, error) {
	args, err := unpackInputs(MethodCheckMembership, data)
	if err != nil {
		return nil, err
	}

	leaf, ok1 := args[0].([32]byte)
	index, ok2 := args[1].(*big.Int)
	root, ok3 := args[2].([32]byte)
	proofBytes, ok4 := args[3].([]byte)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return nil, errors.New("unexpected checkMembership argument types")
	}

	// ProofFromBytes bounds the index by the proof height
	if !index.IsInt64() {
		return nil, errors.Errorf("index %s does not fit a leaf index", index)
	}

	return merkle.ProofFromBytes(proofBytes, int(index.Int64()), types.Hash(leaf), types.Hash(root))
}

// DecodeSubmitBlock returns the root carried by submitBlock calldata.
func DecodeSubmitBlock(data []byte) (types.Hash, error) {
	args, err := unpackInputs(MethodSubmitBlock, data)
	if err != nil {
		return types.Hash{}, err
	}
	root, ok := args[0].([32]byte)
	if !ok {
		return types.Hash{}, errors.New("unexpected submitBlock argument type")
	}
	return types.Hash(root), nil
}

// DecodeCheckMembershipResult unpacks the bool returned by checkMembership.
func DecodeCheckMembershipResult(ret []byte) (bool, error) {
	out, err := parsedABI.Unpack(MethodCheckMembership, ret)
	if err != nil {
		return false, errors.Wrap(err, "failed to unpack checkMembership result")
	}
	ok, isBool := out[0].(bool)
	if !isBool {
		return false, errors.New("unexpected checkMembership result type")
	}
	return ok, nil
}

func unpackInputs(name string, data []byte) ([]interface{}, error) {
	method := parsedABI.Methods[name]
	if len(data) < 4 || !bytes.Equal(data[:4], method.ID) {
		return nil, errors.Errorf("calldata is not a %s call", name)
	}
	args, err := method.Inputs.Unpack(data[4:])
	if err != nil {
		return nil, errors.Wrapf(err, "failed to unpack %s arguments", name)
	}
	return args, nil
}
