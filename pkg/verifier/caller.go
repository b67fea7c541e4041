package verifier

import (
	"context"

	"github.com/ethereum/go-ethereum"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/omgnetwork/plasma-core-go/pkg/merkle"
)

// MembershipChecker asks the plasma framework contract to verify an inclusion proof via eth_call.
// Any ethereum.ContractCaller works, *ethclient.Client included.
type MembershipChecker struct {
	caller  ethereum.ContractCaller
	builder *CalldataBuilder
	logger  *zap.Logger
}

// NewMembershipChecker falls back to a no-op logger when logger is nil.
func NewMembershipChecker(caller ethereum.ContractCaller, builder *CalldataBuilder, logger *zap.Logger) *MembershipChecker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MembershipChecker{
		caller:  caller,
		builder: builder,
		logger:  logger,
	}
}

// CheckMembership runs checkMembership against the latest block.
func (m *MembershipChecker) CheckMembership(ctx context.Context, proof *merkle.MerkleProof) (bool, error) {
	msg, err := m.builder.CheckMembershipCall(proof)
	if err != nil {
		return false, err
	}

	ret, err := m.caller.CallContract(ctx, msg, nil)
	if err != nil {
		return false, errors.Wrapf(err, "checkMembership call to %s failed", m.builder.Contract().Hex())
	}

	ok, err := DecodeCheckMembershipResult(ret)
	if err != nil {
		return false, err
	}

	m.logger.Sugar().Debugw("Root chain membership check",
		"contract", m.builder.Contract().Hex(),
		"leafIndex", proof.LeafIndex,
		"root", proof.Root.Hex(),
		"included", ok,
	)
	return ok, nil
}
