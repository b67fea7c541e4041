package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omgnetwork/plasma-core-go/pkg/encoding"
	"github.com/omgnetwork/plasma-core-go/pkg/merkle"
	"github.com/omgnetwork/plasma-core-go/pkg/testutil"
)

const (
	testContract = "0x1111111111111111111111111111111111111111"
	testEthVault = "0x2222222222222222222222222222222222222222"
)

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out

	err := app.Run(append([]string{"plasma-cli"}, args...))
	return out.String(), err
}

// field returns the value printed after "name: "
func field(t *testing.T, output, name string) string {
	t.Helper()
	for _, line := range strings.Split(output, "\n") {
		if strings.HasPrefix(line, name+": ") {
			return strings.TrimPrefix(line, name+": ")
		}
	}
	t.Fatalf("field %q not found in output:\n%s", name, output)
	return ""
}

func TestHashCommand(t *testing.T) {
	out, err := runApp(t, "hash", "0x6f6d6721")
	require.NoError(t, err)
	assert.Equal(t, "0xf155cc93bbef8b8545f8efe9db33bd36ab4c6ae54566cb071586e65c17d1bb0c\n", out)

	_, err = runApp(t, "hash", "6f6d6721")
	require.Error(t, err)

	_, err = runApp(t, "hash")
	require.Error(t, err)
}

func TestRootCommand(t *testing.T) {
	leaves := testutil.CreateTestLeaves(3)
	expected, err := merkle.FastRoot(leaves, 4)
	require.NoError(t, err)

	args := []string{"--tree-height", "4", "root"}
	for _, h := range encoding.HashesToHex(leaves) {
		args = append(args, "--leaf", h)
	}

	out, err := runApp(t, args...)
	require.NoError(t, err)
	assert.Equal(t, expected.Hex()+"\n", out)
}

func TestRootCommand_Empty(t *testing.T) {
	zero, err := merkle.ZeroRoot(merkle.DefaultHeight)
	require.NoError(t, err)

	out, err := runApp(t, "root")
	require.NoError(t, err)
	assert.Equal(t, zero.Hex()+"\n", out)
}

func TestProveAndVerifyCommands(t *testing.T) {
	leaves := encoding.HashesToHex(testutil.CreateTestLeaves(5))

	args := []string{"--contract-address", testContract, "prove", "--index", "3", "--calldata"}
	for _, h := range leaves {
		args = append(args, "--leaf", h)
	}

	out, err := runApp(t, args...)
	require.NoError(t, err)
	assert.Equal(t, leaves[3], field(t, out, "leaf"))
	assert.Len(t, field(t, out, "proof"), 2+2*merkle.DefaultHeight*32)
	assert.True(t, strings.HasPrefix(field(t, out, "calldata"), "0x"))

	verifyOut, err := runApp(t, "verify",
		"--leaf", field(t, out, "leaf"),
		"--index", "3",
		"--root", field(t, out, "root"),
		"--proof", field(t, out, "proof"),
	)
	require.NoError(t, err)
	assert.Equal(t, "proof is valid\n", verifyOut)

	_, err = runApp(t, "verify",
		"--leaf", field(t, out, "leaf"),
		"--index", "2",
		"--root", field(t, out, "root"),
		"--proof", field(t, out, "proof"),
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid")
}

func TestDepositCommand(t *testing.T) {
	out, err := runApp(t, "deposit",
		"--owner", "0x3333333333333333333333333333333333333333",
		"--amount", "0x64",
	)
	require.NoError(t, err)

	tx := field(t, out, "tx")
	hash := field(t, out, "hash")

	hashOut, err := runApp(t, "hash", tx)
	require.NoError(t, err)
	assert.Equal(t, hash+"\n", hashOut)

	_, err = runApp(t, "deposit", "--owner", "0x33", "--amount", "0x64")
	require.Error(t, err)
}

func TestCommitAndBlockProofCommands(t *testing.T) {
	dataPath := t.TempDir()
	common := []string{
		"--contract-address", testContract,
		"--eth-vault-address", testEthVault,
		"--persistence-type", "badger",
		"--data-path", dataPath,
	}

	var txs []string
	for _, owner := range []string{
		"0x3333333333333333333333333333333333333333",
		"0x4444444444444444444444444444444444444444",
	} {
		out, err := runApp(t, "deposit", "--owner", owner, "--amount", "0x1")
		require.NoError(t, err)
		txs = append(txs, field(t, out, "tx"))
	}

	args := append(append([]string{}, common...), "commit", "--tx", txs[0], "--tx", txs[1])
	out, err := runApp(t, args...)
	require.NoError(t, err)
	assert.Equal(t, "1000", field(t, out, "block"))
	root := field(t, out, "root")

	args = append(append([]string{}, common...), "block-proof", "--block", "1000", "--index", "1")
	out, err = runApp(t, args...)
	require.NoError(t, err)
	assert.Equal(t, root, field(t, out, "root"))
	assert.Equal(t, "1", field(t, out, "index"))

	args = append(append([]string{}, common...), "commit")
	out, err = runApp(t, args...)
	require.NoError(t, err)
	assert.Equal(t, "2000", field(t, out, "block"))
}

func TestCommitCommand_RequiresConfig(t *testing.T) {
	_, err := runApp(t, "commit")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestVerifyCommand_UnreachableRPC(t *testing.T) {
	leaves := encoding.HashesToHex(testutil.CreateTestLeaves(2))
	out, err := runApp(t, "prove", "--leaf", leaves[0], "--leaf", leaves[1], "--index", "0")
	require.NoError(t, err)

	_, err = runApp(t, "--contract-address", testContract, "verify",
		"--leaf", field(t, out, "leaf"),
		"--index", "0",
		"--root", field(t, out, "root"),
		"--proof", field(t, out, "proof"),
		"--rpc-url", "http://127.0.0.1:1",
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "checkMembership call")
}
