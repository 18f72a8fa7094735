// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/Olovorr/near-api-js-ext/pkg/client/signing"
	"github.com/Olovorr/near-api-js-ext/pkg/errors"
	"github.com/Olovorr/near-api-js-ext/protocol"
	"github.com/Olovorr/near-api-js-ext/test/fakenet"
	"github.com/dustin/go-humanize"
	"github.com/stretchr/testify/require"
)

type testNet struct {
	*fakenet.Network
	url string
	key signing.KeyPair
}

func newTestNet(t *testing.T) *testNet {
	t.Helper()
	key, err := signing.GenerateKeyPair(protocol.KeyTypeED25519)
	require.NoError(t, err)

	n := &testNet{Network: fakenet.New(), key: key}
	amount, err := protocol.ParseNearAmount("10")
	require.NoError(t, err)
	n.AddAccount("alice.test", amount)
	n.AddAccount("bob.test", protocol.NewU128(0))
	n.AddKey("alice.test", key.PublicKey(), 5)
	n.url = n.Serve(t)
	return n
}

// run runs nearctl as alice and returns stdout.
func (n *testNet) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	args = append(args,
		"--network", "fakenet",
		"--node", n.url,
		"--account", "alice.test",
		"--private-key", n.key.String(),
		"--no-color",
		"--log", "error",
	)

	cmd := newCmdMain()
	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

func TestSendMoney(t *testing.T) {
	n := newTestNet(t)
	out, err := n.run(t, "send-money", "bob.test", "1.5")
	require.NoError(t, err)
	require.Contains(t, out, "succeeded")
	require.Equal(t, "1.5", protocol.FormatNearAmount(n.Balance("bob.test")))
	require.Equal(t, uint64(6), n.Nonce("alice.test", n.key.PublicKey()))
}

func TestCall(t *testing.T) {
	n := newTestNet(t)
	n.AddAccount("counter.test", protocol.NewU128(0))
	var got *protocol.FunctionCall
	n.SetContract("counter.test", func(call *protocol.FunctionCall) *fakenet.Execution {
		got = call
		return &fakenet.Execution{Logs: []string{"incremented"}, Return: []byte("2")}
	})

	out, err := n.run(t, "call", "counter.test", "increment", `{"by":1}`, "--gas", "50Tgas", "--deposit", "0.01")
	require.NoError(t, err)
	require.Contains(t, out, "incremented")
	require.Contains(t, out, "Result    : 2")
	require.Contains(t, out, "EXECUTOR")
	require.Contains(t, out, "counter.test")

	require.NotNil(t, got)
	require.Equal(t, "increment", got.MethodName)
	require.JSONEq(t, `{"by":1}`, string(got.Args))
	require.Equal(t, uint64(50_000_000_000_000), got.Gas)
	require.Equal(t, "0.01", protocol.FormatNearAmount(got.Deposit))
}

func TestTotalGas(t *testing.T) {
	o := &protocol.FinalExecutionOutcome{
		TransactionOutcome: protocol.ExecutionOutcomeWithID{Outcome: protocol.ExecutionOutcome{GasBurnt: math.MaxUint64}},
		ReceiptsOutcome: []protocol.ExecutionOutcomeWithID{
			{Outcome: protocol.ExecutionOutcome{GasBurnt: math.MaxUint64}},
		},
	}
	require.Equal(t, "36,893,488,147,419,103,230", humanize.BigComma(totalGas(o)))
}

func TestCallFailure(t *testing.T) {
	n := newTestNet(t)
	n.AddAccount("counter.test", protocol.NewU128(0))
	n.SetContract("counter.test", func(*protocol.FunctionCall) *fakenet.Execution {
		return &fakenet.Execution{Fail: "Smart contract panicked: overflow"}
	})

	out, err := n.run(t, "call", "counter.test", "increment")
	require.Error(t, err)
	require.Equal(t, errors.ReceiptFailure, errors.Code(err))
	require.Contains(t, out, "failed")
	require.Contains(t, out, "overflow")
}

func TestCallInvalidArgs(t *testing.T) {
	n := newTestNet(t)
	_, err := n.run(t, "call", "counter.test", "increment", `{by:1}`)
	require.Error(t, err)
	require.Equal(t, errors.BadRequest, errors.Code(err))
	require.Equal(t, 0, n.Transactions())
}

func TestAccessKey(t *testing.T) {
	n := newTestNet(t)
	out, err := n.run(t, "access-key")
	require.NoError(t, err)
	require.Contains(t, out, "Nonce       : 5")
	require.Contains(t, out, "full access")

	out, err = n.run(t, "access-key", "--json")
	require.NoError(t, err)
	var v struct{ Nonce uint64 }
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	require.Equal(t, uint64(5), v.Nonce)
}

func TestTxStatus(t *testing.T) {
	n := newTestNet(t)
	n.SetPendingPolls(1 << 30)

	_, err := n.run(t, "send-money", "bob.test", "1", "--wait-timeout", "20ms")
	require.Equal(t, errors.PendingTimeout, errors.Code(err))

	sent := n.Broadcasts()
	require.Len(t, sent, 1)
	stx := new(protocol.SignedTransaction)
	require.NoError(t, stx.UnmarshalBinary(sent[0]))
	hash, err := stx.Hash()
	require.NoError(t, err)

	n.Release()
	out, err := n.run(t, "tx-status", hash.String())
	require.NoError(t, err)
	require.Contains(t, out, fmt.Sprintf("Transaction %v succeeded", hash))
}

func TestConfigFile(t *testing.T) {
	n := newTestNet(t)
	dir := t.TempDir()
	file := filepath.Join(dir, "nearctl.toml")
	require.NoError(t, os.WriteFile(file, []byte(fmt.Sprintf(`
		network-id = "fakenet"
		endpoints = ["%s"]

		[submit]
		max-attempts = 2
		base-delay = "1ms"
	`, n.url)), 0600))

	n.Fail("broadcast_tx_async", 5, fakenet.TimeoutError())

	cmd := newCmdMain()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"send-money", "bob.test", "1",
		"--config", file,
		"--account", "alice.test",
		"--private-key", n.key.String(),
		"--log", "error",
	})
	err := cmd.Execute()
	require.Equal(t, errors.RetryExhausted, errors.Code(err))
	require.Equal(t, 2, n.Calls("broadcast_tx_async"))
}

func TestEnvironment(t *testing.T) {
	n := newTestNet(t)
	t.Setenv("NEARCTL_PRIVATE_KEY", n.key.String())
	t.Setenv("NEARCTL_ACCOUNT", "alice.test")
	t.Setenv("NEARCTL_NETWORK", "fakenet")
	t.Setenv("NEARCTL_NODE", n.url+","+n.url)
	t.Setenv("NEARCTL_JSON", "true")

	cmd := newCmdMain()
	stdout := new(bytes.Buffer)
	cmd.SetOut(stdout)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"access-key", "--log", "error"})
	require.NoError(t, cmd.Execute())

	var v struct{ Nonce uint64 }
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &v))
	require.Equal(t, uint64(5), v.Nonce)
}

func TestInvalidEnvironment(t *testing.T) {
	n := newTestNet(t)
	t.Setenv("NEARCTL_WAIT_TIMEOUT", "soon")
	_, err := n.run(t, "send-money", "bob.test", "1")
	require.Error(t, err)
	require.Equal(t, errors.BadRequest, errors.Code(err))
	require.Equal(t, 0, n.Transactions())
}

func TestKeysGenerate(t *testing.T) {
	for _, typ := range []string{"ed25519", "secp256k1"} {
		t.Run(typ, func(t *testing.T) {
			cmd := newCmdMain()
			stdout := new(bytes.Buffer)
			cmd.SetOut(stdout)
			cmd.SetArgs([]string{"keys", "generate", "--type", typ})
			require.NoError(t, cmd.Execute())
			require.Contains(t, stdout.String(), "Public key  : "+typ+":")
			require.Contains(t, stdout.String(), "Secret key  : "+typ+":")
		})
	}

	cmd := newCmdMain()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"keys", "generate", "--type", "rsa"})
	require.Error(t, cmd.Execute())
}

func TestMissingAccount(t *testing.T) {
	n := newTestNet(t)
	cmd := newCmdMain()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"send-money", "bob.test", "1", "--network", "fakenet", "--node", n.url})
	err := cmd.Execute()
	require.Equal(t, errors.BadRequest, errors.Code(err))
}
