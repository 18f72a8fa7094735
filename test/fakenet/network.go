// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

// Package fakenet is an in-process network that speaks the JSON-RPC API the
// client uses. It keeps accounts, access keys, and blocks in memory,
// validates and executes transactions, and can inject faults.
package fakenet

import (
	"encoding/binary"
	"fmt"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/AccumulateNetwork/jsonrpc2/v15"
	"github.com/Olovorr/near-api-js-ext/protocol"
)

// ContractFunc executes a function call against a contract.
type ContractFunc func(call *protocol.FunctionCall) *Execution

// Execution is the result of a function call. Spawned executions become
// receipts of the receipt that ran the call.
type Execution struct {
	Logs   []string
	Return []byte

	// Fail makes the call fail with a FunctionCallError carrying this
	// message.
	Fail string

	// Executor is the account a spawned receipt runs on. It defaults to the
	// contract.
	Executor string
	Spawn    []*Execution
}

type account struct {
	balance  protocol.U128
	keys     map[string]*accessKey
	contract ContractFunc
	code     []byte
}

// accessKey is an access key and the nonces it has used. The pool orders a
// key's transactions by nonce before they execute, so a transaction is
// accepted if its nonce is above the floor and unused, whatever order it
// arrives in. The reported nonce is the highest used.
type accessKey struct {
	protocol.AccessKey
	floor uint64
	used  map[uint64]bool
}

func newAccessKey(ak protocol.AccessKey) *accessKey {
	return &accessKey{AccessKey: ak, floor: ak.Nonce, used: map[uint64]bool{}}
}

type block struct {
	height uint64
	hash   protocol.CryptoHash
	prev   protocol.CryptoHash
}

type txRecord struct {
	outcome *protocol.FinalExecutionOutcome
	err     *jsonrpc2.Error
	pending int
}

type httpFault struct {
	status int
	count  int
}

type rpcFault struct {
	err   jsonrpc2.Error
	count int
}

// Network is a fake network. The zero value is not usable; use [New].
type Network struct {
	mu       sync.Mutex
	chainID  string
	blocks   []block
	accounts map[string]*account
	txs      map[protocol.CryptoHash]*txRecord
	sent     [][]byte
	calls    map[string]int

	pendingPolls int
	httpFaults   []*httpFault
	rpcFaults    map[string][]*rpcFault
}

// New creates a network with a single genesis block.
func New() *Network {
	n := &Network{
		chainID:   "fakenet",
		accounts:  map[string]*account{},
		txs:       map[protocol.CryptoHash]*txRecord{},
		calls:     map[string]int{},
		rpcFaults: map[string][]*rpcFault{},
	}
	n.blocks = append(n.blocks, block{height: 1, hash: blockHash(1)})
	return n
}

// Serve starts an HTTP server for the network and returns its URL. The
// server stops when the test ends.
func (n *Network) Serve(t testing.TB) string {
	s := httptest.NewServer(n.Handler())
	t.Cleanup(s.Close)
	return s.URL
}

func blockHash(height uint64) protocol.CryptoHash {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], height)
	return protocol.HashBytes(append([]byte("block"), b[:]...))
}

func keyID(key *protocol.PublicKey) string { return key.String() }

// AddAccount creates an account with a balance in yoctoNEAR.
func (n *Network) AddAccount(id string, balance protocol.U128) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.accounts[id] = &account{balance: balance, keys: map[string]*accessKey{}}
}

// AddKey adds a full access key to an account.
func (n *Network) AddKey(accountID string, key *protocol.PublicKey, nonce uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	a := n.mustAccount(accountID)
	ak := protocol.FullAccess()
	ak.Nonce = nonce
	a.keys[keyID(key)] = newAccessKey(ak)
}

// SetNonce overwrites the committed nonce of a key, as if another client
// had used it.
func (n *Network) SetNonce(accountID string, key *protocol.PublicKey, nonce uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	ak, ok := n.mustAccount(accountID).keys[keyID(key)]
	if !ok {
		panic(fmt.Errorf("%s has no key %v", accountID, key))
	}
	ak.Nonce = nonce
	ak.floor = nonce
	ak.used = map[uint64]bool{}
}

// Nonce returns the committed nonce of a key.
func (n *Network) Nonce(accountID string, key *protocol.PublicKey) uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.mustAccount(accountID).keys[keyID(key)].Nonce
}

// Balance returns the balance of an account.
func (n *Network) Balance(accountID string) protocol.U128 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.mustAccount(accountID).balance
}

// HasAccount returns true if the account exists.
func (n *Network) HasAccount(accountID string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	_, ok := n.accounts[accountID]
	return ok
}

// SetContract sets the code that runs function calls on the account.
func (n *Network) SetContract(accountID string, fn ContractFunc) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.mustAccount(accountID).contract = fn
}

// AdvanceBlock produces a new block.
func (n *Network) AdvanceBlock() uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	last := n.blocks[len(n.blocks)-1]
	next := block{height: last.height + 1, hash: blockHash(last.height + 1), prev: last.hash}
	n.blocks = append(n.blocks, next)
	return next.height
}

// LatestBlock returns the hash and height of the latest block.
func (n *Network) LatestBlock() (protocol.CryptoHash, uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	b := n.blocks[len(n.blocks)-1]
	return b.hash, b.height
}

// SetPendingPolls makes the status of each following transaction report
// pending for the given number of polls before it reports the outcome.
func (n *Network) SetPendingPolls(polls int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pendingPolls = polls
}

// Release makes every pending transaction report its outcome on the next
// poll.
func (n *Network) Release() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pendingPolls = 0
	for _, rec := range n.txs {
		rec.pending = 0
	}
}

// FailHTTP makes the next count requests fail with an HTTP status.
func (n *Network) FailHTTP(status, count int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.httpFaults = append(n.httpFaults, &httpFault{status, count})
}

// Fail makes the next count calls of the method fail with err.
func (n *Network) Fail(method string, count int, err jsonrpc2.Error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.rpcFaults[method] = append(n.rpcFaults[method], &rpcFault{err, count})
}

// Calls returns the number of calls of the method that reached a handler,
// including calls that failed with an injected fault.
func (n *Network) Calls(method string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.calls[method]
}

// Broadcasts returns every signed transaction received, including
// duplicates.
func (n *Network) Broadcasts() [][]byte {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([][]byte(nil), n.sent...)
}

// Transactions returns the number of distinct transactions received.
func (n *Network) Transactions() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.txs)
}

func (n *Network) mustAccount(id string) *account {
	a, ok := n.accounts[id]
	if !ok {
		panic(fmt.Errorf("account %s does not exist", id))
	}
	return a
}
