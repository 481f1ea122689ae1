// Package registry encodes calls to the on-chain note registry and
// submits the mutating ones through a gas-sponsored relay. Reads go
// straight to a node RPC endpoint as view calls.
package registry

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"

	"github.com/R3yz0n/beyond-pad/internal/common"
	"github.com/R3yz0n/beyond-pad/internal/logging"
	"github.com/R3yz0n/beyond-pad/internal/retryx"
)

// registryABIJSON is the externally defined surface of the registry
// contract (see the NoteRegistry deployment docs).
const registryABIJSON = `[
	{"type":"function","name":"addNote","stateMutability":"nonpayable","inputs":[
		{"name":"cid","type":"string"},
		{"name":"nftGate","type":"address"},
		{"name":"encKeyOwner","type":"string"}],"outputs":[]},
	{"type":"function","name":"addCollaborator","stateMutability":"nonpayable","inputs":[
		{"name":"cid","type":"string"},
		{"name":"collaborator","type":"address"},
		{"name":"encKeyCollaborator","type":"string"}],"outputs":[]},
	{"type":"function","name":"getNotes","stateMutability":"view","inputs":[
		{"name":"user","type":"address"}],"outputs":[
		{"name":"","type":"tuple[]","components":[
			{"name":"cid","type":"string"},
			{"name":"nftGate","type":"address"},
			{"name":"owner","type":"address"},
			{"name":"encKeyOwner","type":"string"}]}]},
	{"type":"event","name":"NoteAdded","inputs":[
		{"name":"user","type":"address","indexed":true},
		{"name":"cid","type":"string","indexed":false},
		{"name":"nftGate","type":"address","indexed":false},
		{"name":"encKeyOwner","type":"string","indexed":false}],"anonymous":false}
]`

var registryABI = mustParseABI(registryABIJSON)

func mustParseABI(src string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(src))
	if err != nil {
		panic(err)
	}
	return parsed
}

// NoteAddedTopic is the event signature hash of NoteAdded, usable to
// recover transaction references from logs after the fact.
func NoteAddedTopic() ethcommon.Hash {
	return registryABI.Events["NoteAdded"].ID
}

// Record is one on-ledger note entry as returned by getNotes.
type Record struct {
	Cid         string
	NftGate     ethcommon.Address
	Owner       ethcommon.Address
	EncKeyOwner string
}

// NoGate is the "no gate" sentinel: the zero address.
var NoGate = ethcommon.Address{}

// Client is the registry surface the note pipeline consumes.
type Client interface {
	// AddNote registers a note's wrapped owner key; returns a chain
	// reference (task handle or tx hash).
	AddNote(ctx context.Context, cid string, gate ethcommon.Address, wrappedOwnerKey string) (string, error)
	// AddCollaborator registers a second wrapped key for the same note.
	AddCollaborator(ctx context.Context, cid string, collaborator ethcommon.Address, wrappedKey string) (string, error)
	// ListNotes queries the registry for every record owned by user.
	ListNotes(ctx context.Context, user ethcommon.Address) ([]Record, error)
}

// ContractCaller is the read-side node capability; *ethclient.Client
// satisfies it.
type ContractCaller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

const defaultGasLimit = 300_000

// ContractClient talks to one registry deployment.
type ContractClient struct {
	contract ethcommon.Address
	relay    *Relay
	caller   ContractCaller
	policy   retryx.Policy
	log      logging.Logger
}

func NewContractClient(contract ethcommon.Address, relay *Relay, caller ContractCaller, log logging.Logger) *ContractClient {
	return &ContractClient{
		contract: contract,
		relay:    relay,
		caller:   caller,
		log:      log,
		// the only automatic retry in the client: rate-limited relay
		// submissions, 3 attempts with 2s/4s waits
		policy: retryx.Policy{
			MaxAttempts: 3,
			BaseDelay:   2 * time.Second,
			Retryable:   func(err error) bool { return errors.Is(err, common.ErrRateLimited) },
		},
	}
}

func (c *ContractClient) AddNote(ctx context.Context, cid string, gate ethcommon.Address, wrappedOwnerKey string) (string, error) {
	data, err := registryABI.Pack("addNote", cid, gate, wrappedOwnerKey)
	if err != nil {
		return "", fmt.Errorf("encoding addNote: %w", err)
	}
	return c.submit(ctx, "addNote", data)
}

func (c *ContractClient) AddCollaborator(ctx context.Context, cid string, collaborator ethcommon.Address, wrappedKey string) (string, error) {
	data, err := registryABI.Pack("addCollaborator", cid, collaborator, wrappedKey)
	if err != nil {
		return "", fmt.Errorf("encoding addCollaborator: %w", err)
	}
	return c.submit(ctx, "addCollaborator", data)
}

func (c *ContractClient) submit(ctx context.Context, method string, data []byte) (string, error) {
	var sub Submission
	err := c.policy.Do(ctx, func(ctx context.Context) error {
		var callErr error
		sub, callErr = c.relay.SponsoredCall(ctx, []Call{{
			To:   c.contract.Hex(),
			Data: encodeCallData(data),
		}}, CallOptions{IsSponsored: true, GasLimit: defaultGasLimit})
		return callErr
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", method, err)
	}

	c.log.Info(ctx, "registry call submitted", "method", method, "ref", sub.Ref())
	return sub.Ref(), nil
}

func (c *ContractClient) ListNotes(ctx context.Context, user ethcommon.Address) ([]Record, error) {
	data, err := registryABI.Pack("getNotes", user)
	if err != nil {
		return nil, fmt.Errorf("encoding getNotes: %w", err)
	}

	out, err := c.caller.CallContract(ctx, ethereum.CallMsg{To: &c.contract, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("getNotes call: %w", err)
	}

	res, err := registryABI.Unpack("getNotes", out)
	if err != nil {
		return nil, fmt.Errorf("decoding getNotes result: %w", err)
	}

	records := *abi.ConvertType(res[0], new([]Record)).(*[]Record)
	return records, nil
}

// WaitConfirmed exposes the relay's bounded confirmation poll at the
// registry level so callers need not hold the relay directly.
func (c *ContractClient) WaitConfirmed(ctx context.Context, taskID string) (string, bool, error) {
	return c.relay.WaitConfirmed(ctx, taskID)
}
