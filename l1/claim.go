package l1

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

// ClaimABI is the interface of the L1 contract that executes relayed calldata against a target.
const ClaimABI = `[
	{"type":"function","name":"claim","stateMutability":"nonpayable",
	 "inputs":[{"name":"target","type":"address"},{"name":"data","type":"bytes"}],"outputs":[]},
	{"type":"function","name":"hashRes","stateMutability":"view",
	 "inputs":[],"outputs":[{"name":"","type":"bytes32"}]},
	{"type":"function","name":"result","stateMutability":"view",
	 "inputs":[],"outputs":[{"name":"","type":"bytes"}]}
]`

var ErrClaimReverted = errors.New("claim transaction reverted")

//go:generate mockgen -destination=./mocks/mock_claimer.go -package=mocks github.com/NethermindEth/starkbridge/l1 Claimer
type Claimer interface {
	// Claim submits calldata for execution against target and waits for it to be mined.
	Claim(ctx context.Context, target common.Address, calldata []byte) (common.Hash, error)
	// HashRes returns the hash the claim contract recorded for the last claim.
	HashRes(ctx context.Context) ([32]byte, error)
}

// Backend is what the claim contract needs from an Ethereum node.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
}

type ClaimContract struct {
	contract *bind.BoundContract
	backend  Backend
	opts     bind.TransactOpts
}

var _ Claimer = (*ClaimContract)(nil)

// NewClaimContract binds the claim contract at address. Transactions are signed by opts, which
// the caller owns.
func NewClaimContract(address common.Address, backend Backend, opts *bind.TransactOpts) (*ClaimContract, error) {
	parsed, err := abi.JSON(strings.NewReader(ClaimABI))
	if err != nil {
		return nil, err
	}
	if opts == nil {
		return nil, errors.New("nil transact opts")
	}
	return &ClaimContract{
		contract: bind.NewBoundContract(address, parsed, backend, backend, backend),
		backend:  backend,
		opts:     *opts,
	}, nil
}

func (c *ClaimContract) Claim(ctx context.Context, target common.Address, calldata []byte) (common.Hash, error) {
	opts := c.opts
	opts.Context = ctx

	tx, err := c.contract.Transact(&opts, "claim", target, calldata)
	if err != nil {
		return common.Hash{}, fmt.Errorf("send claim: %w", err)
	}

	receipt, err := bind.WaitMined(ctx, c.backend, tx)
	if err != nil {
		return tx.Hash(), fmt.Errorf("wait for claim %s: %w", tx.Hash(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return tx.Hash(), fmt.Errorf("%w: %s", ErrClaimReverted, tx.Hash())
	}
	return tx.Hash(), nil
}

func (c *ClaimContract) HashRes(ctx context.Context) ([32]byte, error) {
	var out []any
	if err := c.contract.Call(&bind.CallOpts{Context: ctx}, &out, "hashRes"); err != nil {
		return [32]byte{}, fmt.Errorf("call hashRes: %w", err)
	}
	return *abi.ConvertType(out[0], new([32]byte)).(*[32]byte), nil
}

// Dial connects to an Ethereum node. The returned client is owned by the caller.
func Dial(ctx context.Context, url string) (*ethclient.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	client, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("dial ethereum node: %w", err)
	}
	return ethclient.NewClient(client), nil
}
