package starknet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NethermindEth/starkbridge/core/felt"
	"github.com/NethermindEth/starkbridge/utils"
	"github.com/ethereum/go-ethereum/rpc"
)

const latestBlock = "latest"

var ErrTransactionReverted = errors.New("transaction reverted")

// Client talks to a Starknet node over its JSON-RPC API.
type Client struct {
	rpc *rpc.Client
	log utils.SimpleLogger
}

var (
	_ Caller       = (*Client)(nil)
	_ EventFetcher = (*Client)(nil)
)

func NewClient(client *rpc.Client, log utils.SimpleLogger) *Client {
	return &Client{rpc: client, log: log}
}

// Dial connects to the node at url. The client is owned by the caller and must be closed.
func Dial(ctx context.Context, url string, log utils.SimpleLogger) (*Client, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	client, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("dial starknet node: %w", err)
	}
	return NewClient(client, log), nil
}

func (c *Client) Call(ctx context.Context, call FunctionCall) ([]*felt.Felt, error) {
	var result []*felt.Felt
	if err := c.rpc.CallContext(ctx, &result, "starknet_call", call, latestBlock); err != nil {
		return nil, fmt.Errorf("starknet_call %s: %w", call.EntryPointSelector, err)
	}
	return result, nil
}

func (c *Client) TransactionReceipt(ctx context.Context, txHash *felt.Felt) (*TransactionReceipt, error) {
	var receipt TransactionReceipt
	if err := c.rpc.CallContext(ctx, &receipt, "starknet_getTransactionReceipt", txHash); err != nil {
		return nil, fmt.Errorf("get receipt of %s: %w", txHash, err)
	}
	return &receipt, nil
}

func (c *Client) TransactionEvents(ctx context.Context, txHash *felt.Felt) ([]Event, error) {
	receipt, err := c.TransactionReceipt(ctx, txHash)
	if err != nil {
		return nil, err
	}
	if receipt.ExecutionStatus == Reverted {
		return nil, fmt.Errorf("%w: %s: %s", ErrTransactionReverted, txHash, receipt.RevertReason)
	}
	c.log.Debugw("Fetched transaction events", "hash", txHash, "block", receipt.BlockNumber, "events", len(receipt.Events))
	return receipt.Events, nil
}

func (c *Client) Close() {
	c.rpc.Close()
}
