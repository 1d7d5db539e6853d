package starknet

import (
	"context"

	"github.com/NethermindEth/starkbridge/codec"
	"github.com/NethermindEth/starkbridge/core/crypto"
	"github.com/NethermindEth/starkbridge/core/felt"
)

// FunctionCall addresses one entry point of a deployed contract.
type FunctionCall struct {
	ContractAddress    *felt.Felt   `json:"contract_address"`
	EntryPointSelector *felt.Felt   `json:"entry_point_selector"`
	Calldata           []*felt.Felt `json:"calldata"`
}

// NewFunctionCall builds a call to the entry point called name.
func NewFunctionCall(contract *felt.Felt, name string, calldata []*felt.Felt) FunctionCall {
	if calldata == nil {
		calldata = []*felt.Felt{}
	}
	return FunctionCall{
		ContractAddress:    contract,
		EntryPointSelector: crypto.Selector(name),
		Calldata:           calldata,
	}
}

type Event struct {
	From *felt.Felt   `json:"from_address"`
	Keys []*felt.Felt `json:"keys"`
	Data []*felt.Felt `json:"data"`
}

// Payload interprets the event data as a relay payload.
func (e *Event) Payload() (*codec.EventPayload, error) {
	return codec.ParseEventPayloadFelts(e.Data)
}

type ExecutionStatus string

const (
	Succeeded ExecutionStatus = "SUCCEEDED"
	Reverted  ExecutionStatus = "REVERTED"
)

type TransactionReceipt struct {
	TransactionHash *felt.Felt      `json:"transaction_hash"`
	ExecutionStatus ExecutionStatus `json:"execution_status"`
	FinalityStatus  string          `json:"finality_status"`
	BlockNumber     uint64          `json:"block_number"`
	Events          []Event         `json:"events"`
	RevertReason    string          `json:"revert_reason,omitempty"`
}

// The interfaces below are the only view the relay has of the Starknet side.

//go:generate mockgen -destination=./mocks/mock_starknet.go -package=mocks github.com/NethermindEth/starkbridge/starknet Invoker,Caller,EventFetcher
type Invoker interface {
	// Invoke sends a transaction calling the given entry point and returns its hash.
	// Implementations own the account and its signing key.
	Invoke(ctx context.Context, call FunctionCall) (*felt.Felt, error)
}

type Caller interface {
	// Call runs a read only entry point against the latest state.
	Call(ctx context.Context, call FunctionCall) ([]*felt.Felt, error)
}

type EventFetcher interface {
	// TransactionEvents returns the events a transaction emitted, in emission order.
	TransactionEvents(ctx context.Context, txHash *felt.Felt) ([]Event, error)
}
