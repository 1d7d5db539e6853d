package starknet_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/NethermindEth/starkbridge/core/crypto"
	"github.com/NethermindEth/starkbridge/core/felt"
	"github.com/NethermindEth/starkbridge/starknet"
	"github.com/NethermindEth/starkbridge/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rpcRequest struct {
	ID     json.RawMessage   `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

// newNode serves canned JSON-RPC results keyed by method name.
func newNode(t *testing.T, results map[string]string, seen func(rpcRequest)) *starknet.Client {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if seen != nil {
			seen(req)
		}

		w.Header().Set("Content-Type", "application/json")
		result, ok := results[req.Method]
		if !ok {
			_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":` + string(req.ID) +
				`,"error":{"code":-32601,"message":"method not found"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":` + string(req.ID) + `,"result":` + result + `}`))
	}))
	t.Cleanup(srv.Close)

	client, err := starknet.Dial(t.Context(), srv.URL, utils.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(client.Close)
	return client
}

func TestTransactionEvents(t *testing.T) {
	receipt := `{
		"transaction_hash": "0xabc",
		"execution_status": "SUCCEEDED",
		"finality_status": "ACCEPTED_ON_L2",
		"block_number": 7,
		"events": [{"from_address": "0x123", "keys": ["0x1"], "data": ["0x1", "0x2a", "0x0"]}]
	}`

	var params []json.RawMessage
	client := newNode(t, map[string]string{"starknet_getTransactionReceipt": receipt}, func(r rpcRequest) {
		params = r.Params
	})

	events, err := client.TransactionEvents(t.Context(), felt.FromUint64(0xabc))
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Len(t, params, 1)
	assert.JSONEq(t, `"0xabc"`, string(params[0]))

	assert.Equal(t, "0x123", events[0].From.String())
	payload, err := events[0].Payload()
	require.NoError(t, err)
	s, err := payload.Scalar()
	require.NoError(t, err)
	assert.Equal(t, int64(0x2a), s.Int64())
}

func TestTransactionEventsReverted(t *testing.T) {
	receipt := `{"transaction_hash": "0xabc", "execution_status": "REVERTED", "revert_reason": "boom", "events": []}`
	client := newNode(t, map[string]string{"starknet_getTransactionReceipt": receipt}, nil)

	_, err := client.TransactionEvents(t.Context(), felt.FromUint64(0xabc))
	require.ErrorIs(t, err, starknet.ErrTransactionReverted)
	assert.Contains(t, err.Error(), "boom")
}

func TestTransactionEventsRejectsNonCanonicalData(t *testing.T) {
	receipt := `{"transaction_hash": "0xabc", "execution_status": "SUCCEEDED",
		"events": [{"from_address": "0x1", "keys": [], "data": ["0x` +
		felt.Modulus().Text(16) + `"]}]}`
	client := newNode(t, map[string]string{"starknet_getTransactionReceipt": receipt}, nil)

	_, err := client.TransactionEvents(t.Context(), felt.FromUint64(0xabc))
	require.ErrorIs(t, err, felt.ErrOutOfRange)
}

func TestCall(t *testing.T) {
	var params []json.RawMessage
	client := newNode(t, map[string]string{"starknet_call": `["0x2a", "0x0"]`}, func(r rpcRequest) {
		params = r.Params
	})

	call := starknet.NewFunctionCall(felt.FromUint64(0x123), "getHash", nil)
	res, err := client.Call(t.Context(), call)
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "0x2a", res[0].String())
	assert.True(t, res[1].IsZero())

	require.Len(t, params, 2)
	assert.JSONEq(t, `{
		"contract_address": "0x123",
		"entry_point_selector": "`+crypto.Selector("getHash").String()+`",
		"calldata": []
	}`, string(params[0]))
	assert.JSONEq(t, `"latest"`, string(params[1]))
}

func TestCallError(t *testing.T) {
	client := newNode(t, map[string]string{}, nil)

	_, err := client.Call(t.Context(), starknet.NewFunctionCall(felt.FromUint64(1), "getHash", nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "method not found")
}
