// Package codec moves ABI encoded calldata between an Ethereum style byte payload and the
// fixed width words a Starknet entry point accepts, and back.
//
// Outbound, Encode chunks a scalar into 256-bit words and EventPayload splits each word into
// the low/high felts of a Cairo u256. Inbound, Decode reassembles the scalar from the data of
// the event the Starknet contract emits. EncodeArgs and ParseFelts serve the opposite
// direction, packing felt arguments into one blob of 32-byte slots.
//
// All transforms are pure and safe for concurrent use.
package codec
