package crypto

import (
	"github.com/NethermindEth/starkbridge/core/felt"
	"golang.org/x/crypto/sha3"
)

// Keccak256 returns the Ethereum flavour of keccak-256 over the concatenation of data.
func Keccak256(data ...[]byte) [32]byte {
	h := sha3.NewLegacyKeccak256()
	for _, b := range data {
		h.Write(b) //nolint:errcheck
	}
	var d [32]byte
	h.Sum(d[:0])
	return d
}

// StarknetKeccak implements [Starknet keccak], the hash used for entry point selectors.
//
// [Starknet keccak]: https://docs.starknet.io/architecture-and-concepts/cryptography/hash-functions/#starknet_keccak
func StarknetKeccak(b []byte) *felt.Felt {
	d := Keccak256(b)
	// keep the low 250 bits
	d[0] &= 3
	f, err := felt.FromBytes(d[:])
	if err != nil {
		// 250 bits always fit in the field
		panic(err)
	}
	return f
}

// Selector returns the entry point selector of a named Starknet function.
func Selector(name string) *felt.Felt {
	return StarknetKeccak([]byte(name))
}
