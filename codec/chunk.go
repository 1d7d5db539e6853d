package codec

import (
	"math/big"

	"github.com/holiman/uint256"
)

var chunkMask = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), ChunkBits), big.NewInt(1))

// Encode splits s into 32-byte chunks, most significant chunk first. The scalar is left padded
// with zero bytes up to a multiple of 32 bytes, so the padding only ever lives in the leading
// chunk and Fold(Encode(s)) == s.
//
// Zero encodes to an empty sequence, not to a single zero chunk. Encode panics if s is nil or
// negative. Use ParseScalar or ChunkFromBig to validate untrusted input first.
func Encode(s *big.Int) []*uint256.Int {
	if s == nil {
		panic("codec: cannot chunk a nil scalar")
	}
	if s.Sign() < 0 {
		panic("codec: cannot chunk a negative scalar")
	}
	byteLen := ByteLen(s)
	paddedLen := (byteLen + ChunkBytes - 1) / ChunkBytes * ChunkBytes

	chunks := make([]*uint256.Int, paddedLen/ChunkBytes)
	work := new(big.Int).Set(s)
	word := new(big.Int)
	for i := len(chunks) - 1; work.Sign() != 0; i-- {
		word.And(work, chunkMask)
		chunks[i], _ = uint256.FromBig(word)
		work.Rsh(work, ChunkBits)
	}
	return chunks
}

// EncodeBytes chunks a raw byte payload, e.g. ABI encoded calldata.
func EncodeBytes(b []byte) []*uint256.Int {
	return Encode(new(big.Int).SetBytes(b))
}

// Fold reassembles chunks into one scalar: acc = acc*2^256 + chunk, left to right.
func Fold(chunks []*uint256.Int) *big.Int {
	acc := new(big.Int)
	for _, c := range chunks {
		acc.Lsh(acc, ChunkBits)
		acc.Or(acc, c.ToBig())
	}
	return acc
}

// ChunkFromBig converts a scalar to a chunk, failing for anything outside [0, 2^256).
func ChunkFromBig(s *big.Int) (*uint256.Int, error) {
	if s == nil {
		return nil, newError("chunk", "<nil>", ErrInvalidInput)
	}
	c, overflow := uint256.FromBig(s)
	if s.Sign() < 0 || overflow {
		return nil, newError("chunk", describe(s), ErrInvalidInput)
	}
	return c, nil
}
